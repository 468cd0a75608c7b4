package internal

// batcher tracks nested Batch calls. While the depth is above zero,
// writes commit immediately but propagation is deferred; the outermost
// batch flushes once on completion.
type batcher struct {
	// each nested batch increases the depth by 1
	depth int

	// dirty holds the input cells written during the batch, deduplicated.
	dirty   []*cell
	pending map[CellID]struct{}
}

func newBatcher() *batcher {
	return &batcher{
		pending: make(map[CellID]struct{}),
	}
}

func (b *batcher) isBatching() bool {
	return b.depth > 0
}

func (b *batcher) mark(c *cell) {
	if _, ok := b.pending[c.id]; ok {
		return
	}

	b.pending[c.id] = struct{}{}
	b.dirty = append(b.dirty, c)
}

// take hands over the dirty roots and resets the batcher for the next
// batch.
func (b *batcher) take() []*cell {
	dirty := b.dirty
	b.dirty = nil
	b.pending = make(map[CellID]struct{})

	return dirty
}

func (b *batcher) batch(fn, onComplete func()) {
	b.depth++
	defer func() {
		b.depth--
		if b.depth == 0 && onComplete != nil {
			onComplete()
		}
	}()

	fn()
}

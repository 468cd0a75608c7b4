package internal

// dirtyHeap orders recomputation by cell height. Every edge goes from
// a lower cell to a strictly higher one, so draining the buckets in
// ascending height recomputes each cell only after all of its
// dependencies have reached their final value.
type dirtyHeap struct {
	max   int
	cells [][]*cell // cells[height] = bucket of dirty cells
}

func newHeap() *dirtyHeap {
	return &dirtyHeap{
		cells: make([][]*cell, 16),
	}
}

// insert adds a cell to its height bucket. Cells already in the heap
// are skipped, so diamond-shaped fan-in enqueues a cell only once.
func (h *dirtyHeap) insert(c *cell) {
	if c.inHeap {
		return
	}
	c.inHeap = true

	for len(h.cells) <= c.height {
		h.cells = append(h.cells, nil)
	}

	h.cells[c.height] = append(h.cells[c.height], c)

	if c.height > h.max {
		h.max = c.height
	}
}

// drain processes every entry in ascending height order with the
// process function, leaving the heap empty.
func (h *dirtyHeap) drain(process func(*cell)) {
	for height := 0; height <= h.max && height < len(h.cells); height++ {
		bucket := h.cells[height]
		h.cells[height] = nil

		for _, c := range bucket {
			c.inHeap = false
			process(c)
		}
	}

	h.max = 0
}

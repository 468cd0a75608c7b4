package internal

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// SetValue writes an input cell and propagates the change to every
// transitive dependent before returning. Writes made inside a Batch
// commit immediately but defer propagation to the end of the outermost
// batch.
//
// A callback may itself call SetValue: the nested write runs a full
// propagation of its own, callbacks included, before control returns
// to the outer firing loop. Outer callbacks still receive the values
// the outer propagation settled on.
func (r *Runtime) SetValue(id CellID, value any) error {
	r.checkPinned()

	c, ok := r.cell(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrMissingCell, id)
	}
	if c.kind != cellInput {
		return fmt.Errorf("%w: %d", ErrExpectedInputCell, id)
	}

	r.log.Debug("set value", zap.Int("cell", int(id)))

	c.value = value

	if r.batcher.isBatching() {
		r.batcher.mark(c)
		return nil
	}

	return r.flush([]*cell{c})
}

// Batch runs fn, coalescing every SetValue made inside it (nested
// batches included) into a single propagation that fires callbacks
// once per net change.
func (r *Runtime) Batch(fn func()) error {
	r.checkPinned()

	var err error
	r.batcher.batch(fn, func() {
		if dirty := r.batcher.take(); len(dirty) > 0 {
			err = r.flush(dirty)
		}
	})

	return err
}

// flush is the propagation protocol: collect the affected set,
// snapshot it, recompute each affected cell exactly once in ascending
// height, snapshot it again, and fire callbacks for the cells whose
// value changed between the two snapshots.
func (r *Runtime) flush(roots []*cell) error {
	affected := r.dependentsOf(roots)

	before := make(map[CellID]any, len(affected))
	for _, c := range affected {
		before[c.id] = c.value
	}

	for _, c := range affected {
		r.heap.insert(c)
	}

	var firstErr error
	r.heap.drain(func(c *cell) {
		if err := r.recompute(c); err != nil && firstErr == nil {
			firstErr = err
		}
	})
	if firstErr != nil {
		return firstErr
	}

	after := make(map[CellID]any, len(affected))
	for _, c := range affected {
		after[c.id] = c.value
	}

	changed := 0
	for _, c := range affected {
		if after[c.id] == before[c.id] {
			continue
		}

		changed++
		r.fire(c, after[c.id])
	}

	r.log.Debug("propagated",
		zap.Int("affected", len(affected)),
		zap.Int("changed", changed))

	return nil
}

// dependentsOf walks the reverse edges from the given roots with an
// explicit worklist, returning every transitively dependent cell
// exactly once, in creation order. Diamond-shaped fan-in must not
// double-count a cell no matter how many paths reach it.
func (r *Runtime) dependentsOf(roots []*cell) []*cell {
	var affected []*cell
	seen := make(map[CellID]struct{}, len(roots))

	work := slices.Clone(roots)
	for len(work) > 0 {
		c := work[len(work)-1]
		work = work[:len(work)-1]

		for _, sub := range c.subs {
			if _, ok := seen[sub]; ok {
				continue
			}
			seen[sub] = struct{}{}

			s := r.cells[sub]
			affected = append(affected, s)
			work = append(work, s)
		}
	}

	slices.SortFunc(affected, func(a, b *cell) int {
		return int(a.id) - int(b.id)
	})

	return affected
}

// recompute reevaluates a single cell from its dependencies' current
// cached values, preserving declared argument order. Input cells keep
// their stored value.
func (r *Runtime) recompute(c *cell) error {
	if c.kind != cellComputed {
		return nil
	}

	args := make([]any, len(c.deps))
	for i, dep := range c.deps {
		d, ok := r.cell(dep)
		if !ok {
			// cells are never deleted, so a vanished dependency is a
			// broken invariant; report it instead of crashing.
			return fmt.Errorf("%w: %d", ErrMissingCell, dep)
		}

		args[i] = d.value
	}

	c.value = c.compute(args)

	return nil
}

// Recompute forces a single cell to reevaluate and returns the fresh
// value. An unknown id is a reported error, not an assumed
// impossibility.
func (r *Runtime) Recompute(id CellID) (any, error) {
	c, ok := r.cell(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrMissingCell, id)
	}

	if err := r.recompute(c); err != nil {
		return nil, err
	}

	return c.value, nil
}

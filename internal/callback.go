package internal

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// AddCallback registers fn on a computed cell and returns its id.
// Callbacks are not supported on input cells.
func (r *Runtime) AddCallback(id CellID, fn func(any)) (CallbackID, error) {
	r.checkPinned()

	c, ok := r.cell(id)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrMissingCell, id)
	}
	if c.kind != cellComputed {
		return 0, fmt.Errorf("%w: %d", ErrExpectedComputedCell, id)
	}

	cbID := r.nextCallbackID
	r.nextCallbackID++
	c.callbacks[cbID] = fn

	r.log.Debug("added callback",
		zap.Int("cell", int(id)),
		zap.Int("callback", int(cbID)))

	return cbID, nil
}

// RemoveCallback drops a callback so it never fires for any later
// mutation.
func (r *Runtime) RemoveCallback(id CellID, cb CallbackID) error {
	r.checkPinned()

	c, ok := r.cell(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrMissingCell, id)
	}
	if c.kind != cellComputed {
		return fmt.Errorf("%w: %d", ErrExpectedComputedCell, id)
	}
	if _, ok := c.callbacks[cb]; !ok {
		return fmt.Errorf("%w: %d", ErrCallbackDoesntExist, cb)
	}

	delete(c.callbacks, cb)

	r.log.Debug("removed callback",
		zap.Int("cell", int(id)),
		zap.Int("callback", int(cb)))

	return nil
}

// fire invokes every callback currently registered on the cell with
// the given value, in registration order. Membership is rechecked per
// callback so a removal made by an earlier callback in the same
// propagation is honored.
func (r *Runtime) fire(c *cell, value any) {
	ids := make([]CallbackID, 0, len(c.callbacks))
	for id := range c.callbacks {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		cb, ok := c.callbacks[id]
		if !ok {
			continue
		}

		r.log.Debug("firing callback",
			zap.Int("cell", int(c.id)),
			zap.Int("callback", int(id)))

		cb(value)
	}
}

package internal

import (
	"github.com/google/uuid"
	"github.com/petermattis/goid"
	"go.uber.org/zap"
)

// Runtime owns the dependency graph and the propagation machinery. It
// is single-threaded by design: a caller sharing a Runtime across
// goroutines must serialize access externally.
type Runtime struct {
	cells []*cell

	heap    *dirtyHeap
	batcher *batcher

	nextCallbackID CallbackID

	log *zap.Logger

	// ownerGID pins the runtime to its creating goroutine when
	// WithGoroutinePinning is set.
	pinned   bool
	ownerGID int64
}

type Option func(*Runtime)

// WithLogger replaces the default no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Runtime) { r.log = log }
}

// WithGoroutinePinning makes every operation panic when invoked from a
// goroutine other than the one that created the runtime. Off by
// default, since a caller may legitimately serialize access to a
// shared runtime with a lock instead of a dedicated goroutine.
func WithGoroutinePinning() Option {
	return func(r *Runtime) {
		r.pinned = true
		r.ownerGID = goid.Get()
	}
}

func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		heap:    newHeap(),
		batcher: newBatcher(),
		log:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.log = r.log.With(zap.String("reactor", uuid.NewString()))

	return r
}

func (r *Runtime) checkPinned() {
	if r.pinned && goid.Get() != r.ownerGID {
		panic("react: runtime is pinned to the goroutine that created it")
	}
}

func (r *Runtime) cell(id CellID) (*cell, bool) {
	if id < 0 || int(id) >= len(r.cells) {
		return nil, false
	}

	return r.cells[id], true
}

// NewInput inserts an input cell holding the given value and returns
// its id. Always succeeds.
func (r *Runtime) NewInput(value any) CellID {
	r.checkPinned()

	c := &cell{
		id:    CellID(len(r.cells)),
		kind:  cellInput,
		value: value,
	}
	r.cells = append(r.cells, c)

	r.log.Debug("created input cell", zap.Int("cell", int(c.id)))

	return c.id
}

// NewCompute validates the dependency list, seeds the cache by running
// compute against the current dependency values in declared order, and
// inserts the cell with its forward and reverse edges. When any
// dependency is unknown the graph is left untouched and the error
// lists every missing id.
func (r *Runtime) NewCompute(deps []CellID, compute func([]any) any) (CellID, error) {
	r.checkPinned()

	var missing []CellID
	for _, dep := range deps {
		if _, ok := r.cell(dep); !ok {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return 0, &MissingDependenciesError{Missing: missing}
	}

	height := 0
	args := make([]any, len(deps))
	for i, dep := range deps {
		d := r.cells[dep]
		args[i] = d.value

		if d.height >= height {
			height = d.height + 1
		}
	}

	c := &cell{
		id:        CellID(len(r.cells)),
		kind:      cellComputed,
		value:     compute(args),
		compute:   compute,
		deps:      append([]CellID(nil), deps...),
		height:    height,
		callbacks: make(map[CallbackID]func(any)),
	}
	r.cells = append(r.cells, c)

	for _, dep := range deps {
		r.cells[dep].subs = append(r.cells[dep].subs, c.id)
	}

	r.log.Debug("created computed cell",
		zap.Int("cell", int(c.id)),
		zap.Int("height", c.height),
		zap.Int("deps", len(c.deps)))

	return c.id, nil
}

// Value returns the cached value for the given cell. It never triggers
// a recomputation; computed caches are only written by propagation.
func (r *Runtime) Value(id CellID) (any, bool) {
	r.checkPinned()

	c, ok := r.cell(id)
	if !ok {
		return nil, false
	}

	return c.value, true
}

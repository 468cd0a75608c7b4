// Package react is an incremental-computation engine: a graph of
// memory cells where input cells hold raw values and computed cells
// derive theirs from other cells through a pure function. Writing an
// input transparently recomputes every dependent cell and notifies
// observers exactly once per cell whose final value actually changed.
//
// A Reactor is single-threaded: it runs every operation to completion
// on the calling goroutine and does no internal locking. Share one
// across goroutines only behind external serialization.
package react

import (
	"go.uber.org/zap"

	"github.com/AnatoleLucet/react/internal"
)

// CellID is a stable, opaque handle to a cell, valid for the lifetime
// of the Reactor that issued it. Cells are never deleted, so an id
// never goes stale.
type CellID = internal.CellID

// CallbackID identifies a registered callback for later removal.
type CallbackID = internal.CallbackID

// Option configures a Reactor at construction time.
type Option = internal.Option

var (
	// ErrMissingCell reports an id unknown to the Reactor.
	ErrMissingCell = internal.ErrMissingCell

	// ErrExpectedInputCell reports a SetValue on a computed cell.
	ErrExpectedInputCell = internal.ErrExpectedInputCell

	// ErrExpectedComputedCell reports a callback operation on an input cell.
	ErrExpectedComputedCell = internal.ErrExpectedComputedCell

	// ErrCallbackDoesntExist reports a RemoveCallback for an id not
	// registered on the given cell.
	ErrCallbackDoesntExist = internal.ErrCallbackDoesntExist
)

// MissingDependenciesError lists every unknown dependency id passed to
// CreateCompute.
type MissingDependenciesError = internal.MissingDependenciesError

// WithLogger makes the Reactor emit debug events (cell creation,
// writes, propagation summaries, callback firings) through the given
// logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return internal.WithLogger(log)
}

// WithGoroutinePinning pins the Reactor to the goroutine that creates
// it; any use from another goroutine panics. Useful to catch
// unsynchronized sharing early.
func WithGoroutinePinning() Option {
	return internal.WithGoroutinePinning()
}

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Reactor is a dependency graph of input and computed cells over
// values of type T. T must be comparable: change detection works by
// comparing a cell's value before and after a propagation.
type Reactor[T comparable] struct {
	runtime *internal.Runtime
}

// New creates an empty Reactor.
func New[T comparable](opts ...Option) *Reactor[T] {
	return &Reactor[T]{
		runtime: internal.NewRuntime(opts...),
	}
}

// CreateInput creates an input cell holding the given value and
// returns its id.
func (r *Reactor[T]) CreateInput(initial T) CellID {
	return r.runtime.NewInput(initial)
}

// CreateCompute creates a computed cell deriving its value from the
// given dependencies, which must all exist already. The compute
// function receives the dependency values in the declared order and is
// assumed pure; it runs once immediately to seed the cell's cache.
//
// If any dependency is unknown, CreateCompute leaves the Reactor
// untouched and returns a *MissingDependenciesError listing all of
// them.
func (r *Reactor[T]) CreateCompute(deps []CellID, compute func([]T) T) (CellID, error) {
	return r.runtime.NewCompute(deps, func(args []any) any {
		typed := make([]T, len(args))
		for i, arg := range args {
			typed[i] = as[T](arg)
		}

		return compute(typed)
	})
}

// Value returns the cached value of a cell, or false if the id is
// unknown. It is a pure read and never triggers recomputation.
func (r *Reactor[T]) Value(id CellID) (T, bool) {
	v, ok := r.runtime.Value(id)
	if !ok {
		var zero T
		return zero, false
	}

	return as[T](v), true
}

// SetValue writes an input cell, recomputes every dependent cell, and
// fires the callbacks of each computed cell whose value changed —
// exactly once per cell, with its final value — before returning.
//
// A callback may call back into the Reactor; a nested SetValue runs a
// complete propagation of its own before the outer one resumes firing.
func (r *Reactor[T]) SetValue(id CellID, value T) error {
	return r.runtime.SetValue(id, value)
}

// Batch runs fn, coalescing all SetValue calls made inside it into a
// single propagation once the outermost batch ends. Writes are visible
// to Value immediately; callbacks observe only the net change, so a
// value written and then restored within the batch fires nothing.
func (r *Reactor[T]) Batch(fn func()) error {
	return r.runtime.Batch(fn)
}

// AddCallback registers a callback on a computed cell and returns the
// id to remove it with. The callback fires after a propagation in
// which the cell's value changed, receiving the new value.
func (r *Reactor[T]) AddCallback(id CellID, fn func(T)) (CallbackID, error) {
	return r.runtime.AddCallback(id, func(v any) {
		fn(as[T](v))
	})
}

// RemoveCallback unregisters a callback; it will not fire for any
// later mutation.
func (r *Reactor[T]) RemoveCallback(id CellID, cb CallbackID) error {
	return r.runtime.RemoveCallback(id, cb)
}

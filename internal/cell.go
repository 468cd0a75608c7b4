package internal

// CellID is a stable handle to a cell. Ids are assigned in creation
// order and never reused; cells are never deleted.
type CellID int

// CallbackID identifies a callback registered on a computed cell. Ids
// come from a single counter shared by every cell of a runtime.
type CallbackID int

type cellKind int

const (
	cellInput cellKind = iota
	cellComputed
)

// cell is a node of the dependency graph. Input cells only carry a
// value; computed cells additionally carry their compute function,
// their declared dependency order, and their registered callbacks.
type cell struct {
	id    CellID
	kind  cellKind
	value any

	// compute derives the cell's value from its dependencies' values,
	// given in declared argument order. nil for input cells.
	compute func([]any) any

	// deps is the declared dependency list. The slice index is the
	// argument position, so the declared order survives whatever order
	// the graph happens to be walked in.
	deps []CellID

	// subs lists the cells that directly depend on this one (the
	// reverse edges), in creation order.
	subs []CellID

	// height is the cell's depth in the dependency graph: 0 for
	// inputs, 1 + max(dep heights) for computed cells. The graph never
	// changes after creation, so heights are static.
	height int

	callbacks map[CallbackID]func(any)

	inHeap bool
}

package internal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingCell reports an id that is not present in the graph.
	ErrMissingCell = errors.New("react: no cell with the given id")

	// ErrExpectedInputCell reports a computed cell passed to an
	// operation that only accepts input cells.
	ErrExpectedInputCell = errors.New("react: expected an input cell, found a computed cell")

	// ErrExpectedComputedCell reports an input cell passed to an
	// operation that only accepts computed cells.
	ErrExpectedComputedCell = errors.New("react: expected a computed cell, found an input cell")

	// ErrCallbackDoesntExist reports a callback id that is not
	// currently registered on the given cell.
	ErrCallbackDoesntExist = errors.New("react: no callback with the given id on this cell")
)

// MissingDependenciesError reports every dependency id passed to
// NewCompute that does not exist in the graph, not just the first one,
// so a caller can surface all of them at once.
type MissingDependenciesError struct {
	Missing []CellID
}

func (e *MissingDependenciesError) Error() string {
	ids := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		ids[i] = fmt.Sprintf("%d", id)
	}

	return fmt.Sprintf("react: missing dependencies: [%s]", strings.Join(ids, " "))
}

package planning

import "errors"

// Error taxonomy for the planning core. Services validate their own
// preconditions and fail fast; none of these conditions is retried.
var (
	// ErrNotFound indicates a referenced product, work center, or order
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a precondition failure: non-positive
	// quantities, zero-length horizons, malformed job or operation lists.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInfeasible indicates the computation cannot produce a meaningful
	// result: a job routed through a work center with zero capacity, or
	// missing capacity requirement data.
	ErrInfeasible = errors.New("infeasible")
)

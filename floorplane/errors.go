package floorplane

import "errors"

var (
	// ErrOpenLoop is returned when a sector boundary walk reaches a vertex with no way on.
	ErrOpenLoop = errors.New("sector boundary does not close")
	// ErrRunaway is returned when a walk or classification exceeds its iteration ceiling.
	ErrRunaway = errors.New("iteration ceiling exceeded")
)

package navmesh

import "errors"

var (
	ErrEmptySoup = errors.New("polygon soup is empty")
	ErrRunaway   = errors.New("flood fill exceeded its iteration ceiling")
	ErrBadSoup   = errors.New("malformed polygon soup")
)

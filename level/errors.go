package level

import "errors"

var (
	ErrIndexOutOfRange = errors.New("level: index out of range")
	ErrUnknownTag      = errors.New("level: unknown tag")
)

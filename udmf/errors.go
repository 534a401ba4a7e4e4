package udmf

import "errors"

var (
	// ErrBadBlock is returned for a chunk with no opening brace.
	ErrBadBlock = errors.New("BAD BLOCK")
	// ErrParse is returned when a chunk does not match the grammar.
	ErrParse = errors.New("udmf: could not parse block")
	// ErrAmbiguous is reported for a chunk that has more than one reading.
	ErrAmbiguous = errors.New("udmf: ambiguous block")
)

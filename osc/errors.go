package osc

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	ErrTruncated       = errors.New("osc: truncated buffer")
	ErrMisaligned      = errors.New("osc: buffer not 4-byte aligned")
	ErrUnterminated    = errors.New("osc: unterminated string")
	ErrBadPadding      = errors.New("osc: non-zero padding")
	ErrEmptyAddress    = errors.New("osc: empty address")
	ErrMissingTypeTags = errors.New("osc: type tags must start with ','")
	ErrUnknownTag      = errors.New("osc: unknown type tag")
	ErrArgumentCount   = errors.New("osc: argument count does not match type tags")
	ErrBlobLength      = errors.New("osc: invalid blob length")
	ErrNullInString    = errors.New("osc: null byte in string")
)

// DecodeError reports where in the buffer decoding failed.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode at byte %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeError(offset int, err error) error {
	return &DecodeError{Offset: offset, Err: err}
}

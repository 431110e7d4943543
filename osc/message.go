package osc

import (
	"bytes"
	"math"
	"strings"

	"github.com/go-faster/errors"
)

// Message is an OSC address with its ordered arguments.
type Message struct {
	Address string
	Args    []Argument
	// Bare marks a message whose wire form ends after the address, without
	// a type-tag string. It only has an effect when Args is empty.
	Bare bool
}

// NewMessage returns a message for address carrying args.
func NewMessage(address string, args ...Argument) Message {
	if len(args) == 0 {
		args = nil
	}
	return Message{Address: address, Args: args}
}

// TypeTags returns the type-tag string, e.g. ",fs".
func (m Message) TypeTags() string {
	var sb strings.Builder
	sb.WriteByte(',')
	for _, a := range m.Args {
		sb.WriteByte(a.Tag())
	}
	return sb.String()
}

// Validate reports whether m survives a round trip through the wire
// form unchanged: the address must be set and no string may hold a null
// byte.
func (m Message) Validate() error {
	if m.Address == "" {
		return ErrEmptyAddress
	}
	if strings.IndexByte(m.Address, 0) >= 0 {
		return errors.Wrap(ErrNullInString, "address")
	}
	for i, a := range m.Args {
		if v, ok := a.(String); ok && strings.IndexByte(string(v), 0) >= 0 {
			return errors.Wrapf(ErrNullInString, "argument %d", i)
		}
	}
	return nil
}

// Equal compares m and o by their wire meaning. A nil and an empty
// argument list are the same, and Bare only counts without arguments.
// Floats compare by bits so NaN equals itself.
func (m Message) Equal(o Message) bool {
	if m.Address != o.Address || len(m.Args) != len(o.Args) {
		return false
	}
	if len(m.Args) == 0 {
		return m.Bare == o.Bare
	}
	for i, a := range m.Args {
		if !argumentEqual(a, o.Args[i]) {
			return false
		}
	}
	return true
}

func argumentEqual(a, b Argument) bool {
	switch v := a.(type) {
	case Int:
		w, ok := b.(Int)
		return ok && v == w
	case Float:
		w, ok := b.(Float)
		return ok && math.Float32bits(float32(v)) == math.Float32bits(float32(w))
	case String:
		w, ok := b.(String)
		return ok && v == w
	case Blob:
		w, ok := b.(Blob)
		return ok && bytes.Equal(v, w)
	}
	return false
}

// IntArg returns argument i if it is an Int.
func (m Message) IntArg(i int) (int32, bool) {
	if i < 0 || i >= len(m.Args) {
		return 0, false
	}
	v, ok := m.Args[i].(Int)
	return int32(v), ok
}

// FloatArg returns argument i if it is a Float.
func (m Message) FloatArg(i int) (float32, bool) {
	if i < 0 || i >= len(m.Args) {
		return 0, false
	}
	v, ok := m.Args[i].(Float)
	return float32(v), ok
}

// StringArg returns argument i if it is a String.
func (m Message) StringArg(i int) (string, bool) {
	if i < 0 || i >= len(m.Args) {
		return "", false
	}
	v, ok := m.Args[i].(String)
	return string(v), ok
}

// BlobArg returns argument i if it is a Blob.
func (m Message) BlobArg(i int) ([]byte, bool) {
	if i < 0 || i >= len(m.Args) {
		return nil, false
	}
	v, ok := m.Args[i].(Blob)
	return []byte(v), ok
}

// Text renders the message for logs, e.g. `/ch/01/mix/fader ,f 0.75`.
func (m Message) Text() string {
	if len(m.Args) == 0 {
		return m.Address
	}
	parts := make([]string, 0, len(m.Args)+2)
	parts = append(parts, m.Address, m.TypeTags())
	for _, a := range m.Args {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " ")
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m Message) MarshalBinary() ([]byte, error) {
	return Encode(m), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *Message) UnmarshalBinary(b []byte) error {
	decoded, err := Decode(b)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}

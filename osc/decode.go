package osc

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/go-faster/errors"
)

// Decode parses exactly one message from b.
//
// A buffer that ends right after the address decodes to a Bare message.
// Any bytes left after the last tagged argument are an error, so a
// successful Decode always re-encodes to the same bytes.
func Decode(b []byte) (Message, error) {
	if len(b) == 0 {
		return Message{}, decodeError(0, ErrTruncated)
	}
	if len(b)%4 != 0 {
		return Message{}, decodeError(len(b), ErrMisaligned)
	}
	r := reader{buf: b}
	address, err := r.readString()
	if err != nil {
		return Message{}, err
	}
	if address == "" {
		return Message{}, decodeError(0, ErrEmptyAddress)
	}
	if r.done() {
		return Message{Address: address, Bare: true}, nil
	}

	tagsAt := r.off
	tags, err := r.readString()
	if err != nil {
		return Message{}, err
	}
	if len(tags) == 0 || tags[0] != ',' {
		return Message{}, decodeError(tagsAt, ErrMissingTypeTags)
	}
	tags = tags[1:]
	for i := 0; i < len(tags); i++ {
		switch tags[i] {
		case 'i', 'f', 's', 'b':
		default:
			return Message{}, decodeError(tagsAt+1+i, errors.Wrapf(ErrUnknownTag, "tag %q", tags[i]))
		}
	}

	m := Message{Address: address}
	if len(tags) > 0 {
		m.Args = make([]Argument, 0, len(tags))
	}
	for i := 0; i < len(tags); i++ {
		if r.done() {
			return Message{}, decodeError(r.off, errors.Wrapf(ErrArgumentCount, "%d tags, %d arguments", len(tags), i))
		}
		arg, err := r.readArgument(tags[i])
		if err != nil {
			return Message{}, err
		}
		m.Args = append(m.Args, arg)
	}
	if !r.done() {
		return Message{}, decodeError(r.off, errors.Wrapf(ErrArgumentCount, "%d trailing bytes", len(b)-r.off))
	}
	return m, nil
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) done() bool {
	return r.off >= len(r.buf)
}

func (r *reader) readArgument(tag byte) (Argument, error) {
	switch tag {
	case 'i':
		v, err := r.readUint32()
		return Int(int32(v)), err
	case 'f':
		v, err := r.readUint32()
		return Float(math.Float32frombits(v)), err
	case 's':
		s, err := r.readString()
		return String(s), err
	case 'b':
		return r.readBlob()
	}
	return nil, decodeError(r.off, ErrUnknownTag)
}

func (r *reader) readUint32() (uint32, error) {
	if len(r.buf)-r.off < 4 {
		return 0, decodeError(r.off, ErrTruncated)
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

// readString reads a terminated string and checks its padding.
func (r *reader) readString() (string, error) {
	n := bytes.IndexByte(r.buf[r.off:], 0)
	if n < 0 {
		return "", decodeError(r.off, ErrUnterminated)
	}
	s := string(r.buf[r.off : r.off+n])
	end := r.off + paddedLen(n+1)
	if end > len(r.buf) {
		return "", decodeError(r.off, ErrTruncated)
	}
	if err := r.checkPadding(r.off+n+1, end); err != nil {
		return "", err
	}
	r.off = end
	return s, nil
}

func (r *reader) readBlob() (Argument, error) {
	at := r.off
	size, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	n := int(int32(size))
	if n < 0 {
		return nil, decodeError(at, errors.Wrapf(ErrBlobLength, "length %d", n))
	}
	end := r.off + paddedLen(n)
	if n > len(r.buf)-r.off || end > len(r.buf) {
		return nil, decodeError(r.off, ErrTruncated)
	}
	data := make([]byte, n)
	copy(data, r.buf[r.off:r.off+n])
	if err := r.checkPadding(r.off+n, end); err != nil {
		return nil, err
	}
	r.off = end
	return Blob(data), nil
}

func (r *reader) checkPadding(from, to int) error {
	for i := from; i < to; i++ {
		if r.buf[i] != 0 {
			return decodeError(i, ErrBadPadding)
		}
	}
	return nil
}

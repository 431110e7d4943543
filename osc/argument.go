package osc

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Argument is one typed value of a Message. The set of implementations is
// closed: Int, Float, String and Blob.
type Argument interface {
	// Tag returns the OSC type tag character of the argument.
	Tag() byte
	String() string
	appendTo(b []byte) []byte
}

// Int is an OSC 'i' argument.
type Int int32

// Float is an OSC 'f' argument.
type Float float32

// String is an OSC 's' argument. The wire form ends at the first null
// byte, anything after it is not encoded.
type String string

// Blob is an OSC 'b' argument.
type Blob []byte

func (Int) Tag() byte    { return 'i' }
func (Float) Tag() byte  { return 'f' }
func (String) Tag() byte { return 's' }
func (Blob) Tag() byte   { return 'b' }

func (v Int) appendTo(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(v))
}

func (v Float) appendTo(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, math.Float32bits(float32(v)))
}

func (v String) appendTo(b []byte) []byte {
	return appendString(b, string(v))
}

func (v Blob) appendTo(b []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(v)))
	b = append(b, v...)
	return pad(b)
}

func (v Int) String() string    { return fmt.Sprintf("%d", int32(v)) }
func (v Float) String() string  { return fmt.Sprintf("%g", float32(v)) }
func (v String) String() string { return fmt.Sprintf("%q", string(v)) }
func (v Blob) String() string   { return fmt.Sprintf("blob[%d]", len(v)) }

// appendString writes s up to its first null byte, the terminator and
// the padding.
func appendString(b []byte, s string) []byte {
	b = append(b, terminated(s)...)
	b = append(b, 0)
	return pad(b)
}

func terminated(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}

func pad(b []byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

// paddedLen is the wire size of n bytes after 4-byte alignment.
func paddedLen(n int) int {
	return (n + 3) &^ 3
}

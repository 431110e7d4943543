package x32

import (
	"encoding/binary"
	"math"
)

// MeterBlock is the raw payload of a /meters/N message.
type MeterBlock struct {
	ID   int
	Data []byte
}

// Floats reads the payload as little-endian float32 values. A trailing
// partial value is dropped.
func (m MeterBlock) Floats() []float32 {
	out := make([]float32, 0, len(m.Data)/4)
	for i := 0; i+4 <= len(m.Data); i += 4 {
		out = append(out, math.Float32frombits(binary.LittleEndian.Uint32(m.Data[i:])))
	}
	return out
}

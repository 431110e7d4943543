package osc

// Encode returns the wire form of m. The result length is always a
// multiple of 4.
func Encode(m Message) []byte {
	b := make([]byte, 0, m.size())
	b = appendString(b, m.Address)
	if len(m.Args) == 0 && m.Bare {
		return b
	}
	b = append(b, ',')
	for _, a := range m.Args {
		b = append(b, a.Tag())
	}
	b = append(b, 0)
	b = pad(b)
	for _, a := range m.Args {
		b = a.appendTo(b)
	}
	return b
}

// size is the exact encoded length of m.
func (m Message) size() int {
	n := paddedLen(len(terminated(m.Address)) + 1)
	if len(m.Args) == 0 && m.Bare {
		return n
	}
	n += paddedLen(len(m.Args) + 2)
	for _, a := range m.Args {
		switch v := a.(type) {
		case Int, Float:
			n += 4
		case String:
			n += paddedLen(len(terminated(string(v))) + 1)
		case Blob:
			n += 4 + paddedLen(len(v))
		}
	}
	return n
}

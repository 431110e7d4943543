package x32

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrInvalidFader is returned for a kind/number pair the console does not have.
var ErrInvalidFader = errors.New("x32: invalid fader")

// FaderKind is a bank of faders on the console.
type FaderKind uint8

const (
	Main FaderKind = iota + 1
	Mono
	Matrix
	Aux
	Bus
	DCA
	Channel
)

type kindInfo struct {
	name    string
	segment string
	count   int
}

var kinds = map[FaderKind]kindInfo{
	Main:    {name: "main", segment: "main", count: 1},
	Mono:    {name: "mono", segment: "main", count: 1},
	Matrix:  {name: "matrix", segment: "mtx", count: 6},
	Aux:     {name: "aux", segment: "auxin", count: 8},
	Bus:     {name: "bus", segment: "bus", count: 16},
	DCA:     {name: "dca", segment: "dca", count: 8},
	Channel: {name: "channel", segment: "ch", count: 32},
}

// kindOrder is the order faders are listed and requested in.
var kindOrder = []FaderKind{Main, Mono, Matrix, Aux, Bus, DCA, Channel}

func (k FaderKind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("FaderKind(%d)", uint8(k))
}

// Count is the number of faders of this kind.
func (k FaderKind) Count() int {
	return kinds[k].count
}

// FaderIndex identifies one fader. Number is 1-based; Main and Mono only
// have number 1. Use NewFaderIndex to build checked values.
type FaderIndex struct {
	Kind   FaderKind
	Number int
}

var (
	MainFader = FaderIndex{Kind: Main, Number: 1}
	MonoFader = FaderIndex{Kind: Mono, Number: 1}
)

func NewFaderIndex(kind FaderKind, number int) (FaderIndex, error) {
	idx := FaderIndex{Kind: kind, Number: number}
	if !idx.Valid() {
		return FaderIndex{}, errors.Wrapf(ErrInvalidFader, "%v %d", kind, number)
	}
	return idx, nil
}

func (f FaderIndex) Valid() bool {
	info, ok := kinds[f.Kind]
	return ok && f.Number >= 1 && f.Number <= info.count
}

// DefaultName is the label the console shows for an unnamed fader.
func (f FaderIndex) DefaultName() string {
	switch f.Kind {
	case Main:
		return "Main"
	case Mono:
		return "M/C"
	case Matrix:
		return fmt.Sprintf("Mtx%02d", f.Number)
	case Aux:
		return fmt.Sprintf("Aux%02d", f.Number)
	case Bus:
		return fmt.Sprintf("MixBus%02d", f.Number)
	case DCA:
		return fmt.Sprintf("DCA%d", f.Number)
	case Channel:
		return fmt.Sprintf("Ch%02d", f.Number)
	}
	return ""
}

// Address is the OSC path prefix of the fader, e.g. "/ch/01".
func (f FaderIndex) Address() string {
	switch f.Kind {
	case Main:
		return "/main/st"
	case Mono:
		return "/main/m"
	case DCA:
		return fmt.Sprintf("/dca/%d", f.Number)
	}
	if info, ok := kinds[f.Kind]; ok {
		return fmt.Sprintf("/%s/%02d", info.segment, f.Number)
	}
	return ""
}

func (f FaderIndex) String() string {
	return fmt.Sprintf("%v/%d", f.Kind, f.Number)
}

// FaderIndices lists every valid fader in request order.
func FaderIndices() []FaderIndex {
	var out []FaderIndex
	for _, k := range kindOrder {
		for n := 1; n <= k.Count(); n++ {
			out = append(out, FaderIndex{Kind: k, Number: n})
		}
	}
	return out
}

// parseFaderIndex resolves the two leading address segments of a fader path.
// "/main/01" is accepted as the stereo main, as some tools send it.
func parseFaderIndex(bank, number string) (FaderIndex, bool) {
	if bank == "main" {
		switch number {
		case "st", "01":
			return MainFader, true
		case "m":
			return MonoFader, true
		}
		return FaderIndex{}, false
	}
	n, ok := parseIndex(number)
	if !ok {
		return FaderIndex{}, false
	}
	for _, k := range kindOrder {
		if k == Main || k == Mono || kinds[k].segment != bank {
			continue
		}
		idx := FaderIndex{Kind: k, Number: n}
		return idx, idx.Valid()
	}
	return FaderIndex{}, false
}

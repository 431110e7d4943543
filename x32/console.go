package x32

import (
	"math"
	"strconv"

	"github.com/normen/x32-osc/osc"
)

// Console is the mirrored state of one console: every fader and the
// show's cue list. The zero value is not usable, call NewConsole.
type Console struct {
	faders map[FaderIndex]*FaderState
	show   showFile
}

func NewConsole() *Console {
	c := &Console{faders: make(map[FaderIndex]*FaderState)}
	for _, idx := range FaderIndices() {
		f := newFaderState(idx)
		c.faders[idx] = &f
	}
	return c
}

// Process decodes one datagram and applies it. Input that does not
// decode or is not understood yields NoOperation and changes nothing.
func (c *Console) Process(buf []byte) Result {
	m, err := osc.Decode(buf)
	if err != nil {
		return NoOperation{}
	}
	return c.ProcessMessage(m)
}

// ProcessMessage applies an already decoded message. Replies to /node
// queries are unpacked and routed like plain messages.
func (c *Console) ProcessMessage(m osc.Message) Result {
	address, args := m.Address, m.Args
	if address == "node" || address == "/node" {
		text, ok := m.StringArg(0)
		if !ok {
			return NoOperation{}
		}
		address, args = SplitNode(text)
	}
	switch t := Route(address).(type) {
	case FaderTarget:
		return c.applyFader(t, args)
	case CueTarget:
		return c.applyShow(t, args)
	case MeterTarget:
		if len(args) == 0 {
			return NoOperation{}
		}
		if data, ok := args[0].(osc.Blob); ok {
			return Meters{Block: MeterBlock{ID: t.ID, Data: []byte(data)}}
		}
	}
	return NoOperation{}
}

// Fader returns a snapshot of a fader, false for an invalid index.
func (c *Console) Fader(idx FaderIndex) (FaderState, bool) {
	f, ok := c.faders[idx]
	if !ok {
		return FaderState{}, false
	}
	return *f, true
}

// Faders returns snapshots of all faders in request order.
func (c *Console) Faders() []FaderState {
	out := make([]FaderState, 0, len(c.faders))
	for _, idx := range FaderIndices() {
		out = append(out, *c.faders[idx])
	}
	return out
}

// ActiveCue formats the current cue, scene or snippet depending on the
// show mode, e.g. "Cue: 1.2.3 :: Intro [--] [--]".
func (c *Console) ActiveCue() string {
	return c.show.text()
}

// Cue returns the cue at the current position.
func (c *Console) Cue() CueState {
	return c.show.active()
}

func (c *Console) ShowMode() ShowMode {
	return c.show.mode
}

// CurrentIndex is the show position, -1 when nothing is selected.
func (c *Console) CurrentIndex() int {
	return c.show.current
}

// CueListSize counts the populated cues, scenes and snippets.
func (c *Console) CueListSize() (cues, scenes, snippets int) {
	return countSet(c.show.cues[:]), countSet(c.show.scenes[:]), countSet(c.show.snippets[:])
}

// Reset returns every fader and the show to their defaults.
func (c *Console) Reset() {
	for idx := range c.faders {
		*c.faders[idx] = newFaderState(idx)
	}
	c.show = showFile{}
}

// ClearCues empties the cue, scene and snippet lists.
func (c *Console) ClearCues() {
	c.show.clear()
}

func (c *Console) applyFader(t FaderTarget, args []osc.Argument) Result {
	f, ok := c.faders[t.Fader]
	if !ok {
		return NoOperation{}
	}
	switch t.Field {
	case FieldLevel:
		level, ok := floatArg(args, 0)
		if !ok {
			return NoOperation{}
		}
		f.setLevel(level)
	case FieldOn:
		on, ok := intArg(args, 0)
		if !ok {
			return NoOperation{}
		}
		f.on = on == 1
	case FieldName:
		name, ok := stringArg(args, 0)
		if !ok {
			return NoOperation{}
		}
		f.name = name
	case FieldColor:
		color, ok := colorArg(args, 0)
		if !ok {
			return NoOperation{}
		}
		f.color = color
	case FieldMix:
		on, ok1 := stringArg(args, 0)
		level, ok2 := stringArg(args, 1)
		if !ok1 || !ok2 {
			return NoOperation{}
		}
		f.on = on == "ON"
		f.setLevel(LevelFromText(level))
	case FieldConfig:
		name, ok := stringArg(args, 0)
		if !ok {
			return NoOperation{}
		}
		f.name = name
		if color, ok := colorArg(args, 2); ok {
			f.color = color
		}
	default:
		return NoOperation{}
	}
	return Fader{State: *f}
}

func (c *Console) applyShow(t CueTarget, args []osc.Argument) Result {
	s := &c.show
	switch t.Field {
	case CueCurrent:
		v, ok := intArg(args, 0)
		if !ok {
			return NoOperation{}
		}
		if v < 0 {
			v = -1
		}
		s.current = int(v)
	case CueShowMode:
		if len(args) == 0 {
			return NoOperation{}
		}
		switch a := args[0].(type) {
		case osc.Int:
			s.mode = ShowModeFromInt(int32(a))
		case osc.String:
			s.mode = ShowModeFromName(string(a))
		default:
			return NoOperation{}
		}
	case CueNumber:
		v, ok := intArg(args, 0)
		if !ok {
			return NoOperation{}
		}
		s.cue(t.Index).SetNumber(int(v))
	case CueName:
		name, ok := stringArg(args, 0)
		if !ok {
			return NoOperation{}
		}
		s.cue(t.Index).Name = name
	case CueScene:
		v, ok := intArg(args, 0)
		if !ok {
			return NoOperation{}
		}
		s.cue(t.Index).Scene = slotRef(v)
	case CueSnippet:
		v, ok := intArg(args, 0)
		if !ok {
			return NoOperation{}
		}
		s.cue(t.Index).Snippet = slotRef(v)
	case CueRecord:
		// numb "name" skip scene snippet ...
		number, ok1 := intArg(args, 0)
		name, ok2 := stringArg(args, 1)
		if !ok1 || !ok2 {
			return NoOperation{}
		}
		cue := defaultCue()
		cue.SetNumber(int(number))
		cue.Name = name
		if v, ok := intArg(args, 3); ok {
			cue.Scene = slotRef(v)
		}
		if v, ok := intArg(args, 4); ok {
			cue.Snippet = slotRef(v)
		}
		s.cues[t.Index] = &cue
	case SceneName:
		name, ok := stringArg(args, 0)
		if !ok {
			return NoOperation{}
		}
		s.scenes[t.Index] = &name
	case SnippetName:
		name, ok := stringArg(args, 0)
		if !ok {
			return NoOperation{}
		}
		s.snippets[t.Index] = &name
	default:
		return NoOperation{}
	}
	return CurrentCue{Text: s.text()}
}

func slotRef(v int32) int {
	if v < 0 {
		return -1
	}
	return int(v)
}

// The arg helpers accept the typed value or, for node replies, its text.

func intArg(args []osc.Argument, i int) (int32, bool) {
	if i >= len(args) {
		return 0, false
	}
	switch a := args[i].(type) {
	case osc.Int:
		return int32(a), true
	case osc.String:
		n, err := strconv.ParseInt(string(a), 10, 32)
		return int32(n), err == nil
	}
	return 0, false
}

// floatArg rejects NaN and infinities, the console never sends them.
func floatArg(args []osc.Argument, i int) (float32, bool) {
	if i >= len(args) {
		return 0, false
	}
	var v float64
	switch a := args[i].(type) {
	case osc.Float:
		v = float64(a)
	case osc.String:
		n, err := strconv.ParseFloat(string(a), 32)
		if err != nil {
			return 0, false
		}
		v = n
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return float32(v), true
}

func stringArg(args []osc.Argument, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	s, ok := args[i].(osc.String)
	return string(s), ok
}

func colorArg(args []osc.Argument, i int) (Color, bool) {
	if i >= len(args) {
		return 0, false
	}
	switch a := args[i].(type) {
	case osc.Int:
		return ColorFromInt(int32(a)), true
	case osc.String:
		return ParseColor(string(a))
	}
	return 0, false
}

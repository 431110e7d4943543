package x32

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normen/x32-osc/osc"
)

func send(c *Console, address string, args ...osc.Argument) Result {
	return c.Process(osc.Encode(osc.NewMessage(address, args...)))
}

func node(c *Console, text string) Result {
	return send(c, "node", osc.String(text))
}

func channel(n int) FaderIndex {
	return FaderIndex{Kind: Channel, Number: n}
}

func TestNewConsoleDefaults(t *testing.T) {
	c := NewConsole()
	assert.Equal(t, "Cue: 0.0.0 :: -- [--] [--]", c.ActiveCue())
	assert.Equal(t, Cues, c.ShowMode())

	f, ok := c.Fader(channel(1))
	require.True(t, ok)
	assert.Equal(t, "Ch01", f.Name())
	level, label := f.Level()
	assert.Equal(t, float32(0), level)
	assert.Equal(t, MinusInfinity, label)
	on, onLabel := f.On()
	assert.False(t, on)
	assert.Equal(t, "OFF", onLabel)
	assert.Equal(t, "OFF", f.Color().String())

	for _, idx := range FaderIndices() {
		f, ok := c.Fader(idx)
		require.True(t, ok, idx.String())
		assert.Equal(t, idx.DefaultName(), f.Name())
		assert.Equal(t, idx, f.Index())
	}
	assert.Len(t, c.Faders(), 72)

	cues, scenes, snippets := c.CueListSize()
	assert.Zero(t, cues+scenes+snippets)
}

func TestFaderLookupInvalid(t *testing.T) {
	c := NewConsole()
	for _, idx := range []FaderIndex{
		{},
		{Kind: Channel, Number: 0},
		{Kind: Channel, Number: 33},
		{Kind: Bus, Number: 17},
		{Kind: Main, Number: 2},
		{Kind: FaderKind(42), Number: 1},
	} {
		_, ok := c.Fader(idx)
		assert.False(t, ok, "%+v", idx)
	}
}

func TestProcessFaderLevel(t *testing.T) {
	c := NewConsole()

	res := send(c, "/ch/05/mix/fader", osc.Float(0))
	require.IsType(t, Fader{}, res)
	_, label := res.(Fader).State.Level()
	assert.Equal(t, MinusInfinity, label)

	res = send(c, "/ch/05/mix/fader", osc.Float(0.99))
	require.IsType(t, Fader{}, res)
	state := res.(Fader).State
	level, label := state.Level()
	assert.Equal(t, float32(0.99), level)
	assert.Equal(t, "+9.6 dB", label)
	assert.InDelta(t, 9.6, state.Decibel(), 0.001)
	assert.Equal(t, channel(5), state.Index())

	stored, _ := c.Fader(channel(5))
	assert.Equal(t, state, stored)

	res = send(c, "/main/st/mix/fader", osc.Float(1))
	_, label = res.(Fader).State.Level()
	assert.Equal(t, "+10.0 dB", label)
}

func TestProcessFaderFields(t *testing.T) {
	c := NewConsole()

	res := send(c, "/bus/02/mix/on", osc.Int(1))
	on, label := res.(Fader).State.On()
	assert.True(t, on)
	assert.Equal(t, "ON", label)

	send(c, "/bus/02/mix/on", osc.Int(0))
	f, _ := c.Fader(FaderIndex{Kind: Bus, Number: 2})
	on, _ = f.On()
	assert.False(t, on)

	send(c, "/auxin/07/config/name", osc.String("USB L"))
	f, _ = c.Fader(FaderIndex{Kind: Aux, Number: 7})
	assert.Equal(t, "USB L", f.Name())

	send(c, "/auxin/07/config/name", osc.String(""))
	f, _ = c.Fader(FaderIndex{Kind: Aux, Number: 7})
	assert.Equal(t, "Aux07", f.Name())

	send(c, "/mtx/01/config/color", osc.Int(3))
	f, _ = c.Fader(FaderIndex{Kind: Matrix, Number: 1})
	assert.Equal(t, "YE", f.Color().String())

	res = send(c, "/dca/4/fader", osc.Float(0.5))
	_, label = res.(Fader).State.Level()
	assert.Equal(t, "-10.0 dB", label)

	send(c, "/dca/4/on", osc.Int(1))
	send(c, "/main/m/config/name", osc.String("Center"))
	f, _ = c.Fader(MonoFader)
	assert.Equal(t, "Center", f.Name())
}

func TestProcessWrongArgumentType(t *testing.T) {
	c := NewConsole()
	before := c.Faders()

	assert.Equal(t, NoOperation{}, send(c, "/ch/01/mix/fader", osc.String("x")))
	assert.Equal(t, NoOperation{}, send(c, "/ch/01/mix/fader"))
	assert.Equal(t, NoOperation{}, send(c, "/ch/01/mix/on", osc.Blob{1}))
	assert.Equal(t, NoOperation{}, send(c, "/ch/01/config/name", osc.Int(3)))
	assert.Equal(t, NoOperation{}, node(c, "/ch/01/mix ON"))

	assert.Equal(t, before, c.Faders())
}

func TestProcessNonFiniteLevel(t *testing.T) {
	c := NewConsole()
	send(c, "/ch/01/mix/fader", osc.Float(0.5))
	before := c.Faders()

	assert.Equal(t, NoOperation{}, send(c, "/ch/01/mix/fader", osc.Float(float32(math.NaN()))))
	assert.Equal(t, NoOperation{}, send(c, "/ch/01/mix/fader", osc.Float(float32(math.Inf(1)))))
	assert.Equal(t, NoOperation{}, send(c, "/dca/1/fader", osc.Float(float32(math.Inf(-1)))))
	assert.Equal(t, NoOperation{}, send(c, "/ch/01/mix/fader", osc.String("NaN")))
	assert.Equal(t, before, c.Faders())

	level, label := c.faders[channel(1)].Level()
	assert.Equal(t, float32(0.5), level)
	assert.Equal(t, "-10.0 dB", label)
}

func TestProcessNodeFader(t *testing.T) {
	c := NewConsole()

	res := node(c, "/ch/01/mix ON -12.5 OFF +0 OFF -oo\n")
	require.IsType(t, Fader{}, res)
	f := res.(Fader).State
	on, _ := f.On()
	assert.True(t, on)
	level, label := f.Level()
	assert.InDelta(t, 0.4682, level, 0.00005)
	assert.Equal(t, "-12.5 dB", label)
	assert.Equal(t, "[01]  ON -12.5 dB Ch01", f.Display())

	res = node(c, `/ch/02/config "Lead Vox" 1 RD 33`)
	f = res.(Fader).State
	assert.Equal(t, "Lead Vox", f.Name())
	assert.Equal(t, "RD", f.Color().String())

	res = node(c, "/dca/2 OFF -oo")
	f = res.(Fader).State
	assert.Equal(t, FaderIndex{Kind: DCA, Number: 2}, f.Index())
	_, label = f.Level()
	assert.Equal(t, MinusInfinity, label)

	res = node(c, `/main/st/config "PA" 74 WHi OFF`)
	assert.Equal(t, "PA", res.(Fader).State.Name())
	assert.True(t, res.(Fader).State.Color().Inverted())

	assert.Equal(t, NoOperation{}, send(c, "node", osc.Int(1)))
	assert.Equal(t, NoOperation{}, node(c, ""))
	assert.Equal(t, NoOperation{}, node(c, "/ch/40/mix ON -10"))
}

func TestProcessCueUpdate(t *testing.T) {
	c := NewConsole()

	res := send(c, "/-show/showfile/cue/000/numb", osc.Int(123))
	require.IsType(t, CurrentCue{}, res)
	res = send(c, "/-show/showfile/cue/000/name", osc.String("Intro"))
	assert.Equal(t, CurrentCue{Text: "Cue: 1.2.3 :: Intro [--] [--]"}, res)
	assert.Equal(t, "Cue: 1.2.3 :: Intro [--] [--]", c.ActiveCue())

	cue := c.Cue()
	assert.Equal(t, 1, cue.Major)
	assert.Equal(t, 2, cue.Minor)
	assert.Equal(t, 3, cue.Revision)
	assert.Equal(t, -1, cue.Scene)
	assert.Equal(t, -1, cue.Snippet)
}

func TestProcessShowFile(t *testing.T) {
	c := NewConsole()

	node(c, `/-show/showfile/cue/001 1200 "Opening" 0 2 -1 0 1 0 0`)
	node(c, `/-show/showfile/scene/002 "Act One" %000000000 1`)
	node(c, `/-show/showfile/snippet/005 "Lights" 1 1 0 32768 1`)
	send(c, "/-show/showfile/cue/002/numb", osc.Int(1210))
	send(c, "/-show/showfile/cue/002/name", osc.String("Song"))
	send(c, "/-show/showfile/cue/002/bit", osc.Int(5))

	assert.Equal(t, "Cue: 0.0.0 :: -- [--] [--]", c.ActiveCue())

	res := node(c, "/-show/prepos/current 1")
	assert.Equal(t, CurrentCue{Text: "Cue: 12.0.0 :: Opening [02:Act One] [--]"}, res)

	res = send(c, "/-show/prepos/current", osc.Int(2))
	assert.Equal(t, CurrentCue{Text: "Cue: 12.1.0 :: Song [--] [05:Lights]"}, res)
	assert.Equal(t, 2, c.CurrentIndex())

	res = send(c, "/-show/prepos/current", osc.Int(-1))
	assert.Equal(t, CurrentCue{Text: "Cue: 0.0.0 :: -- [--] [--]"}, res)

	res = node(c, "/-prefs/show_control SCENES")
	assert.Equal(t, Scenes, c.ShowMode())
	assert.Equal(t, CurrentCue{Text: "Scene: --"}, res)

	send(c, "/-show/prepos/current", osc.Int(2))
	assert.Equal(t, "Scene: 02:Act One", c.ActiveCue())

	send(c, "/-prefs/show_control", osc.Int(2))
	send(c, "/-show/prepos/current", osc.Int(5))
	assert.Equal(t, "Snippet: 05:Lights", c.ActiveCue())

	send(c, "/-prefs/show_control", osc.Int(0))
	assert.Equal(t, Cues, c.ShowMode())

	cues, scenes, snippets := c.CueListSize()
	assert.Equal(t, 2, cues)
	assert.Equal(t, 1, scenes)
	assert.Equal(t, 1, snippets)

	c.ClearCues()
	cues, scenes, snippets = c.CueListSize()
	assert.Zero(t, cues+scenes+snippets)
}

func TestProcessMetersPassThrough(t *testing.T) {
	c := NewConsole()
	send(c, "/ch/01/mix/fader", osc.Float(0.75))
	send(c, "/-show/showfile/cue/000/name", osc.String("Intro"))
	faders, cue := c.Faders(), c.ActiveCue()

	payload := []byte{0, 0, 128, 63, 0, 0, 0, 63, 7}
	res := send(c, "/meters/1", osc.Blob(payload))
	require.IsType(t, Meters{}, res)
	block := res.(Meters).Block
	assert.Equal(t, 1, block.ID)
	assert.Equal(t, payload, block.Data)
	assert.Equal(t, []float32{1, 0.5}, block.Floats())

	assert.Equal(t, NoOperation{}, send(c, "/meters/1", osc.Int(4)))
	assert.Equal(t, NoOperation{}, send(c, "/meters/1"))

	assert.Equal(t, faders, c.Faders())
	assert.Equal(t, cue, c.ActiveCue())
}

func TestProcessGarbage(t *testing.T) {
	c := NewConsole()
	send(c, "/ch/03/mix/fader", osc.Float(0.6))
	send(c, "/ch/03/config/name", osc.String("Keys"))
	faders, cue := c.Faders(), c.ActiveCue()

	valid := osc.Encode(osc.NewMessage("/ch/03/mix/fader", osc.Float(0.1)))
	for n := 0; n < len(valid); n++ {
		assert.Equal(t, NoOperation{}, c.Process(valid[:n]), "prefix %d", n)
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		b := make([]byte, rng.Intn(64))
		rng.Read(b)
		assert.Equal(t, NoOperation{}, c.Process(b))
	}
	assert.Equal(t, NoOperation{}, send(c, "/fx/1/par/01", osc.Float(0.2)))
	assert.Equal(t, NoOperation{}, c.Process(nil))

	assert.Equal(t, faders, c.Faders())
	assert.Equal(t, cue, c.ActiveCue())
}

func TestReset(t *testing.T) {
	c := NewConsole()
	send(c, "/ch/01/mix/fader", osc.Float(0.75))
	send(c, "/ch/01/config/name", osc.String("Kick"))
	send(c, "/-show/showfile/cue/000/name", osc.String("Intro"))
	send(c, "/-prefs/show_control", osc.Int(1))

	c.Reset()
	assert.Equal(t, NewConsole().Faders(), c.Faders())
	assert.Equal(t, "Cue: 0.0.0 :: -- [--] [--]", c.ActiveCue())
}

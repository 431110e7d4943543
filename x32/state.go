package x32

import "fmt"

// FaderState is the mirrored state of one fader. Values are snapshots;
// the Console keeps its own copy.
type FaderState struct {
	index      FaderIndex
	name       string
	level      float32
	decibel    float64
	levelLabel string
	on         bool
	color      Color
}

func newFaderState(idx FaderIndex) FaderState {
	f := FaderState{index: idx}
	f.setLevel(0)
	return f
}

func (f FaderState) Index() FaderIndex {
	return f.index
}

// Name is the console assigned name or the default label for the fader.
func (f FaderState) Name() string {
	if f.name == "" {
		return f.index.DefaultName()
	}
	return f.name
}

// Level returns the raw fader position and its dB label.
func (f FaderState) Level() (float32, string) {
	return f.level, f.levelLabel
}

func (f FaderState) Decibel() float64 {
	return f.decibel
}

// On returns the on flag and its label, "ON" or "OFF".
func (f FaderState) On() (bool, string) {
	if f.on {
		return true, "ON"
	}
	return false, "OFF"
}

func (f FaderState) Color() Color {
	return f.color
}

// Display renders a fixed width line for monitors, e.g.
// "[01]  ON -12.5 dB Vocals".
func (f FaderState) Display() string {
	_, on := f.On()
	return fmt.Sprintf("[%02d] %3s %8s %s", f.index.Number, on, f.levelLabel, f.Name())
}

func (f *FaderState) setLevel(level float32) {
	f.level = level
	f.decibel, f.levelLabel = ToDecibel(float64(level))
}

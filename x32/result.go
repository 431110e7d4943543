package x32

// Result is what Process reports: NoOperation, Meters, Fader or CurrentCue.
type Result interface {
	isResult()
}

// NoOperation means the input changed nothing. Malformed and unknown
// messages end up here.
type NoOperation struct{}

// Meters carries a meter block straight through; the Console keeps no copy.
type Meters struct {
	Block MeterBlock
}

// Fader is a snapshot of the fader after the update.
type Fader struct {
	State FaderState
}

// CurrentCue is the active cue text after a show update.
type CurrentCue struct {
	Text string
}

func (NoOperation) isResult() {}
func (Meters) isResult()      {}
func (Fader) isResult()       {}
func (CurrentCue) isResult()  {}

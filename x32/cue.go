package x32

import (
	"fmt"
	"strconv"
)

const (
	cueSlots     = 500
	sceneSlots   = 100
	snippetSlots = 100
)

// ShowMode is what the console's show control currently steps through.
type ShowMode uint8

const (
	Cues ShowMode = iota
	Scenes
	Snippets
)

// ShowModeFromInt follows /-prefs/show_control: 1 scenes, 2 snippets,
// anything else cues.
func ShowModeFromInt(v int32) ShowMode {
	switch v {
	case 1:
		return Scenes
	case 2:
		return Snippets
	}
	return Cues
}

// ShowModeFromName parses the node form, "CUES", "SCENES" or "SNIPPETS".
func ShowModeFromName(s string) ShowMode {
	switch s {
	case "SCENES":
		return Scenes
	case "SNIPPETS":
		return Snippets
	}
	if n, err := strconv.Atoi(s); err == nil {
		return ShowModeFromInt(int32(n))
	}
	return Cues
}

func (m ShowMode) String() string {
	switch m {
	case Scenes:
		return "Scenes"
	case Snippets:
		return "Snippets"
	}
	return "Cues"
}

// CueState is one entry of the show's cue list. Scene and Snippet are
// list indices, -1 when the cue has none.
type CueState struct {
	Major    int
	Minor    int
	Revision int
	Name     string
	Scene    int
	Snippet  int
}

func defaultCue() CueState {
	return CueState{Scene: -1, Snippet: -1}
}

// SetNumber splits the console's cue number, 1230 being cue 12.3.0.
func (c *CueState) SetNumber(n int) {
	if n < 0 {
		n = 0
	}
	c.Major = n / 100
	c.Minor = n / 10 % 10
	c.Revision = n % 10
}

func (c CueState) Number() string {
	return fmt.Sprintf("%d.%d.%d", c.Major, c.Minor, c.Revision)
}

// showFile holds the cue, scene and snippet lists of the loaded show.
type showFile struct {
	cues     [cueSlots]*CueState
	scenes   [sceneSlots]*string
	snippets [snippetSlots]*string
	current  int
	mode     ShowMode
}

func (s *showFile) clear() {
	s.cues = [cueSlots]*CueState{}
	s.scenes = [sceneSlots]*string{}
	s.snippets = [snippetSlots]*string{}
}

// cue returns slot i, creating it when empty.
func (s *showFile) cue(i int) *CueState {
	if s.cues[i] == nil {
		c := defaultCue()
		s.cues[i] = &c
	}
	return s.cues[i]
}

func (s *showFile) active() CueState {
	if s.current < 0 || s.current >= cueSlots || s.cues[s.current] == nil {
		return defaultCue()
	}
	return *s.cues[s.current]
}

func (s *showFile) text() string {
	switch s.mode {
	case Scenes:
		return "Scene: " + slotLabel(s.scenes[:], s.current)
	case Snippets:
		return "Snippet: " + slotLabel(s.snippets[:], s.current)
	}
	c := s.active()
	name := c.Name
	if name == "" {
		name = "--"
	}
	return fmt.Sprintf("Cue: %s :: %s [%s] [%s]",
		c.Number(), name, slotLabel(s.scenes[:], c.Scene), slotLabel(s.snippets[:], c.Snippet))
}

func slotLabel(slots []*string, i int) string {
	if i < 0 || i >= len(slots) || slots[i] == nil {
		return "--"
	}
	return fmt.Sprintf("%02d:%s", i, *slots[i])
}

func countSet[T any](slots []*T) int {
	n := 0
	for _, s := range slots {
		if s != nil {
			n++
		}
	}
	return n
}

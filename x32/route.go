package x32

import "strings"

// FaderField is the part of a fader an address refers to.
type FaderField uint8

const (
	FieldLevel FaderField = iota + 1
	FieldOn
	FieldName
	FieldColor
	// FieldMix is the node form carrying on flag and level.
	FieldMix
	// FieldConfig is the node form carrying name and color.
	FieldConfig
)

// CueField is the part of the show an address refers to.
type CueField uint8

const (
	CueCurrent CueField = iota + 1
	CueShowMode
	CueNumber
	CueName
	CueScene
	CueSnippet
	// CueRecord is the node form carrying a whole cue entry.
	CueRecord
	SceneName
	SnippetName
)

// Target is the result of routing an address: FaderTarget, CueTarget,
// MeterTarget or Unrecognized.
type Target interface {
	isTarget()
}

type FaderTarget struct {
	Fader FaderIndex
	Field FaderField
}

// CueTarget addresses the show. Index is the list slot for cue, scene
// and snippet fields and 0 otherwise.
type CueTarget struct {
	Field CueField
	Index int
}

type MeterTarget struct {
	ID int
}

type Unrecognized struct{}

func (FaderTarget) isTarget()  {}
func (CueTarget) isTarget()    {}
func (MeterTarget) isTarget()  {}
func (Unrecognized) isTarget() {}

// Route classifies an OSC address. It accepts both the plain addresses
// the console pushes and the shorter paths used inside node replies.
// Anything it does not know, including out of range indices, is
// Unrecognized.
func Route(address string) Target {
	if !strings.HasPrefix(address, "/") {
		return Unrecognized{}
	}
	parts := strings.Split(address[1:], "/")
	switch parts[0] {
	case "-show":
		return routeShow(parts[1:])
	case "-prefs":
		if len(parts) == 2 && parts[1] == "show_control" {
			return CueTarget{Field: CueShowMode}
		}
	case "meters":
		if len(parts) == 2 {
			if id, ok := parseIndex(parts[1]); ok {
				return MeterTarget{ID: id}
			}
		}
	case "dca":
		if len(parts) >= 2 {
			if idx, ok := parseFaderIndex(parts[0], parts[1]); ok {
				return routeDCA(idx, parts[2:])
			}
		}
	case "ch", "bus", "auxin", "mtx", "main":
		if len(parts) >= 3 {
			if idx, ok := parseFaderIndex(parts[0], parts[1]); ok {
				return routeFader(idx, parts[2:])
			}
		}
	}
	return Unrecognized{}
}

func routeFader(idx FaderIndex, rest []string) Target {
	field := FaderField(0)
	switch strings.Join(rest, "/") {
	case "mix/fader":
		field = FieldLevel
	case "mix/on":
		field = FieldOn
	case "config/name":
		field = FieldName
	case "config/color":
		field = FieldColor
	case "mix":
		field = FieldMix
	case "config":
		field = FieldConfig
	default:
		return Unrecognized{}
	}
	return FaderTarget{Fader: idx, Field: field}
}

func routeDCA(idx FaderIndex, rest []string) Target {
	field := FaderField(0)
	switch strings.Join(rest, "/") {
	case "fader":
		field = FieldLevel
	case "on":
		field = FieldOn
	case "config/name":
		field = FieldName
	case "config/color":
		field = FieldColor
	case "":
		field = FieldMix
	case "config":
		field = FieldConfig
	default:
		return Unrecognized{}
	}
	return FaderTarget{Fader: idx, Field: field}
}

func routeShow(parts []string) Target {
	if len(parts) == 2 && parts[0] == "prepos" && parts[1] == "current" {
		return CueTarget{Field: CueCurrent}
	}
	if len(parts) < 3 || parts[0] != "showfile" {
		return Unrecognized{}
	}
	i, ok := parseIndex(parts[2])
	if !ok {
		return Unrecognized{}
	}
	leaf := ""
	if len(parts) == 4 {
		leaf = parts[3]
	} else if len(parts) > 4 {
		return Unrecognized{}
	}
	switch parts[1] {
	case "cue":
		if i >= cueSlots {
			return Unrecognized{}
		}
		switch leaf {
		case "":
			return CueTarget{Field: CueRecord, Index: i}
		case "numb":
			return CueTarget{Field: CueNumber, Index: i}
		case "name":
			return CueTarget{Field: CueName, Index: i}
		case "scene":
			return CueTarget{Field: CueScene, Index: i}
		case "bit":
			return CueTarget{Field: CueSnippet, Index: i}
		}
	case "scene":
		if i < sceneSlots && (leaf == "" || leaf == "name") {
			return CueTarget{Field: SceneName, Index: i}
		}
	case "snippet":
		if i < snippetSlots && (leaf == "" || leaf == "name") {
			return CueTarget{Field: SnippetName, Index: i}
		}
	}
	return Unrecognized{}
}

// parseIndex accepts decimal digits only, "01" and "1" alike.
func parseIndex(s string) (int, bool) {
	if s == "" || len(s) > 6 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

package x32

import "strconv"

// Color is a scribble strip color. Values 8-15 are the inverted variants.
type Color uint8

var colorNames = [...]string{
	"OFF", "RD", "GN", "YE", "BL", "MG", "CY", "WH",
	"OFFi", "RDi", "GNi", "YEi", "BLi", "MGi", "CYi", "WHi",
}

// ColorFromInt maps the console's color number, anything unknown is OFF.
func ColorFromInt(v int32) Color {
	if v < 0 || int(v) >= len(colorNames) {
		return 0
	}
	return Color(v)
}

// ParseColor accepts a color token ("RD", "GNi") or its number.
func ParseColor(s string) (Color, bool) {
	for i, name := range colorNames {
		if name == s {
			return Color(i), true
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < len(colorNames) {
		return Color(n), true
	}
	return 0, false
}

func (c Color) Inverted() bool {
	return c >= 8
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "OFF"
}

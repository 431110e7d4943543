package x32

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/interp"
)

// MinusInfinity is the label of a fader at the bottom of its travel.
const MinusInfinity = "-∞ dB"

var positionToDb interp.PiecewiseLinear
var dbToPosition interp.PiecewiseLinear

func init() {
	initCurve()
}

// prepares the interpolation between fader position and dB
func initCurve() {
	// the console's fader law: -oo, -60, -30, -10, +10 dB
	positions := []float64{0, 0.0625, 0.25, 0.5, 1}
	decibels := []float64{-90, -60, -30, -10, 10}
	if err := positionToDb.Fit(positions, decibels); err != nil {
		panic(err)
	}
	if err := dbToPosition.Fit(decibels, positions); err != nil {
		panic(err)
	}
}

// ToDecibel converts a fader position to dB and its display label.
// Positions outside [0,1] are clamped.
func ToDecibel(position float64) (float64, string) {
	db := positionToDb.Predict(clampPosition(position))
	return db, DecibelLabel(db)
}

// DecibelLabel formats db the way the console's scribble strip does.
func DecibelLabel(db float64) string {
	switch {
	case db >= -0.05 && db <= 0.05:
		return "+0.0 dB"
	case db <= -89.9:
		return MinusInfinity
	case db < 0:
		return fmt.Sprintf("%.1f dB", db)
	default:
		return fmt.Sprintf("+%.1f dB", db)
	}
}

// LevelFromText parses a level like "-12.5", "+3.0 dB" or "-oo" as the
// console prints it in node replies and returns the fader position,
// snapped to the console's 1024 fader steps.
func LevelFromText(text string) float32 {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "-oo") || strings.HasPrefix(text, "-∞") {
		return 0
	}
	end := strings.IndexFunc(text, func(r rune) bool {
		return !strings.ContainsRune("+-0123456789.", r)
	})
	if end >= 0 {
		text = text[:end]
	}
	db, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	p := dbToPosition.Predict(db)
	p = math.Trunc(p*1023.5) / 1023
	return float32(math.Round(p*10000) / 10000)
}

func clampPosition(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

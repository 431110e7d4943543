package publish

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/normen/x32-osc/msg"
)

type faderPayload struct {
	Name    string  `json:"name"`
	Level   float32 `json:"level"`
	Label   string  `json:"label"`
	Decibel float64 `json:"db"`
	On      bool    `json:"on"`
	Color   string  `json:"color"`
	Display string  `json:"display"`
}

type meterPayload struct {
	Values []float32 `json:"values"`
	Data   []byte    `json:"data"`
}

// Encode maps a message from the console link to its topic and payload.
// ok is false for messages that are not published.
func Encode(prefix string, message interface{}) (topic string, payload []byte, ok bool) {
	switch m := message.(type) {
	case msg.FaderMessage:
		data, err := json.Marshal(faderPayload{
			Name:    m.Name,
			Level:   m.Level,
			Label:   m.LevelText,
			Decibel: m.Decibel,
			On:      m.On,
			Color:   m.Color,
			Display: m.Display,
		})
		if err != nil {
			log.Warn().Err(err).Str("fader", m.Display).Msg("Fader not published")
			return "", nil, false
		}
		return fmt.Sprintf("%s/fader/%s/%d", prefix, m.Kind, m.Number), data, true
	case msg.CueMessage:
		return prefix + "/cue", []byte(m.Text), true
	case msg.MeterMessage:
		data, err := json.Marshal(meterPayload{Values: m.Values, Data: m.Data})
		if err != nil {
			log.Warn().Err(err).Int("meters", m.ID).Msg("Meters not published")
			return "", nil, false
		}
		return fmt.Sprintf("%s/meters/%d", prefix, m.ID), data, true
	case msg.ConnectionMessage:
		return StatusTopic(prefix), []byte(status(m.Connected)), true
	}
	return "", nil, false
}

// StatusTopic carries "online" or "offline" for the console link.
func StatusTopic(prefix string) string {
	return prefix + "/status"
}

func status(connected bool) string {
	if connected {
		return "online"
	}
	return "offline"
}

package publish

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/normen/x32-osc/msg"
)

// Sink receives changed topics.
type Sink interface {
	Send(topic string, payload []byte) error
}

// Dispatcher drains the console link's messages into the sinks.
type Dispatcher struct {
	prefix string
	meters bool
	cache  *StateCache
	in     <-chan interface{}
	sinks  []Sink
}

func NewDispatcher(prefix string, meters bool, cache *StateCache, in <-chan interface{}, sinks ...Sink) *Dispatcher {
	return &Dispatcher{prefix: prefix, meters: meters, cache: cache, in: in, sinks: sinks}
}

// Run is the runloop of the dispatcher, it returns when ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Ending publish runloop")
			return nil
		case message := <-d.in:
			d.process(message)
		}
	}
}

func (d *Dispatcher) process(message interface{}) {
	topic, payload, ok := Encode(d.prefix, message)
	if !ok {
		return
	}
	if _, isMeter := message.(msg.MeterMessage); isMeter {
		if !d.meters {
			return
		}
	} else if !d.cache.Set(topic, payload) {
		return
	}
	for _, sink := range d.sinks {
		if err := sink.Send(topic, payload); err != nil {
			log.Warn().Err(err).Str("topic", topic).Msg("Publish failed")
		}
	}
}

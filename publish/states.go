package publish

import (
	"bytes"
	"sort"
	"sync"
)

// Entry is one retained topic value.
type Entry struct {
	Topic   string
	Payload []byte
}

// StateCache remembers the last payload per topic so that only changes
// are sent and late subscribers can be given the current state.
type StateCache struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewStateCache() *StateCache {
	return &StateCache{states: make(map[string][]byte)}
}

// Set stores payload and reports whether it differs from the stored one.
func (s *StateCache) Set(topic string, payload []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.states[topic]; ok && bytes.Equal(old, payload) {
		return false
	}
	s.states[topic] = append([]byte(nil), payload...)
	return true
}

func (s *StateCache) Get(topic string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.states[topic]
	return p, ok
}

func (s *StateCache) Delete(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, topic)
}

// Snapshot returns all entries sorted by topic.
func (s *StateCache) Snapshot() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.states))
	for topic, payload := range s.states {
		out = append(out, Entry{Topic: topic, Payload: payload})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out
}

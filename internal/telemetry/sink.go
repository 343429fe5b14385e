package telemetry

import (
	"sync"
	"time"

	"github.com/wgamage/snakeid-go/internal/errors"
)

// Diagnostic is a snapshot of a recorded failure.
type Diagnostic struct {
	Component string
	Category  string
	Message   string
	Context   map[string]any
	Timestamp time.Time
}

// Sink records the most recent failure per component so operators can
// inspect what went wrong last without trawling logs. It replaces the
// process-global scratch state of earlier designs; services receive the
// sink as an explicit dependency.
type Sink struct {
	mu   sync.RWMutex
	last map[string]Diagnostic
}

// NewSink returns an empty diagnostics sink.
func NewSink() *Sink {
	return &Sink{last: make(map[string]Diagnostic)}
}

// Record stores the error as the latest diagnostic for its component.
func (s *Sink) Record(ee *errors.EnhancedError) {
	if s == nil || ee == nil {
		return
	}
	d := Diagnostic{
		Component: ee.GetComponent(),
		Category:  ee.GetCategory(),
		Message:   ee.Error(),
		Context:   ee.GetContext(),
		Timestamp: ee.Timestamp,
	}
	s.mu.Lock()
	s.last[d.Component] = d
	s.mu.Unlock()
}

// Last returns the most recent diagnostic for the component, if any.
func (s *Sink) Last(component string) (Diagnostic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.last[component]
	return d, ok
}

// All returns a copy of every recorded diagnostic keyed by component.
func (s *Sink) All() map[string]Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Diagnostic, len(s.last))
	for k, v := range s.last {
		out[k] = v
	}
	return out
}

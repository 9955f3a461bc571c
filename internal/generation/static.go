package generation

import (
	"context"
	"sync"
)

// ScriptedGenerator returns pre-seeded responses in order, for offline mode
// and tests. Once the script is exhausted it keeps returning the last entry.
type ScriptedGenerator struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
}

func NewScriptedGenerator(responses ...string) *ScriptedGenerator {
	return &ScriptedGenerator{responses: responses}
}

// NewFailingGenerator returns a generator whose every call fails with err.
func NewFailingGenerator(err error) *ScriptedGenerator {
	return &ScriptedGenerator{errs: []error{err}}
}

func (s *ScriptedGenerator) Name() string { return "scripted" }

func (s *ScriptedGenerator) Close() error { return nil }

// Calls reports how many times GeneratePlan has been invoked.
func (s *ScriptedGenerator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *ScriptedGenerator) GeneratePlan(_ context.Context, _, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if len(s.errs) > 0 {
		if i >= len(s.errs) {
			i = len(s.errs) - 1
		}
		return "", s.errs[i]
	}
	if len(s.responses) == 0 {
		return "", ErrEmptyResponse
	}
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i], nil
}

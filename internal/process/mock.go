package process

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
)

// Call records one Run invocation
type Call struct {
	Dir  string
	Name string
	Args []string
}

// MockRunner implements Runner for testing
type MockRunner struct {
	mu      sync.Mutex
	calls   []Call
	results map[string]*Result // key: executable name or path
	paths   map[string]string  // key: name looked up on PATH

	// Handler, when set, decides the result of every Run call
	Handler func(call Call) (*Result, error)

	// Hooks for testing error scenarios
	RunError error
}

// NewMockRunner creates a new MockRunner
func NewMockRunner() *MockRunner {
	return &MockRunner{
		results: make(map[string]*Result),
		paths:   make(map[string]string),
	}
}

// SetResult registers the result returned when name is run
func (m *MockRunner) SetResult(name string, result *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[name] = result
}

// SetPath makes LookPath(name) resolve to path
func (m *MockRunner) SetPath(name, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths[name] = path
}

func (m *MockRunner) Run(ctx context.Context, dir, name string, args ...string) (*Result, error) {
	m.mu.Lock()
	call := Call{Dir: dir, Name: name, Args: append([]string(nil), args...)}
	m.calls = append(m.calls, call)
	handler := m.Handler
	result, ok := m.results[name]
	runErr := m.RunError
	m.mu.Unlock()

	if runErr != nil {
		return nil, runErr
	}
	if handler != nil {
		res, err := handler(call)
		return withCombined(res), err
	}
	if !ok {
		return nil, fmt.Errorf("exec: %q: %w", name, exec.ErrNotFound)
	}
	copied := *result
	return withCombined(&copied), nil
}

// withCombined fills Combined as stdout followed by stderr when a canned
// result leaves it empty.
func withCombined(r *Result) *Result {
	if r != nil && r.Combined == "" {
		r.Combined = r.Stdout + r.Stderr
	}
	return r
}

func (m *MockRunner) LookPath(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.paths[name]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// Calls returns every recorded Run invocation
func (m *MockRunner) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

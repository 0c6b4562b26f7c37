// Package mocks provides a recording execx.Runner for tests.
package mocks

import (
	"context"

	"github.com/webxr-tools/xrdeploy/internal/execx"
)

// Call records a single invocation seen by the mock.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// Response scripts the outcome of one invocation, in order.
type Response struct {
	Result execx.Result
	Err    error
}

// MockRunner is a scripted execx.Runner that records every invocation so
// tests can assert on the exact argument vectors constructed by callers.
//
// Responses are consumed in order; once exhausted, further calls succeed
// with a zero exit status.
type MockRunner struct {
	Calls     []Call
	Responses []Response
}

func (m *MockRunner) Run(_ context.Context, dir string, name string, args ...string) (execx.Result, error) {
	m.Calls = append(m.Calls, Call{Dir: dir, Name: name, Args: args})
	if len(m.Responses) == 0 {
		return execx.Result{}, nil
	}
	r := m.Responses[0]
	m.Responses = m.Responses[1:]
	return r.Result, r.Err
}

// Package buildtooltest provides a buildtool.Tool that records calls.
package buildtooltest

import (
	"context"
	"sync"

	"github.com/platinummonkey/xviz-recipe/pkg/buildtool"
)

// Call is one recorded step
type Call struct {
	Step    string
	Project buildtool.Project
	Verbose bool
}

// Recorder records every step and fails the steps listed in Fail
type Recorder struct {
	mu     sync.Mutex
	calls  []Call
	closed bool

	// Fail maps a step name to the error it returns
	Fail map[string]error
}

var _ buildtool.Tool = (*Recorder)(nil)

// NewRecorder creates a recorder where every step succeeds
func NewRecorder() *Recorder {
	return &Recorder{Fail: make(map[string]error)}
}

func (r *Recorder) record(step string, p *buildtool.Project, verbose bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Step: step, Project: *p, Verbose: verbose})
	return r.Fail[step]
}

// Configure records the configure step
func (r *Recorder) Configure(_ context.Context, p *buildtool.Project) error {
	return r.record(buildtool.StepConfigure, p, false)
}

// Build records the build step
func (r *Recorder) Build(_ context.Context, p *buildtool.Project) error {
	return r.record(buildtool.StepBuild, p, false)
}

// Test records the test step
func (r *Recorder) Test(_ context.Context, p *buildtool.Project, verbose bool) error {
	return r.record(buildtool.StepTest, p, verbose)
}

// Install records the install step
func (r *Recorder) Install(_ context.Context, p *buildtool.Project) error {
	return r.record(buildtool.StepInstall, p, false)
}

// Close marks the recorder closed
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Calls returns a copy of the recorded calls
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Steps returns the recorded step names in order
func (r *Recorder) Steps() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	steps := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		steps = append(steps, c.Step)
	}
	return steps
}

// Closed reports whether Close was called
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

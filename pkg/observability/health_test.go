package observability

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthChecker_Check(t *testing.T) {
	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("not found") }

	tests := []struct {
		name     string
		checks   []Check
		expected string
	}{
		{
			name:     "no checks",
			expected: StatusHealthy,
		},
		{
			name:     "all healthy",
			checks:   []Check{{Name: "cmake", Required: true, Run: ok}, {Name: "git", Run: ok}},
			expected: StatusHealthy,
		},
		{
			name:     "optional failure degrades",
			checks:   []Check{{Name: "cmake", Required: true, Run: ok}, {Name: "git", Run: fail}},
			expected: StatusDegraded,
		},
		{
			name:     "required failure is unhealthy",
			checks:   []Check{{Name: "cmake", Required: true, Run: fail}, {Name: "git", Run: fail}},
			expected: StatusUnhealthy,
		},
		{
			name:     "degraded does not mask unhealthy",
			checks:   []Check{{Name: "cmake", Required: true, Run: fail}, {Name: "bucket", Run: fail}, {Name: "git", Run: ok}},
			expected: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := NewHealthChecker(tt.checks...).Check(context.Background())
			assert.Equal(t, tt.expected, status.Status)
			assert.Len(t, status.Dependencies, len(tt.checks))
		})
	}
}

func TestHealthChecker_DependencyDetails(t *testing.T) {
	status := NewHealthChecker(
		Check{Name: "git", Run: func(context.Context) error { return errors.New("executable file not found") }},
		Check{Name: "cmake", Required: true, Run: func(context.Context) error { return nil }},
	).Check(context.Background())

	assert.Equal(t, []string{"cmake", "git"}, status.Names())

	git := status.Dependencies["git"]
	assert.Equal(t, StatusDegraded, git.Status)
	assert.False(t, git.Required)
	assert.Equal(t, "executable file not found", git.Message)

	cmake := status.Dependencies["cmake"]
	assert.Equal(t, StatusHealthy, cmake.Status)
	assert.True(t, cmake.Required)
	assert.Empty(t, cmake.Message)
}

func TestHealthChecker_Parallel(t *testing.T) {
	var running, peak atomic.Int32
	slow := func(context.Context) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		running.Add(-1)
		return nil
	}

	checks := make([]Check, 6)
	for i := range checks {
		checks[i] = Check{Name: string(rune('a' + i)), Run: slow}
	}
	h := NewHealthChecker(checks...)
	h.MaxParallel = 2

	status := h.Check(context.Background())
	assert.Equal(t, StatusHealthy, status.Status)
	assert.Len(t, status.Dependencies, 6)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

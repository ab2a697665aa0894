package failure_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rohmanhakim/astar-state/pkg/failure"
	"github.com/stretchr/testify/assert"
)

type classified struct {
	severity failure.Severity
}

func (c *classified) Error() string {
	return "classified"
}

func (c *classified) Severity() failure.Severity {
	return c.severity
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "fatal", failure.SeverityFatal.String())
	assert.Equal(t, "recoverable", failure.SeverityRecoverable.String())
	assert.Equal(t, "unknown", failure.Severity(42).String())
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "plain error", err: errors.New("boom"), expected: true},
		{name: "fatal classified", err: &classified{severity: failure.SeverityFatal}, expected: true},
		{name: "recoverable classified", err: &classified{severity: failure.SeverityRecoverable}, expected: false},
		{
			name:     "wrapped recoverable",
			err:      fmt.Errorf("outer: %w", &classified{severity: failure.SeverityRecoverable}),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, failure.IsFatal(tt.err))
		})
	}
}

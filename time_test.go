package registration_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-registration"
	"github.com/stretchr/testify/assert"
)

func TestActivationDeadline(t *testing.T) {
	joined := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	window := 3 * 24 * time.Hour

	deadline := registration.ActivationDeadline(joined, window)
	assert.Equal(t, time.Date(2026, 1, 13, 12, 0, 0, 0, time.UTC), deadline)
}

func TestOutsideActivationWindow(t *testing.T) {
	joined := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	window := 3 * 24 * time.Hour
	deadline := joined.Add(window)

	tests := []struct {
		name     string
		now      time.Time
		expected bool
	}{
		{
			name:     "right after joining",
			now:      joined.Add(time.Minute),
			expected: false,
		},
		{
			name:     "one second before the deadline",
			now:      deadline.Add(-time.Second),
			expected: false,
		},
		{
			name:     "exactly at the deadline",
			now:      deadline,
			expected: true,
		},
		{
			name:     "past the deadline",
			now:      deadline.Add(time.Hour),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, registration.OutsideActivationWindow(joined, window, tt.now))
		})
	}
}

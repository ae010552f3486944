package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"seconds", 30 * time.Second, "just now"},
		{"one minute", 90 * time.Second, "1 minute ago"},
		{"minutes", 45 * time.Minute, "45 minutes ago"},
		{"one hour", 70 * time.Minute, "1 hour ago"},
		{"hours", 5 * time.Hour, "5 hours ago"},
		{"one day", 30 * time.Hour, "1 day ago"},
		{"days", 3 * day, "3 days ago"},
		{"one week", 10 * day, "1 week ago"},
		{"weeks", 3 * week, "3 weeks ago"},
		{"one month", 40 * day, "1 month ago"},
		{"months", 100 * day, "3 months ago"},
		{"one year", 400 * day, "1 year ago"},
		{"years", 3 * year, "3 years ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(now.Add(-tt.ago), now))
		})
	}
}

func TestRelativeTime_ZeroTime(t *testing.T) {
	assert.Equal(t, "-", RelativeTime(time.Time{}, time.Now()))
}

package telemetry_test

import (
	"testing"

	"codeberg.org/mutker/hostctl/internal/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		name string
		secs int64
		want string
	}{
		{"zero", 0, "--"},
		{"negative", -1, "--"},
		{"unlimited sentinel", 0xFFFFFFFF, "--"},
		{"above sentinel", 0xFFFFFFFF + 10, "--"},
		{"under a minute", 30, "0m"},
		{"minutes only", 150, "2m"},
		{"fifteen minutes", 900, "15m"},
		{"exactly one hour", 3600, "1h 00m"},
		{"hour and a half", 5400, "1h 30m"},
		{"padded minutes", 7500, "2h 05m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, telemetry.FormatRemaining(tt.secs))
		})
	}
}

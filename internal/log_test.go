package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"ERROR":  LogLevelError,
		"warn":   LogLevelWarn,
		" INFO ": LogLevelInfo,
		"DEBUG":  LogLevelDebug,
		"TRACE":  LogLevelTrace,
		"":       LogLevelInfo,
		"chatty": LogLevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLogLevel(in), "input %q", in)
	}
}

func TestNamedKeepsLevel(t *testing.T) {
	l := NewLogger(LogLevelDebug).Named("Workbook")
	assert.Equal(t, LogLevelDebug, l.GetLevel())
	l.Debug("built %d cells", 3)
	NewNopLogger().Error("dropped %s", "silently")
}

package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLogLevelFiltering verifies that messages are filtered based on the default level
func TestLogLevelFiltering(t *testing.T) {
	tests := []struct {
		name         string
		logLevel     string
		messageLevel string
		shouldAppear bool
	}{
		{name: "trace sees trace", logLevel: "trace", messageLevel: "trace", shouldAppear: true},
		{name: "trace sees error", logLevel: "trace", messageLevel: "error", shouldAppear: true},
		{name: "debug blocks trace", logLevel: "debug", messageLevel: "trace", shouldAppear: false},
		{name: "debug sees debug", logLevel: "debug", messageLevel: "debug", shouldAppear: true},
		{name: "info blocks debug", logLevel: "info", messageLevel: "debug", shouldAppear: false},
		{name: "info sees warn", logLevel: "info", messageLevel: "warn", shouldAppear: true},
		{name: "warn blocks info", logLevel: "warn", messageLevel: "info", shouldAppear: false},
		{name: "error blocks warn", logLevel: "error", messageLevel: "warn", shouldAppear: false},
		{name: "error sees error", logLevel: "error", messageLevel: "error", shouldAppear: true},
		{name: "off blocks error", logLevel: "off", messageLevel: "error", shouldAppear: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := ParseFilter(tt.logLevel, false)
			require.NoError(t, err)

			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, filter)
			logger.Log("session", tt.messageLevel, "hello")

			assert.Equal(t, tt.shouldAppear, strings.Contains(buf.String(), "hello"),
				"output was %q", buf.String())
		})
	}
}

func TestParseFilterComponentDirectives(t *testing.T) {
	filter, err := ParseFilter("info, playback=trace ,process=off", false)
	require.NoError(t, err)

	assert.True(t, filter.Enabled("playback", "trace"))
	assert.False(t, filter.Enabled("process", "error"))
	assert.True(t, filter.Enabled("session", "info"))
	assert.False(t, filter.Enabled("session", "debug"))
	assert.Equal(t, "info,playback=trace,process=off", filter.String())
}

func TestParseFilterDefaults(t *testing.T) {
	filter, err := ParseFilter("", false)
	require.NoError(t, err)
	assert.True(t, filter.Enabled("session", "warn"))
	assert.False(t, filter.Enabled("session", "info"))
}

func TestParseFilterDebugFlag(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"", "debug"},
		{"error", "debug"},
		{"trace", "trace"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			filter, err := ParseFilter(tt.spec, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, filter.defaultLevel)
		})
	}
}

func TestParseFilterRejectsBadDirectives(t *testing.T) {
	for _, spec := range []string{"loud", "=debug", "playback=verbose"} {
		t.Run(spec, func(t *testing.T) {
			_, err := ParseFilter(spec, false)
			assert.Error(t, err)
		})
	}
}

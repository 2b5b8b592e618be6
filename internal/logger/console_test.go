package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		logLevel string
		debug    bool
		info     bool
		warn     bool
	}{
		{logLevel: "trace", debug: true, info: true, warn: true},
		{logLevel: "debug", debug: true, info: true, warn: true},
		{logLevel: "info", debug: false, info: true, warn: true},
		{logLevel: "warn", debug: false, info: false, warn: true},
		{logLevel: "error", debug: false, info: false, warn: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.logLevel, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := NewConsoleLogger(&buf, tc.logLevel)

			log.Debugf("debug message")
			log.Infof("info message")
			log.Warnf("warn message")

			output := buf.String()
			assert.Equal(t, tc.debug, strings.Contains(output, "debug message"))
			assert.Equal(t, tc.info, strings.Contains(output, "info message"))
			assert.Equal(t, tc.warn, strings.Contains(output, "warn message"))
		})
	}
}

func TestLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, "shouting")

	log.Debugf("hidden")
	log.Infof("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoggerFormatsArguments(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, "info")

	log.Errorf("failed on %s after %d tries", "path", 3)

	assert.Contains(t, buf.String(), "failed on path after 3 tries")
}

func TestLoggerNilIsSilent(t *testing.T) {
	t.Parallel()

	var log *ConsoleLogger
	assert.NotPanics(t, func() {
		log.Infof("nothing happens")
		log.Errorf("still nothing")
	})
}

func TestLoggerNoColorOnBuffer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, "info")

	log.Warnf("plain")

	assert.NotContains(t, buf.String(), "\x1b[", "a buffer is not a terminal")
}

func TestLoggerConcurrentUse(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewConsoleLogger(&buf, "info")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Infof("concurrent line")
		}()
	}
	wg.Wait()

	lines := strings.Count(buf.String(), "\n")
	assert.Equal(t, 16, lines)
}

package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("wired") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("hop") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("hop") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.done("Wired 2 textures")
	if !strings.Contains(buf.String(), "Wired 2 textures (") {
		t.Errorf("done() = %q", buf.String())
	}
}

func TestProgressSteps(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	for range 3 {
		p.step()
	}
	p.done("Collected 3 textures")
	if !strings.Contains(buf.String(), "3 items") {
		t.Errorf("done() = %q, want item count", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext should return the attached logger")
	}

	// Without a logger nothing is written anywhere.
	d := loggerFromContext(context.Background())
	if d == nil {
		t.Fatal("loggerFromContext returned nil")
	}
	d.Error("dropped")
}

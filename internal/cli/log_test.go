package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphma/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("probed header") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("pipeline started") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("pipeline started") }, true},
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
	newProgress(newLogger(&buf, log.InfoLevel)).donef("Ingested %d edges", 3)

	out := buf.String()
	if !strings.Contains(out, "Ingested 3 edges") || !strings.Contains(out, "elapsed=") {
		t.Errorf("progress output %q lacks message and duration", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Fatal("loggerFromContext() without a logger returned nil")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if got := loggerFromContext(ctx); got != custom {
		t.Error("loggerFromContext() did not return the attached logger")
	}
}

func TestInstallHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	installHooks(newLogger(&buf, log.InfoLevel))
	observability.Cache().OnCacheHit(context.Background(), "header")
	if buf.Len() != 0 {
		t.Errorf("hooks installed at info level: %q", buf.String())
	}

	installHooks(newLogger(&buf, log.DebugLevel))
	observability.Cache().OnCacheHit(context.Background(), "header")
	observability.Traversal().OnOpen("mtx", "g.mtx", "[0, 4)")
	out := buf.String()
	for _, want := range []string{"cache hit", "type=header", "path=g.mtx"} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output %q lacks %q", out, want)
		}
	}
}

package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphma/pkg/observability"
)

// debugHooks logs library events. It is registered only at debug level.
type debugHooks struct {
	logger *log.Logger
}

func (h debugHooks) OnOpen(format, path, window string) {
	h.logger.Debug("open", "format", format, "path", path, "window", window)
}

func (h debugHooks) OnClose(format, path string, records uint64, err error) {
	h.logger.Debug("close", "format", format, "path", path, "records", records, "err", err)
}

func (h debugHooks) OnRunStart(context.Context, string) {}

func (h debugHooks) OnRunComplete(_ context.Context, runID string, values int64, d time.Duration, err error) {
	h.logger.Debug("run complete", "run", runID, "values", values, "duration", d, "err", err)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// installHooks routes library events to the logger when it logs at debug
// level.
func installHooks(logger *log.Logger) {
	if logger.GetLevel() > log.DebugLevel {
		return
	}
	h := debugHooks{logger: logger.WithPrefix("hooks")}
	observability.SetTraversalHooks(h)
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

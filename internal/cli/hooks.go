package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/crateops/operator/pkg/observability"
)

// logReleaseHooks forwards release engine events to the CLI logger so
// long publish runs show progress without the engine depending on a
// logging library.
type logReleaseHooks struct {
	observability.NoopReleaseHooks
	logger *log.Logger
}

func (h *logReleaseHooks) OnDetectStart(_ context.Context, commit string) {
	h.logger.Debug("Resolving pull request", "commit", commit)
}

func (h *logReleaseHooks) OnDetectComplete(_ context.Context, commit string, detected bool, tag string, err error) {
	if err != nil {
		return
	}
	if detected {
		h.logger.Info("Release detected", "commit", commit, "tag", tag)
	} else {
		h.logger.Info("No release detected", "commit", commit)
	}
}

func (h *logReleaseHooks) OnPlanComplete(_ context.Context, crateCount int, reordered bool, err error) {
	if err != nil {
		return
	}
	if reordered {
		h.logger.Warn("Corrected crate order to satisfy dependency constraints")
	}
	h.logger.Debug("Publish plan ready", "crates", crateCount)
}

func (h *logReleaseHooks) OnPublishStart(_ context.Context, name, version string) {
	h.logger.Info("Publishing", "crate", name, "version", version)
}

func (h *logReleaseHooks) OnPublishComplete(_ context.Context, name, version string, attempts int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Error("Publish failed", "crate", name, "version", version, "attempts", attempts, "err", err)
		return
	}
	h.logger.Debug("Crate done", "crate", name, "version", version, "attempts", attempts,
		"duration", duration.Round(time.Millisecond))
}

func (h *logReleaseHooks) OnVisibilityWait(_ context.Context, name, version string, polls int, duration time.Duration) {
	h.logger.Debug("Visible in registry index", "crate", name, "version", version,
		"polls", polls, "waited", duration.Round(time.Millisecond))
}

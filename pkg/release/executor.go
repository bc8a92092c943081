package release

import (
	"context"
	"errors"
	"time"

	operrors "github.com/crateops/operator/pkg/errors"
	"github.com/crateops/operator/pkg/httputil"
	"github.com/crateops/operator/pkg/integrations"
	"github.com/crateops/operator/pkg/integrations/crates"
	"github.com/crateops/operator/pkg/manifest"
	"github.com/crateops/operator/pkg/observability"
)

// Registry abstracts the package registry for the executor.
// *crates.Client satisfies it.
type Registry interface {
	IsVisible(ctx context.Context, name, version string) (bool, error)
	Publish(ctx context.Context, pkg *manifest.Package, token string) error
}

// Executor walks a publish plan sequentially against the registry.
//
// Sequential execution is a correctness requirement, not a performance
// shortcut: a crate later in the plan may depend on an earlier one, and
// the registry only resolves that dependency once the earlier version
// has propagated to the index. Publishing in parallel would reintroduce
// exactly the race the visibility wait exists to close.
type Executor struct {
	registry          Registry
	maxAttempts       int
	retryDelay        time.Duration
	pollInterval      time.Duration
	visibilityTimeout time.Duration
	dryRun            bool
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithMaxAttempts bounds publish attempts per crate.
func WithMaxAttempts(n int) ExecutorOption {
	return func(e *Executor) { e.maxAttempts = n }
}

// WithRetryDelay sets the initial backoff delay between publish attempts.
// The delay doubles after each failure.
func WithRetryDelay(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.retryDelay = d }
}

// WithPollInterval sets the initial delay between visibility polls.
func WithPollInterval(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.pollInterval = d }
}

// WithVisibilityTimeout bounds how long the executor waits for a
// published version to appear in the registry index.
func WithVisibilityTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.visibilityTimeout = d }
}

// WithDryRun makes the executor record what it would do without
// uploading anything.
func WithDryRun(dryRun bool) ExecutorOption {
	return func(e *Executor) { e.dryRun = dryRun }
}

// NewExecutor creates an Executor with production defaults.
func NewExecutor(registry Registry, opts ...ExecutorOption) *Executor {
	e := &Executor{
		registry:          registry,
		maxAttempts:       3,
		retryDelay:        time.Second,
		pollInterval:      2 * time.Second,
		visibilityTimeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute publishes every crate in plan order. Per crate: skip if the
// version is already visible, otherwise publish with bounded backoff,
// then wait for the version to propagate to the index before moving on.
//
// The first crate that fails aborts the remainder of the plan. Crates
// after the failure point get no attempt entry at all: their
// dependency may be unpublished, and attempting them would produce
// confusing downstream resolution errors. The partial report is
// returned alongside the error so callers can see exactly where the
// run stalled.
//
// Re-running an identical plan after a partial failure is safe. Crates
// that made it into the index are skipped, and the run resumes at the
// first missing one.
func (e *Executor) Execute(ctx context.Context, plan *Plan, token string) (*Report, error) {
	report := NewReport()
	report.DryRun = e.dryRun

	for _, pkg := range plan.Packages {
		attempt, err := e.publishOne(ctx, pkg, token)
		report.record(attempt)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

func (e *Executor) publishOne(ctx context.Context, pkg *manifest.Package, token string) (Attempt, error) {
	observability.Release().OnPublishStart(ctx, pkg.Name, pkg.Version)
	start := time.Now()

	attempt, err := e.tryPublish(ctx, pkg, token)
	attempt.Crate = pkg.Name
	attempt.Version = pkg.Version
	attempt.Duration = time.Since(start)

	observability.Release().OnPublishComplete(ctx, pkg.Name, pkg.Version, attempt.Attempts, attempt.Duration, err)
	return attempt, err
}

func (e *Executor) tryPublish(ctx context.Context, pkg *manifest.Package, token string) (Attempt, error) {
	visible, err := e.checkVisible(ctx, pkg)
	if err != nil {
		return Attempt{Outcome: OutcomeFailed, Detail: err.Error()}, err
	}
	if visible {
		return Attempt{Outcome: OutcomeSkipped, Detail: "already in registry index"}, nil
	}

	if e.dryRun {
		return Attempt{Outcome: OutcomePublished, Detail: "dry run, nothing uploaded"}, nil
	}

	attempts := 0
	err = httputil.Retry(ctx, e.maxAttempts, e.retryDelay, func() error {
		attempts++
		pubErr := e.registry.Publish(ctx, pkg, token)
		if errors.Is(pubErr, crates.ErrAlreadyPublished) {
			// A previous run's upload landed but had not propagated
			// when we checked. Move on to the visibility wait.
			return nil
		}
		return pubErr
	})
	if err != nil {
		return Attempt{Outcome: OutcomeFailed, Attempts: attempts, Detail: err.Error()},
			classifyPublishError(pkg.Name, err)
	}

	if err := e.awaitVisibility(ctx, pkg); err != nil {
		return Attempt{Outcome: OutcomeFailed, Attempts: attempts, Detail: err.Error()}, err
	}

	return Attempt{Outcome: OutcomePublished, Attempts: attempts}, nil
}

// checkVisible is the idempotency gate. A transient registry error here
// gets the same retry budget as a publish.
func (e *Executor) checkVisible(ctx context.Context, pkg *manifest.Package) (bool, error) {
	var visible bool
	err := httputil.Retry(ctx, e.maxAttempts, e.retryDelay, func() error {
		var checkErr error
		visible, checkErr = e.registry.IsVisible(ctx, pkg.Name, pkg.Version)
		return checkErr
	})
	if err != nil {
		return false, classifyPublishError(pkg.Name, err)
	}
	return visible, nil
}

// awaitVisibility polls until pkg resolves in the registry index. The
// poll interval doubles while the total wait stays under the
// configured timeout.
func (e *Executor) awaitVisibility(ctx context.Context, pkg *manifest.Package) error {
	start := time.Now()
	deadline := start.Add(e.visibilityTimeout)
	delay := e.pollInterval
	polls := 0

	for {
		polls++
		visible, err := e.registry.IsVisible(ctx, pkg.Name, pkg.Version)
		if err != nil && !httputil.IsRetryable(err) {
			return classifyPublishError(pkg.Name, err)
		}
		if visible {
			observability.Release().OnVisibilityWait(ctx, pkg.Name, pkg.Version, polls, time.Since(start))
			return nil
		}

		if !time.Now().Add(delay).Before(deadline) {
			return operrors.New(operrors.ErrCodeTimeout,
				"crate %s@%s not visible in registry index after %s",
				pkg.Name, pkg.Version, e.visibilityTimeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func classifyPublishError(name string, err error) error {
	switch {
	case errors.Is(err, integrations.ErrUnauthorized):
		return operrors.Wrap(operrors.ErrCodeUnauthorized, err, "registry rejected credential for crate %s", name)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return operrors.Wrap(operrors.ErrCodePublishFailed, err, "publish crate %s", name)
	}
}

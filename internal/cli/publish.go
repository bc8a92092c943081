package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	operrors "github.com/crateops/operator/pkg/errors"
	"github.com/crateops/operator/pkg/integrations/crates"
	"github.com/crateops/operator/pkg/release"
)

// publishOpts holds the command-line flags for the publish command.
type publishOpts struct {
	token             string
	cratePaths        []string
	strictOrder       bool
	dryRun            bool
	maxRetries        int
	visibilityTimeout time.Duration
	registry          string // registry base URL override
	noCache           bool
}

// publishCommand creates the publish command.
func (c *CLI) publishCommand() *cobra.Command {
	opts := publishOpts{
		maxRetries:        3,
		visibilityTimeout: 2 * time.Minute,
	}

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish crates to the registry in dependency order",
		Long: `Publish a set of crates to the registry, one at a time, in an order
that satisfies their dependency graph.

Each --crate occurrence appends one crate path to the plan, in the
order given. Versions already visible in the registry are skipped, so
re-running a partially completed release is safe. After each upload the
command waits for the version to propagate to the registry index before
publishing its dependents.

The full publish report is emitted as JSON on stderr, also when the run
aborts partway.

Examples:
  operator publish --token $CARGO_REGISTRY_TOKEN --crate crates/fj-math --crate crates/fj
  operator publish --crate crates/fj --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPublish(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.token, "token", "", "registry token (defaults to $CARGO_REGISTRY_TOKEN)")
	cmd.Flags().StringArrayVar(&opts.cratePaths, "crate", nil, "crate path to publish (repeatable, order preserved)")
	cmd.Flags().BoolVar(&opts.strictOrder, "strict-order", false, "fail instead of reordering when the given order violates dependencies")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "plan and check visibility but upload nothing")
	cmd.Flags().IntVar(&opts.maxRetries, "max-retries", opts.maxRetries, "publish attempts per crate before aborting")
	cmd.Flags().DurationVar(&opts.visibilityTimeout, "visibility-timeout", opts.visibilityTimeout, "how long to wait for a published crate to appear in the index")
	cmd.Flags().StringVar(&opts.registry, "registry", "", "registry API base URL (defaults to crates.io)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the registry response cache")

	return cmd
}

func (c *CLI) runPublish(cmd *cobra.Command, opts *publishOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	token := tokenOrEnv(opts.token, envRegistryToken)
	if token == "" && !opts.dryRun {
		return operrors.New(operrors.ErrCodeInvalidInput,
			"registry token required: pass --token or set $CARGO_REGISTRY_TOKEN")
	}

	plan, err := release.BuildPlan(ctx, opts.cratePaths, opts.strictOrder)
	if err != nil {
		return err
	}
	if len(plan.Packages) == 0 {
		printInfo("Nothing to publish")
		return nil
	}
	if plan.Reordered {
		printWarning("Crate order corrected to satisfy dependencies")
	}

	registry := c.registryClient(cmd, opts.registry, opts.noCache)
	defer registry.Close()

	executor := release.NewExecutor(registry,
		release.WithMaxAttempts(opts.maxRetries),
		release.WithVisibilityTimeout(opts.visibilityTimeout),
		release.WithDryRun(opts.dryRun),
	)

	prog := newProgress(c.Logger)
	report, execErr := executor.Execute(ctx, plan, token)

	// The report goes out even when the run aborted partway; it is the
	// only record of where the release stalled.
	emitReport(report)

	for _, a := range report.Attempts {
		printAttempt(a)
	}
	printReportSummary(report)

	if execErr != nil {
		return execErr
	}

	_, published, _ := report.Counts()
	prog.done(fmt.Sprintf("Published %d of %d crates", published, len(plan.Packages)))
	return nil
}

// registryClient builds the crates.io client used for one publish run.
func (c *CLI) registryClient(cmd *cobra.Command, baseURL string, noCache bool) *crates.Client {
	backend := c.newCache(cmd, noCache)
	if baseURL != "" {
		return crates.NewClientWithBaseURL(backend, registryCacheTTL, baseURL)
	}
	return crates.NewClient(backend, registryCacheTTL)
}

// emitReport writes the publish report as JSON to stderr, keeping
// stdout free for human-readable output.
func emitReport(r *release.Report) {
	enc := json.NewEncoder(os.Stderr)
	enc.SetIndent("", "  ")
	_ = enc.Encode(r)
}

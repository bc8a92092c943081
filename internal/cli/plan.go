package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crateops/operator/pkg/integrations"
	"github.com/crateops/operator/pkg/integrations/crates"
	"github.com/crateops/operator/pkg/release"
)

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	cratePaths  []string
	strictOrder bool
	annotate    bool   // query the registry for each crate's latest version
	graph       string // graph output file; format derived from extension
	noCache     bool
	registry    string
}

// planCommand creates the plan command, a publish dry-run that shows
// the computed order without touching the registry.
func (c *CLI) planCommand() *cobra.Command {
	opts := planOpts{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the publish order for a set of crates",
		Long: `Compute and display the dependency-ordered publish plan for a set of
crates without publishing anything.

With --graph the restricted dependency graph is rendered to a file;
the format (dot, svg, png) is derived from the file extension.

Examples:
  operator plan --crate crates/fj-math --crate crates/fj-kernel --crate crates/fj
  operator plan --crate crates/fj --annotate           # include registry state
  operator plan --crate crates/fj --graph plan.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(cmd, &opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.cratePaths, "crate", nil, "crate path to include (repeatable, order preserved)")
	cmd.Flags().BoolVar(&opts.strictOrder, "strict-order", false, "fail instead of reordering when the given order violates dependencies")
	cmd.Flags().BoolVar(&opts.annotate, "annotate", false, "show each crate's latest published version")
	cmd.Flags().StringVar(&opts.graph, "graph", "", "render the dependency graph to this file (.dot, .svg, .png)")
	cmd.Flags().StringVar(&opts.registry, "registry", "", "registry API base URL (defaults to crates.io)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the registry response cache")

	return cmd
}

func (c *CLI) runPlan(cmd *cobra.Command, opts *planOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	plan, err := release.BuildPlan(ctx, opts.cratePaths, opts.strictOrder)
	if err != nil {
		return err
	}
	if len(plan.Packages) == 0 {
		printInfo("No crates given")
		return nil
	}
	if plan.Reordered {
		printWarning("Crate order corrected to satisfy dependencies")
	}

	printInfo("Publish order (%d crates)", len(plan.Packages))

	var registry *crates.Client
	if opts.annotate {
		registry = c.registryClient(cmd, opts.registry, opts.noCache)
		defer registry.Close()
	}

	for i, pkg := range plan.Packages {
		note := ""
		if registry != nil {
			note = registryNote(cmd, registry, pkg.Name, pkg.Version)
		}
		printPlanEntry(i+1, pkg.Name, pkg.Version, note)
	}

	if opts.graph != "" {
		if err := c.renderPlanGraph(cmd, plan, opts.graph); err != nil {
			return err
		}
		printFile(opts.graph)
	}
	return nil
}

// registryNote describes how the planned version relates to the
// registry's latest. Registry trouble only degrades the annotation, it
// never fails the plan.
func registryNote(cmd *cobra.Command, registry *crates.Client, name, version string) string {
	latest, err := registry.LatestVersion(cmd.Context(), name, false)
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return "never published"
		}
		return ""
	}
	if latest == version {
		return "already at " + version
	}
	return "latest " + latest
}

// renderPlanGraph writes the plan's dependency graph to path, picking
// the format from the file extension.
func (c *CLI) renderPlanGraph(cmd *cobra.Command, plan *release.Plan, path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		format = "dot"
	}

	data, err := plan.Graph().RenderGraph(cmd.Context(), format)
	if err != nil {
		return fmt.Errorf("render graph: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	return nil
}

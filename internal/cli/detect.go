package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	operrors "github.com/crateops/operator/pkg/errors"
	"github.com/crateops/operator/pkg/integrations/github"
	"github.com/crateops/operator/pkg/release"
)

// detectOpts holds the command-line flags for the detect command.
type detectOpts struct {
	commit    string // commit reference, defaults to GITHUB_SHA
	repo      string // owner/repo, defaults to GITHUB_REPOSITORY
	token     string // source-control token, defaults to GITHUB_TOKEN
	leadCrate string // path of the crate whose version names the release
	label     string // pull-request label that triggers a release
	output    string // structured output file, defaults to GITHUB_OUTPUT
}

// detectCommand creates the detect command, the release gate of the
// pipeline. "No release" is a normal result with exit code 0; only a
// metadata or auth failure exits nonzero, because treating one as "not
// detected" would silently skip a real release.
func (c *CLI) detectCommand() *cobra.Command {
	opts := detectOpts{label: release.DefaultReleaseLabel}

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Decide whether a commit triggers a release",
		Long: `Decide whether the current commit should become a release.

A commit triggers a release when the pull request it was merged from
carries the release label. The release tag is derived from the lead
crate's manifest version.

Results are written as key=value pairs (release-detected, tag-name) to
the file named by --output or $GITHUB_OUTPUT, falling back to stdout.

Examples:
  operator detect --repo hannobraun/fornjot --commit $GITHUB_SHA --lead-crate crates/fj
  operator detect --lead-crate crates/fj            # repo/commit from GitHub Actions env`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDetect(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.commit, "commit", "", "commit reference (defaults to $GITHUB_SHA)")
	cmd.Flags().StringVar(&opts.repo, "repo", "", "repository as owner/repo (defaults to $GITHUB_REPOSITORY)")
	cmd.Flags().StringVar(&opts.token, "token", "", "source-control access token (defaults to $GITHUB_TOKEN)")
	cmd.Flags().StringVar(&opts.leadCrate, "lead-crate", "", "path of the crate whose version names the release")
	cmd.Flags().StringVar(&opts.label, "label", opts.label, "pull-request label that triggers a release")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "structured output file (defaults to $GITHUB_OUTPUT)")
	_ = cmd.MarkFlagRequired("lead-crate")

	return cmd
}

func (c *CLI) runDetect(cmd *cobra.Command, opts *detectOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	commit := opts.commit
	if commit == "" {
		commit = os.Getenv(envCommit)
	}
	repoRef := opts.repo
	if repoRef == "" {
		repoRef = os.Getenv(envRepository)
	}

	owner, repo, err := github.ParseRepoRef(repoRef)
	if err != nil {
		return operrors.New(operrors.ErrCodeInvalidInput, "repository: %v", err)
	}

	source := github.NewClient(tokenOrEnv(opts.token, envGitHubToken))
	defer source.Close()

	detector := release.NewDetector(source, owner, repo, opts.leadCrate,
		release.WithReleaseLabel(opts.label))

	candidate, err := detector.Detect(ctx, commit)
	if err != nil {
		return err
	}

	if candidate.Detected {
		printSuccess("Release %s detected", candidate.Tag)
		printDetail("Pull request #%d with label %q", candidate.ChangeID, opts.label)
	} else {
		printInfo("No release detected for %s", shortCommit(commit))
	}

	return writeOutputs(opts.output, map[string]string{
		"release-detected": fmt.Sprintf("%t", candidate.Detected),
		"tag-name":         candidate.Tag,
	})
}

// writeOutputs appends key=value pairs to the structured output file,
// the channel the surrounding pipeline reads results from. Without a
// file the pairs go to stdout. Keys are emitted in a fixed order so the
// output is stable across runs.
func writeOutputs(path string, values map[string]string) error {
	if path == "" {
		path = os.Getenv(envGitHubOutput)
	}

	keys := []string{"release-detected", "tag-name"}

	if path == "" {
		for _, k := range keys {
			fmt.Printf("%s=%s\n", k, values[k])
		}
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer f.Close()

	for _, k := range keys {
		if _, err := fmt.Fprintf(f, "%s=%s\n", k, values[k]); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
	}
	return nil
}

// shortCommit abbreviates a full SHA for display.
func shortCommit(commit string) string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}

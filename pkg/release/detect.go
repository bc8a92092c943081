// Package release implements the gate-and-publish engine behind the
// operator's two commands. The Detector decides whether a commit should
// become a release and derives its tag; the Planner orders a set of
// crates by their dependency graph; the Executor walks the plan against
// the registry with idempotency, retry, and visibility-wait semantics.
package release

import (
	"context"

	operrors "github.com/crateops/operator/pkg/errors"
	"github.com/crateops/operator/pkg/integrations/github"
	"github.com/crateops/operator/pkg/manifest"
	"github.com/crateops/operator/pkg/observability"
)

// DefaultReleaseLabel is the pull-request label that marks a merge
// commit as a release trigger.
const DefaultReleaseLabel = "release"

// MetadataSource answers which pull requests produced a commit.
// *github.Client satisfies it.
type MetadataSource interface {
	PullsForCommit(ctx context.Context, owner, repo, sha string) ([]github.PullRequest, error)
}

// TagStrategy derives a release tag from the lead crate's manifest.
// The rule is pluggable so repositories with different tag conventions
// can swap it without touching detection logic.
type TagStrategy func(pkg *manifest.Package) string

// VersionTag is the default strategy: "v" followed by the crate version.
func VersionTag(pkg *manifest.Package) string {
	return "v" + pkg.Version
}

// Candidate is the result of one detection. It is computed fresh per
// invocation and never persisted; calling Detect again for the same
// commit and repository state yields an identical value.
type Candidate struct {
	Commit   string   `json:"commit"`
	ChangeID int      `json:"change_id,omitempty"`
	Labels   []string `json:"labels,omitempty"`
	Tag      string   `json:"tag,omitempty"`
	Detected bool     `json:"detected"`
}

// Detector decides release eligibility for a commit.
type Detector struct {
	source    MetadataSource
	owner     string
	repo      string
	label     string
	leadCrate string
	tag       TagStrategy
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithReleaseLabel overrides the label that gates detection.
func WithReleaseLabel(label string) DetectorOption {
	return func(d *Detector) { d.label = label }
}

// WithTagStrategy overrides how the release tag is derived.
func WithTagStrategy(s TagStrategy) DetectorOption {
	return func(d *Detector) { d.tag = s }
}

// NewDetector creates a Detector for the given repository. leadCrate is
// the path of the crate whose manifest version names the release.
func NewDetector(source MetadataSource, owner, repo, leadCrate string, opts ...DetectorOption) *Detector {
	d := &Detector{
		source:    source,
		owner:     owner,
		repo:      repo,
		label:     DefaultReleaseLabel,
		leadCrate: leadCrate,
		tag:       VersionTag,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect resolves the pull request behind commit and decides whether it
// triggers a release. A commit with no pull request, or whose pull
// request lacks the release label, yields Detected=false with an empty
// tag. That is a normal outcome, not an error.
//
// A metadata failure is always surfaced, never folded into "not
// detected": a false negative here silently skips a real release.
func (d *Detector) Detect(ctx context.Context, commit string) (*Candidate, error) {
	observability.Release().OnDetectStart(ctx, commit)

	candidate, err := d.detect(ctx, commit)

	if candidate != nil {
		observability.Release().OnDetectComplete(ctx, commit, candidate.Detected, candidate.Tag, err)
	} else {
		observability.Release().OnDetectComplete(ctx, commit, false, "", err)
	}
	return candidate, err
}

func (d *Detector) detect(ctx context.Context, commit string) (*Candidate, error) {
	if commit == "" {
		return nil, operrors.New(operrors.ErrCodeInvalidInput, "commit reference is required")
	}

	pulls, err := d.source.PullsForCommit(ctx, d.owner, d.repo, commit)
	if err != nil {
		return nil, operrors.Wrap(operrors.ErrCodeMetadata, err,
			"resolve pull request for commit %s", commit)
	}

	candidate := &Candidate{Commit: commit}

	pr, ok := releasePull(pulls, d.label)
	if !ok {
		return candidate, nil
	}
	candidate.ChangeID = pr.Number
	candidate.Labels = pr.LabelNames()

	lead, err := manifest.Load(d.leadCrate)
	if err != nil {
		return nil, operrors.Wrap(operrors.ErrCodeMetadata, err,
			"read lead crate manifest at %s", d.leadCrate)
	}

	candidate.Tag = d.tag(lead)
	candidate.Detected = true
	return candidate, nil
}

// releasePull returns the first pull request carrying the release
// label. The API lists a commit's pulls in a stable order, so repeated
// calls pick the same one.
func releasePull(pulls []github.PullRequest, label string) (github.PullRequest, bool) {
	for _, pr := range pulls {
		if pr.HasLabel(label) {
			return pr, true
		}
	}
	return github.PullRequest{}, false
}

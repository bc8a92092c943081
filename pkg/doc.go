// Package pkg provides the core libraries for the crateops release operator.
//
// # Overview
//
// The operator answers two questions for a CI pipeline: "should this
// commit become a release?" and "publish these crates, in the right
// order, exactly once". The pkg directory is organized accordingly:
//
//  1. [release] - Domain logic (trigger detection, publish planning, execution)
//  2. [manifest] - Cargo.toml parsing into package snapshots
//  3. [dag] - Dependency graph with cycle detection and stable topological sort
//  4. [integrations] - External API clients (crates.io, GitHub)
//  5. [cache], [httputil], [errors], [observability], [buildinfo] - Infrastructure
//
// # Architecture
//
// The data flow for a publish run:
//
//	crate paths
//	     ↓
//	[manifest] package (read name, version, dependencies)
//	     ↓
//	[dag] package (restricted graph, cycle check, ordering)
//	     ↓
//	[release] Executor (skip / publish / wait for visibility)
//	     ↓
//	[integrations/crates] client (registry API)
//
// Detection is the shorter path: [integrations/github] resolves the
// pull request behind a commit, and the [release] Detector turns its
// labels plus the lead crate's manifest into a go/no-go and a tag.
//
// # Quick Start
//
// Plan and publish a set of crates:
//
//	plan, err := release.BuildPlan(ctx, []string{"crates/fj-math", "crates/fj"}, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry := crates.NewClient(cache.NewNullCache(), time.Hour)
//	report, err := release.NewExecutor(registry).Execute(ctx, plan, token)
//
// [release]: https://pkg.go.dev/github.com/crateops/operator/pkg/release
// [manifest]: https://pkg.go.dev/github.com/crateops/operator/pkg/manifest
// [dag]: https://pkg.go.dev/github.com/crateops/operator/pkg/dag
// [integrations]: https://pkg.go.dev/github.com/crateops/operator/pkg/integrations
// [integrations/crates]: https://pkg.go.dev/github.com/crateops/operator/pkg/integrations/crates
// [integrations/github]: https://pkg.go.dev/github.com/crateops/operator/pkg/integrations/github
// [cache]: https://pkg.go.dev/github.com/crateops/operator/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/crateops/operator/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/crateops/operator/pkg/errors
// [observability]: https://pkg.go.dev/github.com/crateops/operator/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/crateops/operator/pkg/buildinfo
package pkg

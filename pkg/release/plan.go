package release

import (
	"context"
	"errors"

	"github.com/crateops/operator/pkg/dag"
	operrors "github.com/crateops/operator/pkg/errors"
	"github.com/crateops/operator/pkg/manifest"
	"github.com/crateops/operator/pkg/observability"
)

// Plan is a validated, dependency-ordered sequence of crates to
// publish. Every crate appears after all of its dependencies that are
// also in the plan; dependencies outside the plan are assumed already
// published and do not constrain the order.
type Plan struct {
	Packages []*manifest.Package

	// Reordered is true when the caller-supplied order violated a
	// dependency constraint and was corrected by a stable topological
	// sort. Only set in non-strict mode.
	Reordered bool

	graph *dag.DAG
}

// Names returns the crate names in plan order.
func (p *Plan) Names() []string {
	names := make([]string, 0, len(p.Packages))
	for _, pkg := range p.Packages {
		names = append(names, pkg.Name)
	}
	return names
}

// Graph exposes the restricted dependency graph for rendering.
func (p *Plan) Graph() *dag.DAG {
	return p.graph
}

// BuildPlan loads the manifest of every crate path, restricts the
// dependency graph to the supplied set, and produces a publish order.
//
// The caller's path order is preserved wherever it already satisfies
// the dependency constraints. When it does not, the plan is reordered
// by a stable topological sort with ties broken by input position, so
// the same input always yields the same plan. With strict set, an
// out-of-order input fails instead, which catches manifest drift in
// pipelines that hand-maintain their crate list.
//
// A dependency cycle within the set is always fatal.
func BuildPlan(ctx context.Context, paths []string, strict bool) (*Plan, error) {
	observability.Release().OnPlanStart(ctx, len(paths))

	plan, err := buildPlan(paths, strict)

	reordered := plan != nil && plan.Reordered
	observability.Release().OnPlanComplete(ctx, len(paths), reordered, err)
	return plan, err
}

func buildPlan(paths []string, strict bool) (*Plan, error) {
	graph := dag.New()
	byName := make(map[string]*manifest.Package, len(paths))
	order := make([]string, 0, len(paths))

	for _, path := range paths {
		if err := operrors.ValidateCratePath(path); err != nil {
			return nil, err
		}
		pkg, err := manifest.Load(path)
		if err != nil {
			return nil, err
		}
		if _, exists := byName[pkg.Name]; exists {
			return nil, operrors.New(operrors.ErrCodeInvalidInput,
				"crate %s listed more than once", pkg.Name)
		}
		byName[pkg.Name] = pkg
		order = append(order, pkg.Name)

		node := dag.Node{ID: pkg.Name, Meta: dag.Metadata{"version": pkg.Version, "path": pkg.Path}}
		if err := graph.AddNode(node); err != nil {
			return nil, operrors.Wrap(operrors.ErrCodeInternal, err, "add crate %s to graph", pkg.Name)
		}
	}

	// Edges only for dependencies inside the set. Everything else is
	// assumed to be published already.
	for _, name := range order {
		for _, dep := range byName[name].Dependencies {
			if _, inSet := byName[dep]; !inSet {
				continue
			}
			if err := graph.AddEdge(dag.Edge{From: name, To: dep}); err != nil {
				return nil, operrors.Wrap(operrors.ErrCodeInternal, err, "add edge %s -> %s", name, dep)
			}
		}
	}

	if err := graph.Validate(); err != nil {
		if errors.Is(err, dag.ErrGraphHasCycle) {
			return nil, operrors.Wrap(operrors.ErrCodeCycle, err, "crate set has a dependency cycle")
		}
		return nil, err
	}

	plan := &Plan{graph: graph}

	if graph.IsTopoOrder(order) {
		for _, name := range order {
			plan.Packages = append(plan.Packages, byName[name])
		}
		return plan, nil
	}

	if strict {
		return nil, operrors.New(operrors.ErrCodeOrder,
			"supplied crate order violates dependency order")
	}

	sorted, err := graph.StableTopoSort()
	if err != nil {
		return nil, operrors.Wrap(operrors.ErrCodeCycle, err, "order crate set")
	}
	for _, name := range sorted {
		plan.Packages = append(plan.Packages, byName[name])
	}
	plan.Reordered = true
	return plan, nil
}

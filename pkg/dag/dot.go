package dag

import (
	"bytes"
	"fmt"
)

// ToDOT returns a Graphviz DOT representation of the dependency graph.
//
// Edges are drawn from dependent to dependency, matching the direction the
// planner uses internally. The output is a complete DOT digraph suitable
// for rendering with Graphviz tools (dot, neato, etc.) or programmatically
// with [RenderGraph].
//
// Node labels include the crate version when a "version" metadata entry
// is present.
func (d *DAG) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph publish_plan {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, shape=box, style=\"filled,rounded\", fillcolor=white];\n\n")

	for _, n := range d.Nodes() {
		label := n.ID
		if v, ok := n.Meta["version"].(string); ok && v != "" {
			label = fmt.Sprintf("%s\\n%s", n.ID, v)
		}
		fmt.Fprintf(&buf, "  %q [label=\"%s\"];\n", n.ID, label)
	}

	buf.WriteString("\n")
	for _, e := range d.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

package dag

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// RenderGraph renders the dependency graph to the requested format.
// Supported formats are "dot", "svg", and "png"; the format is normally
// derived from the output filename extension by the caller.
//
// DOT output is generated directly; SVG and PNG go through Graphviz.
func (d *DAG) RenderGraph(ctx context.Context, format string) ([]byte, error) {
	dot := d.ToDOT()

	var gvFormat graphviz.Format
	switch strings.ToLower(format) {
	case "dot":
		return []byte(dot), nil
	case "svg":
		gvFormat = graphviz.SVG
	case "png":
		gvFormat = graphviz.PNG
	default:
		return nil, fmt.Errorf("unsupported graph format: %s", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

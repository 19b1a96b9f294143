// Copyright 2025 Model X-Ray Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package diagram renders x-ray reports as Mermaid flowcharts.
//
// It wraps the internal parsing, tree reconstruction and chart generation
// pipeline behind a single call:
//
//	body, err := diagram.Render(reportText, diagram.Options{
//	    MaxDepth:  3,
//	    RootLabel: "Qwen3VLModel",
//	})
package diagram

import (
	"fmt"
	"io"

	"github.com/rrroooyyywang/Model-Xray/internal/mermaid"
	"github.com/rrroooyyywang/Model-Xray/internal/modtree"
	"github.com/rrroooyyywang/Model-Xray/internal/report"
)

// Options configures chart rendering.
type Options struct {
	// MaxDepth is the leaf depth of the chart. Must be >= 1.
	MaxDepth int
	// RootLabel is the display label of the synthetic root node.
	RootLabel string
}

// Render parses the named_modules section of an x-ray report, rebuilds and
// depth-filters the module tree, and returns the Mermaid flowchart body.
func Render(reportText string, opts Options) (string, error) {
	if opts.MaxDepth < 1 {
		return "", fmt.Errorf("max depth must be >= 1, got %d", opts.MaxDepth)
	}

	records, err := report.ParseNamedModules(reportText)
	if err != nil {
		return "", err
	}

	nodes := make(modtree.Set, len(records))
	for path, rec := range records {
		nodes[path] = modtree.Node{Path: rec.Path, Class: rec.Class}
	}
	nodes = modtree.EnsureParents(nodes)
	nodes = modtree.FilterMaxDepth(nodes, opts.MaxDepth)

	return mermaid.Generate(nodes, mermaid.Options{
		MaxDepth:  opts.MaxDepth,
		RootLabel: opts.RootLabel,
	}), nil
}

// WriteDocument wraps a rendered chart body in a fenced mermaid code block.
func WriteDocument(w io.Writer, body string) error {
	return mermaid.WriteDocument(w, body)
}

// Package mermaid renders a module hierarchy as a Mermaid flowchart.
//
// The chart is laid out left-to-right. Siblings that are still branches
// (depth below the leaf depth) fan out horizontally; siblings at the leaf
// depth are stacked vertically inside a subgraph, so bushy per-block
// fan-out (dozens of attention submodules, say) does not explode the
// diagram's width.
package mermaid

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rrroooyyywang/Model-Xray/internal/modtree"
)

// rootID is the identifier of the synthetic root node.
const rootID = "Model"

// Options configures chart generation.
type Options struct {
	// MaxDepth is the leaf depth: nodes at this depth stack vertically.
	MaxDepth int
	// RootLabel is the display label of the synthetic root node.
	RootLabel string
}

// SanitizeLabel strips the bracket characters Mermaid reserves for node
// shapes from a display label.
func SanitizeLabel(s string) string {
	return strings.NewReplacer(
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	).Replace(s)
}

// IDForPath derives a Mermaid node identifier from a module path.
// Anything outside [0-9A-Za-z_] becomes an underscore; identifiers may not
// start with a digit, so those get an "n_" prefix.
func IDForPath(path string) string {
	var b strings.Builder
	b.Grow(len(path))
	for _, ch := range path {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z',
			ch >= '0' && ch <= '9', ch == '_':
			b.WriteRune(ch)
		default:
			b.WriteByte('_')
		}
	}
	id := b.String()
	if id != "" && id[0] >= '0' && id[0] <= '9' {
		id = "n_" + id
	}
	return id
}

// nodeLabel combines path and class into a sanitized display label.
func nodeLabel(n modtree.Node) string {
	if n.Class != "" {
		return SanitizeLabel(n.Path + " " + n.Class)
	}
	return SanitizeLabel(n.Path)
}

// Generate renders the filtered node set as a Mermaid flowchart body.
// Iteration is fully sorted, so output is byte-identical across runs.
func Generate(nodes modtree.Set, opts Options) string {
	var lines []string
	lines = append(lines, "flowchart LR")
	lines = append(lines, fmt.Sprintf("  %s[%s]", rootID, SanitizeLabel(opts.RootLabel)))

	for _, path := range modtree.Paths(nodes) {
		lines = append(lines, fmt.Sprintf("  %s[%s]", IDForPath(path), nodeLabel(nodes[path])))
	}

	for _, root := range modtree.Roots(nodes) {
		lines = append(lines, fmt.Sprintf("  %s --> %s", rootID, IDForPath(root)))
	}

	tree := modtree.Children(nodes)
	parents := make([]string, 0, len(tree))
	for parent := range tree {
		parents = append(parents, parent)
	}
	sort.Strings(parents)

	stackCounter := 0
	for _, parent := range parents {
		var leaves, branches []string
		for _, child := range tree[parent] {
			if modtree.Depth(child) == opts.MaxDepth {
				leaves = append(leaves, child)
			} else {
				branches = append(branches, child)
			}
		}

		for _, child := range branches {
			lines = append(lines, fmt.Sprintf("  %s --> %s", IDForPath(parent), IDForPath(child)))
		}

		if len(leaves) > 0 {
			stackCounter++
			stackID := fmt.Sprintf("leafstack_%s_%d", IDForPath(parent), stackCounter)
			lines = appendLeafStack(lines, parent, leaves, stackID)
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

// appendLeafStack emits a vertical subgraph chaining the leaves in order,
// plus a single edge from the parent into the top of the stack.
// Leaves arrive already sorted.
func appendLeafStack(lines []string, parent string, leaves []string, stackID string) []string {
	lines = append(lines, fmt.Sprintf("  subgraph %s", stackID))
	lines = append(lines, "    direction TB")
	for i := 0; i+1 < len(leaves); i++ {
		lines = append(lines, fmt.Sprintf("    %s --> %s", IDForPath(leaves[i]), IDForPath(leaves[i+1])))
	}
	lines = append(lines, "  end")
	lines = append(lines, fmt.Sprintf("  %s --> %s", IDForPath(parent), IDForPath(leaves[0])))
	return lines
}

// WriteDocument wraps a chart body in a fenced mermaid code block.
func WriteDocument(w io.Writer, body string) error {
	if _, err := io.WriteString(w, "```mermaid\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, body); err != nil {
		return err
	}
	_, err := io.WriteString(w, "```\n")
	return err
}

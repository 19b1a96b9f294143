// Package modtree reconstructs module hierarchies from dotted path names.
//
// A model report lists modules as flat dotted paths ("visual.blocks.0.attn").
// This package rebuilds the implied tree: it synthesizes missing ancestor
// nodes, prunes the tree to a maximum depth, and derives parent/child
// relationships for rendering.
package modtree

import (
	"sort"
	"strings"
)

// Node is a single module in the hierarchy.
// Class is empty for ancestors synthesized to close the tree.
type Node struct {
	Path  string
	Class string
}

// Set is the working collection of nodes, keyed by dotted path.
type Set map[string]Node

// Depth returns the number of dot-separated segments in a path.
func Depth(path string) int {
	return strings.Count(path, ".") + 1
}

// ParentPath returns the path with its last segment removed,
// or "" for a depth-1 path.
func ParentPath(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

// EnsureParents returns a copy of the set closed under the parent operation:
// for every node, every proper prefix of its path is present. Synthesized
// ancestors carry no class. Existing nodes are never overwritten, so an
// explicitly labeled node keeps its class. Idempotent.
func EnsureParents(nodes Set) Set {
	out := make(Set, len(nodes))
	for path, node := range nodes {
		out[path] = node
	}

	for path := range nodes {
		parts := strings.Split(path, ".")
		for i := 1; i < len(parts); i++ {
			parent := strings.Join(parts[:i], ".")
			if _, ok := out[parent]; !ok {
				out[parent] = Node{Path: parent}
			}
		}
	}

	return out
}

// FilterMaxDepth keeps nodes with depth <= maxDepth and re-closes the set
// under the parent operation. The second depth pass cannot trigger for
// well-formed dotted paths (ancestors are always shallower) but is kept as
// a safety net against malformed input.
func FilterMaxDepth(nodes Set, maxDepth int) Set {
	kept := make(Set)
	for path, node := range nodes {
		if Depth(path) <= maxDepth {
			kept[path] = node
		}
	}

	kept = EnsureParents(kept)

	for path := range kept {
		if Depth(path) > maxDepth {
			delete(kept, path)
		}
	}

	return kept
}

// Children maps each parent path to its direct children, sorted
// lexicographically. A relationship exists only when both ends are in the
// set.
func Children(nodes Set) map[string][]string {
	tree := make(map[string][]string)
	for path := range nodes {
		parent := ParentPath(path)
		if parent == "" {
			continue
		}
		if _, ok := nodes[parent]; !ok {
			continue
		}
		tree[parent] = append(tree[parent], path)
	}

	for parent := range tree {
		sort.Strings(tree[parent])
	}

	return tree
}

// Roots returns the depth-1 paths in the set, sorted.
func Roots(nodes Set) []string {
	var roots []string
	for path := range nodes {
		if !strings.Contains(path, ".") {
			roots = append(roots, path)
		}
	}
	sort.Strings(roots)
	return roots
}

// Paths returns all paths sorted by depth, then lexicographically.
// This is the declaration order used by the diagram generator.
func Paths(nodes Set) []string {
	paths := make([]string, 0, len(nodes))
	for path := range nodes {
		paths = append(paths, path)
	}
	sort.Slice(paths, func(i, j int) bool {
		di, dj := Depth(paths[i]), Depth(paths[j])
		if di != dj {
			return di < dj
		}
		return paths[i] < paths[j]
	})
	return paths
}

package mermaid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrroooyyywang/Model-Xray/internal/modtree"
)

func fixtureSet() modtree.Set {
	explicit := modtree.Set{
		"visual.blocks.0.attn.qkv":  {Path: "visual.blocks.0.attn.qkv", Class: "Linear"},
		"visual.blocks.0.attn.proj": {Path: "visual.blocks.0.attn.proj", Class: "Linear"},
		"language.embed_tokens":     {Path: "language.embed_tokens", Class: "Embedding"},
	}
	return modtree.FilterMaxDepth(modtree.EnsureParents(explicit), 3)
}

func TestIDForPath(t *testing.T) {
	tests := []struct {
		path string
		id   string
	}{
		{"visual.blocks.0", "visual_blocks_0"},
		{"a-b c", "a_b_c"},
		{"0.attn", "n_0_attn"},
		{"weight", "weight"},
		{"ün", "_n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.id, IDForPath(tt.path), "path %q", tt.path)
	}
}

func TestIDForPath_AlwaysValid(t *testing.T) {
	paths := []string{"9lives", "a.b.c", "x y-z", "3.2.1", "αβγ"}
	for _, p := range paths {
		id := IDForPath(p)
		require.NotEmpty(t, id)
		assert.False(t, id[0] >= '0' && id[0] <= '9', "id %q starts with a digit", id)
		for _, ch := range id {
			valid := ch == '_' ||
				(ch >= 'a' && ch <= 'z') ||
				(ch >= 'A' && ch <= 'Z') ||
				(ch >= '0' && ch <= '9')
			assert.True(t, valid, "id %q contains %q", id, ch)
		}
	}
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "Conv2d 3, 3", SanitizeLabel("Conv2d (3, 3)"))
	assert.Equal(t, "shape=2, 3 dictk: v", SanitizeLabel("shape=[2, 3] dict{k: v}"))
	assert.Equal(t, "plain", SanitizeLabel("plain"))
}

func TestGenerate_Structure(t *testing.T) {
	body := Generate(fixtureSet(), Options{MaxDepth: 3, RootLabel: "Qwen3VLModel"})
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")

	assert.Equal(t, "flowchart LR", lines[0])
	assert.Equal(t, "  Model[Qwen3VLModel]", lines[1])

	// Declarations for every node in the filtered set.
	assert.Contains(t, body, "  language[language]")
	assert.Contains(t, body, "  language_embed_tokens[language.embed_tokens Embedding]")
	assert.Contains(t, body, "  visual_blocks_0[visual.blocks.0]")

	// Root connects to every depth-1 node.
	assert.Contains(t, body, "  Model --> language")
	assert.Contains(t, body, "  Model --> visual")

	// Depth-5 leaves were filtered out before generation.
	assert.NotContains(t, body, "qkv")
}

func TestGenerate_LeafStack(t *testing.T) {
	explicit := modtree.Set{
		"visual.blocks.0": {Path: "visual.blocks.0", Class: "Block"},
		"visual.blocks.1": {Path: "visual.blocks.1", Class: "Block"},
		"visual.blocks.2": {Path: "visual.blocks.2", Class: "Block"},
	}
	nodes := modtree.FilterMaxDepth(modtree.EnsureParents(explicit), 3)

	body := Generate(nodes, Options{MaxDepth: 3, RootLabel: "Model"})

	// The three depth-3 siblings stack vertically inside one subgraph.
	assert.Contains(t, body, "  subgraph leafstack_visual_blocks_1")
	assert.Contains(t, body, "    direction TB")
	assert.Contains(t, body, "    visual_blocks_0 --> visual_blocks_1")
	assert.Contains(t, body, "    visual_blocks_1 --> visual_blocks_2")

	// One edge from the parent into the top of the stack, none to the rest.
	assert.Contains(t, body, "  visual_blocks --> visual_blocks_0")
	assert.NotContains(t, body, "  visual_blocks --> visual_blocks_1")

	// visual -> visual.blocks is a non-leaf child: plain horizontal edge.
	assert.Contains(t, body, "  visual --> visual_blocks")
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(fixtureSet(), Options{MaxDepth: 3, RootLabel: "Model"})
	b := Generate(fixtureSet(), Options{MaxDepth: 3, RootLabel: "Model"})
	assert.Equal(t, a, b)
}

func TestGenerate_SanitizesRootLabel(t *testing.T) {
	body := Generate(modtree.Set{}, Options{MaxDepth: 3, RootLabel: "Model (tiny)"})
	assert.Contains(t, body, "Model[Model tiny]")
}

func TestWriteDocument(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteDocument(&sb, "flowchart LR\n"))
	assert.Equal(t, "```mermaid\nflowchart LR\n```\n", sb.String())
}

package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `=== type
format: SafeTensors
file: model.safetensors

=== named_modules
visual.blocks.0.attn.qkv    Linear
visual.blocks.0.attn.proj   Linear
language.embed_tokens       Embedding

=== named_parameters
visual.blocks.0.attn.qkv.weight    shape=(3072, 1024) dtype=F16
`

func TestParseNamedModules(t *testing.T) {
	records, err := ParseNamedModules(sampleReport)
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "Linear", records["visual.blocks.0.attn.qkv"].Class)
	assert.Equal(t, "Embedding", records["language.embed_tokens"].Class)
}

func TestParseNamedModules_StopsAtNextSection(t *testing.T) {
	records, err := ParseNamedModules(sampleReport)
	require.NoError(t, err)

	// The named_parameters line must not leak into the module table.
	assert.NotContains(t, records, "visual.blocks.0.attn.qkv.weight")
}

func TestParseNamedModules_CaseInsensitiveHeader(t *testing.T) {
	text := "=== NAMED_MODULES\nlayer.0    Linear\n"
	records, err := ParseNamedModules(text)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestParseNamedModules_HeaderToleratesLeadingWhitespace(t *testing.T) {
	text := "  ===   named_modules\nlayer.0    Linear\n"
	records, err := ParseNamedModules(text)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestParseNamedModules_SkipsMalformedLines(t *testing.T) {
	text := `=== named_modules
layer.0    Linear
single_token_no_class
...truncated...
layer.1    LayerNorm
`
	records, err := ParseNamedModules(text)
	require.NoError(t, err)

	assert.Len(t, records, 2)
	assert.NotContains(t, records, "single_token_no_class")
	assert.NotContains(t, records, "...truncated...")
}

func TestParseNamedModules_DuplicateOverwrites(t *testing.T) {
	text := `=== named_modules
layer.0    Linear
layer.0    Conv2d
`
	records, err := ParseNamedModules(text)
	require.NoError(t, err)
	assert.Equal(t, "Conv2d", records["layer.0"].Class)
}

func TestParseNamedModules_ClassKeepsInnerSpaces(t *testing.T) {
	text := "=== named_modules\nblock.0    Conv2d 3x3 depthwise   \n"
	records, err := ParseNamedModules(text)
	require.NoError(t, err)
	assert.Equal(t, "Conv2d 3x3 depthwise", records["block.0"].Class)
}

func TestParseNamedModules_MissingSection(t *testing.T) {
	_, err := ParseNamedModules("=== type\nformat: GGUF\n")
	assert.ErrorIs(t, err, ErrSectionMissing)
}

func TestParseNamedModules_EmptySection(t *testing.T) {
	_, err := ParseNamedModules("=== named_modules\n\n=== named_parameters\n")
	assert.ErrorIs(t, err, ErrSectionEmpty)
}

func TestSections(t *testing.T) {
	sections := Sections(sampleReport)
	require.Len(t, sections, 3)
	assert.Equal(t, "type", sections[0].Name)
	assert.Equal(t, "named_modules", sections[1].Name)
	assert.Equal(t, "named_parameters", sections[2].Name)
}

// Copyright 2025 Model X-Ray Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrroooyyywang/Model-Xray/report"
)

func TestParseNamedModules(t *testing.T) {
	text := `=== named_modules
model.embed_tokens    Embedding
model.norm            RMSNorm
`
	records, err := report.ParseNamedModules(text)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Embedding", records["model.embed_tokens"].Class)
}

func TestParseNamedModules_Missing(t *testing.T) {
	_, err := report.ParseNamedModules("=== type\nformat: ONNX\n")
	assert.ErrorIs(t, err, report.ErrSectionMissing)
}

func TestSections(t *testing.T) {
	sections := report.Sections("=== type\nx\n=== named_modules\na  B\n")
	require.Len(t, sections, 2)
	assert.Equal(t, "type", sections[0].Name)
	assert.Equal(t, "named_modules", sections[1].Name)
}

package loader

import (
	"testing"

	"github.com/rrroooyyywang/Model-Xray/internal/gguf"
)

func TestGGUFModel_TensorsReversesDims(t *testing.T) {
	m := &ggufModel{file: &gguf.File{
		TensorInfo: []gguf.TensorInfo{
			{Name: "token_embd.weight", Dimensions: []uint64{1024, 32000}, Type: gguf.TypeF16},
			{Name: "blk.0.attn_q.weight", Dimensions: []uint64{1024, 1024}, Type: gguf.TypeQ4_K},
		},
	}}

	tensors := m.Tensors()
	if len(tensors) != 2 {
		t.Fatalf("len(Tensors) = %d, want 2", len(tensors))
	}

	// Sorted by name, blk.* first.
	if tensors[0].Name != "blk.0.attn_q.weight" {
		t.Errorf("Tensors[0].Name = %q, want blk.0.attn_q.weight", tensors[0].Name)
	}
	if tensors[0].DType != "Q4_K" {
		t.Errorf("DType = %q, want Q4_K", tensors[0].DType)
	}

	// GGUF stores [1024, 32000] innermost-first; the report shows [32000, 1024].
	e := tensors[1]
	if len(e.Shape) != 2 || e.Shape[0] != 32000 || e.Shape[1] != 1024 {
		t.Errorf("Shape = %v, want [32000 1024]", e.Shape)
	}
}

func TestGGUFModel_Metadata(t *testing.T) {
	m := &ggufModel{file: &gguf.File{
		Metadata: map[string]interface{}{
			"general.architecture": "llama",
			"llama.block_count":    uint32(32),
			"tokenizer.ggml.merges": func() []string {
				merges := make([]string, 50000)
				return merges
			}(),
		},
	}}

	meta := m.Metadata()
	if meta["general.architecture"] != "llama" {
		t.Errorf("architecture = %q", meta["general.architecture"])
	}
	if meta["llama.block_count"] != "32" {
		t.Errorf("block_count = %q, want 32", meta["llama.block_count"])
	}
	if meta["tokenizer.ggml.merges"] != "[50000 strings]" {
		t.Errorf("merges = %q, want [50000 strings]", meta["tokenizer.ggml.merges"])
	}
}

package loader

import "strings"

// namePattern pairs a tensor-name fragment with the architecture family it
// betrays. Checked in order; first hit wins.
var namePatterns = []struct {
	fragment string
	arch     string
}{
	{"model.layers.", "llama"},
	{"transformer.h.", "gpt2"},
	{"encoder.layer.", "bert"},
	{"blk.", "llama"},
	{"visual.blocks.", "vision-transformer"},
	{"decoder.layers.", "seq2seq"},
}

// detectArchitecture guesses the model family from tensor names.
// Containers without an explicit architecture field (safetensors, ONNX)
// still follow well-known naming conventions per exporting framework.
func detectArchitecture(tensorNames []string) string {
	for _, pattern := range namePatterns {
		for _, name := range tensorNames {
			if strings.Contains(name, pattern.fragment) {
				return pattern.arch
			}
		}
	}
	return ""
}

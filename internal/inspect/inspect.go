// Package inspect builds an x-ray report from an opened model checkpoint.
//
// Checkpoint formats store flat tensor tables, not module objects, so the
// inspector reconstructs the module view: it groups tensors under the module
// path implied by their names and infers a class for each module from the
// shapes of its parameters (or, for ONNX, from the op that consumes them).
package inspect

import (
	"sort"
	"strings"

	"github.com/rrroooyyywang/Model-Xray/internal/loader"
	"github.com/rrroooyyywang/Model-Xray/internal/report"
)

// paramLeaves are the trailing name segments that mark a tensor as a
// parameter (or buffer) of the module named by the rest of the path.
var paramLeaves = map[string]bool{
	"weight":              true,
	"bias":                true,
	"gamma":               true,
	"beta":                true,
	"running_mean":        true,
	"running_var":         true,
	"num_batches_tracked": true,
}

// opTyper is implemented by models that know which graph op consumes each
// tensor (currently ONNX). When available, the consuming op names the
// module class directly.
type opTyper interface {
	OpTypeByInput() map[string]string
}

// BuildReport assembles the full x-ray of an opened model.
func BuildReport(m loader.Model) *report.Report {
	tensors := m.Tensors()

	params := make([]report.Param, 0, len(tensors))
	for _, t := range tensors {
		params = append(params, report.Param{Name: t.Name, Shape: t.Shape, DType: t.DType})
	}

	var ops map[string]string
	if ot, ok := m.(opTyper); ok {
		ops = ot.OpTypeByInput()
	}

	return &report.Report{
		Format:       m.Format().String(),
		File:         m.Path(),
		SizeBytes:    m.Size(),
		Architecture: m.Architecture(),
		Config:       m.Metadata(),
		Modules:      InferModules(tensors, ops),
		Params:       params,
	}
}

// module accumulates the parameters seen under one module path.
type module struct {
	shapes map[string][]int64 // leaf name -> shape
	op     string             // consuming op type, when known
}

// InferModules reconstructs the module table from flat tensor descriptors.
// ops optionally maps tensor names to the op type consuming them.
func InferModules(tensors []loader.TensorMeta, ops map[string]string) []report.Record {
	modules := make(map[string]*module)

	for _, t := range tensors {
		path, leaf := splitModulePath(t.Name)
		mod, ok := modules[path]
		if !ok {
			mod = &module{shapes: make(map[string][]int64)}
			modules[path] = mod
		}
		mod.shapes[leaf] = t.Shape
		if mod.op == "" {
			mod.op = ops[t.Name]
		}
	}

	records := make([]report.Record, 0, len(modules))
	for path, mod := range modules {
		records = append(records, report.Record{Path: path, Class: classify(path, mod)})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records
}

// splitModulePath splits a tensor name into its module path and parameter
// leaf. A tensor whose last segment is not a known parameter name is a
// module of its own with an implicit "weight" leaf.
func splitModulePath(name string) (path, leaf string) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return name, "weight"
	}
	last := name[idx+1:]
	if !paramLeaves[last] {
		return name, "weight"
	}
	return name[:idx], last
}

// classify names the module class. The consuming op wins when known;
// otherwise parameter shapes decide.
func classify(path string, mod *module) string {
	if mod.op != "" {
		return mod.op
	}

	weight, hasWeight := mod.shapes["weight"]
	_, hasBias := mod.shapes["bias"]
	_, hasRunningMean := mod.shapes["running_mean"]

	if hasRunningMean {
		return "BatchNorm"
	}

	if hasWeight {
		switch len(weight) {
		case 4:
			return "Conv2d"
		case 3:
			return "Conv1d"
		case 2:
			if isEmbeddingPath(path) {
				return "Embedding"
			}
			return "Linear"
		case 1:
			if hasBias {
				return "LayerNorm"
			}
			return "RMSNorm"
		}
	}

	return "Module"
}

// isEmbeddingPath reports whether a module path names an embedding table.
// Covers the common conventions: HF "embed_tokens"/"embeddings", GPT-2
// "wte"/"wpe", llama.cpp "token_embd".
func isEmbeddingPath(path string) bool {
	lower := strings.ToLower(path)
	if strings.Contains(lower, "embed") || strings.Contains(lower, "embd") {
		return true
	}
	last := lower
	if idx := strings.LastIndex(lower, "."); idx >= 0 {
		last = lower[idx+1:]
	}
	return last == "wte" || last == "wpe"
}

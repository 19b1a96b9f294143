package loader

import (
	"fmt"
	"os"
	"sort"

	"github.com/rrroooyyywang/Model-Xray/internal/onnx"
)

// onnxModel adapts a parsed ONNX graph to the Model interface.
type onnxModel struct {
	path  string
	size  int64
	model *onnx.Model
}

func openONNX(path string) (Model, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	model, err := onnx.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse ONNX: %w", err)
	}

	return &onnxModel{path: path, size: stat.Size(), model: model}, nil
}

func (m *onnxModel) Format() ModelFormat { return FormatONNX }

func (m *onnxModel) Architecture() string {
	names := make([]string, 0, len(m.model.Graph.Initializers))
	for _, init := range m.model.Graph.Initializers {
		names = append(names, init.Name)
	}
	return detectArchitecture(names)
}

func (m *onnxModel) Metadata() map[string]string {
	out := make(map[string]string, len(m.model.Metadata)+6)
	for k, v := range m.model.Metadata {
		out[k] = v
	}
	if m.model.ProducerName != "" {
		out["producer_name"] = m.model.ProducerName
	}
	if m.model.ProducerVersion != "" {
		out["producer_version"] = m.model.ProducerVersion
	}
	if m.model.Domain != "" {
		out["domain"] = m.model.Domain
	}
	if m.model.Graph.Name != "" {
		out["graph_name"] = m.model.Graph.Name
	}
	out["ir_version"] = fmt.Sprintf("%d", m.model.IRVersion)
	out["opset_version"] = fmt.Sprintf("%d", m.model.OpsetVersion)
	return out
}

func (m *onnxModel) Tensors() []TensorMeta {
	tensors := make([]TensorMeta, 0, len(m.model.Graph.Initializers))
	for _, init := range m.model.Graph.Initializers {
		tensors = append(tensors, TensorMeta{
			Name:  init.Name,
			Shape: init.Dims,
			DType: onnx.DataTypeName(init.DataType),
		})
	}
	sort.Slice(tensors, func(i, j int) bool { return tensors[i].Name < tensors[j].Name })
	return tensors
}

// OpTypeByInput maps each initializer name to the op type of the node that
// consumes it. The inspector uses this to name module classes precisely
// instead of guessing from shapes.
func (m *onnxModel) OpTypeByInput() map[string]string {
	ops := make(map[string]string)
	for _, node := range m.model.Graph.Nodes {
		for _, input := range node.Inputs {
			if _, ok := ops[input]; !ok {
				ops[input] = node.OpType
			}
		}
	}
	return ops
}

func (m *onnxModel) Path() string { return m.path }

func (m *onnxModel) Size() int64 { return m.size }

func (m *onnxModel) Close() error { return nil }

package loader

import (
	"fmt"
	"sort"

	"github.com/rrroooyyywang/Model-Xray/internal/gguf"
)

// ggufModel adapts a parsed GGUF file to the Model interface.
type ggufModel struct {
	file *gguf.File
}

func openGGUF(path string) (Model, error) {
	file, err := gguf.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse GGUF: %w", err)
	}
	return &ggufModel{file: file}, nil
}

func (m *ggufModel) Format() ModelFormat { return FormatGGUF }

func (m *ggufModel) Architecture() string { return m.file.Architecture() }

// Metadata flattens the GGUF metadata to strings. Large arrays (token
// vocabularies, merge tables) are summarized as a type and length instead of
// dumped; they would drown the config section otherwise.
func (m *ggufModel) Metadata() map[string]string {
	out := make(map[string]string, len(m.file.Metadata))
	for key, value := range m.file.Metadata {
		out[key] = metadataString(value)
	}
	return out
}

func metadataString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		if len(v) > 8 {
			return fmt.Sprintf("[%d strings]", len(v))
		}
		return fmt.Sprintf("%v", v)
	case []uint8, []int8, []uint16, []int16, []uint32, []int32,
		[]uint64, []int64, []float32, []float64, []bool:
		return summarizeArray(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func summarizeArray(v interface{}) string {
	length := 0
	switch a := v.(type) {
	case []uint8:
		length = len(a)
	case []int8:
		length = len(a)
	case []uint16:
		length = len(a)
	case []int16:
		length = len(a)
	case []uint32:
		length = len(a)
	case []int32:
		length = len(a)
	case []uint64:
		length = len(a)
	case []int64:
		length = len(a)
	case []float32:
		length = len(a)
	case []float64:
		length = len(a)
	case []bool:
		length = len(a)
	}
	if length > 8 {
		return fmt.Sprintf("[%d values]", length)
	}
	return fmt.Sprintf("%v", v)
}

// Tensors converts GGUF tensor descriptors to the unified form.
// GGUF stores dimensions innermost-first; they are reversed here so shapes
// read the same way as in safetensors and ONNX reports.
func (m *ggufModel) Tensors() []TensorMeta {
	tensors := make([]TensorMeta, 0, len(m.file.TensorInfo))
	for i := range m.file.TensorInfo {
		info := &m.file.TensorInfo[i]
		shape := make([]int64, len(info.Dimensions))
		for j, d := range info.Dimensions {
			shape[len(info.Dimensions)-1-j] = int64(d) //nolint:gosec // G115: real tensor dims fit in int64.
		}
		tensors = append(tensors, TensorMeta{
			Name:  info.Name,
			Shape: shape,
			DType: info.Type.String(),
		})
	}
	sort.Slice(tensors, func(i, j int) bool { return tensors[i].Name < tensors[j].Name })
	return tensors
}

func (m *ggufModel) Path() string { return m.file.FilePath }

func (m *ggufModel) Size() int64 { return m.file.FileSize }

func (m *ggufModel) Close() error { return nil }

// Package loader opens model checkpoint files and exposes the structural
// metadata an x-ray needs: tensor names, shapes, dtypes, and whatever
// configuration the container format carries.
//
// Supported formats:
//   - SafeTensors (Hugging Face standard): JSON header, read in one shot
//   - GGUF (llama.cpp ecosystem): header + metadata + tensor descriptors
//   - ONNX: protobuf graph structure, initializers only
//
// Tensor payloads are never read. Opening a 70B-parameter checkpoint costs
// the same as opening a toy model.
package loader

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ModelFormat identifies the checkpoint container format.
type ModelFormat int

// Supported model formats.
const (
	FormatUnknown ModelFormat = iota
	FormatSafeTensors
	FormatGGUF
	FormatONNX
)

// String returns the format name as written into reports.
func (f ModelFormat) String() string {
	switch f {
	case FormatSafeTensors:
		return "SafeTensors"
	case FormatGGUF:
		return "GGUF"
	case FormatONNX:
		return "ONNX"
	default:
		return "Unknown"
	}
}

// TensorMeta describes one tensor: everything the x-ray reports about it.
type TensorMeta struct {
	Name  string
	Shape []int64
	DType string
}

// Model is the unified, format-independent view of an opened checkpoint.
type Model interface {
	// Format returns the container format.
	Format() ModelFormat

	// Architecture returns the detected architecture name ("llama",
	// "gpt2", ...) or "" when detection fails.
	Architecture() string

	// Metadata returns the model configuration the container carries,
	// flattened to strings.
	Metadata() map[string]string

	// Tensors returns all tensor descriptors, sorted by name.
	Tensors() []TensorMeta

	// Path returns the file path the model was opened from.
	Path() string

	// Size returns the file size in bytes.
	Size() int64

	// Close releases the underlying file, if still held.
	Close() error
}

// DetectFormat guesses the container format from the file extension.
func DetectFormat(path string) ModelFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".safetensors":
		return FormatSafeTensors
	case ".gguf":
		return FormatGGUF
	case ".onnx":
		return FormatONNX
	default:
		return FormatUnknown
	}
}

// Open opens a checkpoint file, auto-detecting the format by extension.
func Open(path string) (Model, error) {
	return OpenFormat(path, DetectFormat(path))
}

// OpenFormat opens a checkpoint file as the given format.
// FormatUnknown falls back to extension detection.
func OpenFormat(path string, format ModelFormat) (Model, error) {
	if format == FormatUnknown {
		format = DetectFormat(path)
	}
	switch format {
	case FormatSafeTensors:
		return openSafeTensors(path)
	case FormatGGUF:
		return openGGUF(path)
	case FormatONNX:
		return openONNX(path)
	default:
		return nil, fmt.Errorf("unsupported model format for %q (expected .safetensors, .gguf or .onnx)", path)
	}
}

// ParseFormat converts a --format flag value to a ModelFormat.
// "auto" and "" mean extension detection.
func ParseFormat(s string) (ModelFormat, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatUnknown, nil
	case "safetensors":
		return FormatSafeTensors, nil
	case "gguf":
		return FormatGGUF, nil
	case "onnx":
		return FormatONNX, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown format %q (expected auto, safetensors, gguf or onnx)", s)
	}
}

// Package gguf parses GGUF file structure for model introspection.
//
// GGUF (GGML Universal Format) is the file format used by llama.cpp for
// storing quantized LLM models. Only the header, metadata key-value pairs
// and tensor descriptors are read; tensor payloads are never touched, so
// x-raying a multi-gigabyte model costs a few kilobytes of I/O.
//
// Specification: https://github.com/ggerganov/ggml/blob/master/docs/gguf.md
package gguf

import "fmt"

// Magic bytes for GGUF format.
const (
	MagicGGUFLE uint32 = 0x46554747 // "GGUF" little-endian.
	MagicGGUFBE uint32 = 0x47475546 // "GGUF" big-endian (reversed).
)

// Supported format versions.
const (
	Version1 uint32 = 1
	Version2 uint32 = 2
	Version3 uint32 = 3 // Current version.
)

// DefaultAlignment is the default alignment for tensor data.
const DefaultAlignment = 32

// ValueType identifies the type of a metadata value.
type ValueType uint32

// Metadata value types as defined in the GGUF specification.
const (
	ValueTypeUint8   ValueType = 0
	ValueTypeInt8    ValueType = 1
	ValueTypeUint16  ValueType = 2
	ValueTypeInt16   ValueType = 3
	ValueTypeUint32  ValueType = 4
	ValueTypeInt32   ValueType = 5
	ValueTypeFloat32 ValueType = 6
	ValueTypeBool    ValueType = 7
	ValueTypeString  ValueType = 8
	ValueTypeArray   ValueType = 9
	ValueTypeUint64  ValueType = 10
	ValueTypeInt64   ValueType = 11
	ValueTypeFloat64 ValueType = 12
)

var valueTypeNames = map[ValueType]string{
	ValueTypeUint8:   "uint8",
	ValueTypeInt8:    "int8",
	ValueTypeUint16:  "uint16",
	ValueTypeInt16:   "int16",
	ValueTypeUint32:  "uint32",
	ValueTypeInt32:   "int32",
	ValueTypeFloat32: "float32",
	ValueTypeBool:    "bool",
	ValueTypeString:  "string",
	ValueTypeArray:   "array",
	ValueTypeUint64:  "uint64",
	ValueTypeInt64:   "int64",
	ValueTypeFloat64: "float64",
}

// String returns the string representation of the value type.
func (t ValueType) String() string {
	if name, ok := valueTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", t)
}

// TensorType represents the element type of a tensor, including the
// quantization formats.
type TensorType uint32

// GGML tensor types.
// Note: Names use underscores to match the GGML specification exactly.
//
//nolint:revive // Underscores in names match GGML specification.
const (
	TypeF32  TensorType = 0
	TypeF16  TensorType = 1
	TypeQ4_0 TensorType = 2
	TypeQ4_1 TensorType = 3
	// Types 4, 5 are deprecated (Q4_2, Q4_3).
	TypeQ5_0    TensorType = 6
	TypeQ5_1    TensorType = 7
	TypeQ8_0    TensorType = 8
	TypeQ8_1    TensorType = 9
	TypeQ2_K    TensorType = 10
	TypeQ3_K    TensorType = 11
	TypeQ4_K    TensorType = 12
	TypeQ5_K    TensorType = 13
	TypeQ6_K    TensorType = 14
	TypeQ8_K    TensorType = 15
	TypeIQ2_XXS TensorType = 16
	TypeIQ2_XS  TensorType = 17
	TypeIQ3_XXS TensorType = 18
	TypeIQ1_S   TensorType = 19
	TypeIQ4_NL  TensorType = 20
	TypeIQ3_S   TensorType = 21
	TypeIQ2_S   TensorType = 22
	TypeIQ4_XS  TensorType = 23
	TypeI8      TensorType = 24
	TypeI16     TensorType = 25
	TypeI32     TensorType = 26
	TypeI64     TensorType = 27
	TypeF64     TensorType = 28
	TypeBF16    TensorType = 29
)

var tensorTypeNames = map[TensorType]string{
	TypeF32:     "F32",
	TypeF16:     "F16",
	TypeQ4_0:    "Q4_0",
	TypeQ4_1:    "Q4_1",
	TypeQ5_0:    "Q5_0",
	TypeQ5_1:    "Q5_1",
	TypeQ8_0:    "Q8_0",
	TypeQ8_1:    "Q8_1",
	TypeQ2_K:    "Q2_K",
	TypeQ3_K:    "Q3_K",
	TypeQ4_K:    "Q4_K",
	TypeQ5_K:    "Q5_K",
	TypeQ6_K:    "Q6_K",
	TypeQ8_K:    "Q8_K",
	TypeIQ2_XXS: "IQ2_XXS",
	TypeIQ2_XS:  "IQ2_XS",
	TypeIQ3_XXS: "IQ3_XXS",
	TypeIQ1_S:   "IQ1_S",
	TypeIQ4_NL:  "IQ4_NL",
	TypeIQ3_S:   "IQ3_S",
	TypeIQ2_S:   "IQ2_S",
	TypeIQ4_XS:  "IQ4_XS",
	TypeI8:      "I8",
	TypeI16:     "I16",
	TypeI32:     "I32",
	TypeI64:     "I64",
	TypeF64:     "F64",
	TypeBF16:    "BF16",
}

// String returns the GGML name of the tensor type (e.g., "Q4_K").
func (t TensorType) String() string {
	if name, ok := tensorTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", t)
}

// Header is the fixed GGUF file header.
type Header struct {
	Magic           uint32
	Version         uint32
	TensorCount     uint64
	MetadataKVCount uint64
}

// TensorInfo describes one tensor in the file.
type TensorInfo struct {
	Name       string
	Dimensions []uint64
	Type       TensorType
	Offset     uint64 // Offset from start of tensor data section.
}

// NumElements returns the total number of elements in the tensor.
func (t *TensorInfo) NumElements() uint64 {
	if len(t.Dimensions) == 0 {
		return 0
	}
	n := uint64(1)
	for _, d := range t.Dimensions {
		n *= d
	}
	return n
}

// File is the parsed structure of a GGUF file, tensor data excluded.
type File struct {
	Header     Header
	Metadata   map[string]interface{}
	TensorInfo []TensorInfo
	Alignment  int

	FilePath string
	FileSize int64
}

// Architecture returns the model architecture (e.g., "llama", "qwen2"),
// or "" when the file does not declare one.
func (f *File) Architecture() string {
	if arch, ok := f.Metadata["general.architecture"].(string); ok {
		return arch
	}
	return ""
}

// Name returns the model name declared in the metadata, if any.
func (f *File) Name() string {
	if name, ok := f.Metadata["general.name"].(string); ok {
		return name
	}
	return ""
}

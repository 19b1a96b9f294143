// Package onnx parses ONNX model structure for introspection.
//
// It implements a hand-written decoder for the small subset of the ONNX
// protobuf schema an x-ray needs: model/graph identity, node names and op
// types, and initializer (weight) names with shapes. Attribute payloads and
// tensor data are skipped, so parsing stays cheap even for large models.
package onnx

import "fmt"

// Model is the decoded subset of an ONNX ModelProto.
type Model struct {
	IRVersion       int64
	OpsetVersion    int64
	ProducerName    string
	ProducerVersion string
	Domain          string
	ModelVersion    int64
	Graph           Graph
	Metadata        map[string]string
}

// Graph is the decoded subset of a GraphProto.
type Graph struct {
	Name         string
	Nodes        []Node
	Initializers []TensorInfo
	InputNames   []string
	OutputNames  []string
}

// Node is one operation in the graph.
type Node struct {
	Name    string
	OpType  string
	Inputs  []string
	Outputs []string
}

// TensorInfo describes an initializer tensor: its name, shape and element
// type. Data is never decoded.
type TensorInfo struct {
	Name     string
	Dims     []int64
	DataType int32
}

// ONNX element data types (TensorProto.DataType).
const (
	DataTypeFloat    int32 = 1
	DataTypeUint8    int32 = 2
	DataTypeInt8     int32 = 3
	DataTypeUint16   int32 = 4
	DataTypeInt16    int32 = 5
	DataTypeInt32    int32 = 6
	DataTypeInt64    int32 = 7
	DataTypeString   int32 = 8
	DataTypeBool     int32 = 9
	DataTypeFloat16  int32 = 10
	DataTypeDouble   int32 = 11
	DataTypeUint32   int32 = 12
	DataTypeUint64   int32 = 13
	DataTypeBfloat16 int32 = 16
)

var dataTypeNames = map[int32]string{
	DataTypeFloat:    "F32",
	DataTypeUint8:    "U8",
	DataTypeInt8:     "I8",
	DataTypeUint16:   "U16",
	DataTypeInt16:    "I16",
	DataTypeInt32:    "I32",
	DataTypeInt64:    "I64",
	DataTypeString:   "STRING",
	DataTypeBool:     "BOOL",
	DataTypeFloat16:  "F16",
	DataTypeDouble:   "F64",
	DataTypeUint32:   "U32",
	DataTypeUint64:   "U64",
	DataTypeBfloat16: "BF16",
}

// DataTypeName returns the short dtype name used in reports.
func DataTypeName(dt int32) string {
	if name, ok := dataTypeNames[dt]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", dt)
}

package loader

import (
	"testing"

	"github.com/rrroooyyywang/Model-Xray/internal/onnx"
)

func testONNXModel() *onnxModel {
	return &onnxModel{
		path: "net.onnx",
		size: 42,
		model: &onnx.Model{
			IRVersion:    8,
			ProducerName: "pytorch",
			OpsetVersion: 17,
			Metadata:     map[string]string{"license": "mit"},
			Graph: onnx.Graph{
				Name: "main_graph",
				Nodes: []onnx.Node{
					{OpType: "Conv", Inputs: []string{"input", "conv1.weight", "conv1.bias"}},
					{OpType: "Gemm", Inputs: []string{"pool", "fc.weight", "fc.bias"}},
				},
				Initializers: []onnx.TensorInfo{
					{Name: "fc.weight", Dims: []int64{10, 512}, DataType: onnx.DataTypeFloat},
					{Name: "conv1.weight", Dims: []int64{64, 3, 7, 7}, DataType: onnx.DataTypeFloat},
				},
			},
		},
	}
}

func TestONNXModel_Metadata(t *testing.T) {
	meta := testONNXModel().Metadata()

	if meta["producer_name"] != "pytorch" {
		t.Errorf("producer_name = %q", meta["producer_name"])
	}
	if meta["ir_version"] != "8" {
		t.Errorf("ir_version = %q, want 8", meta["ir_version"])
	}
	if meta["opset_version"] != "17" {
		t.Errorf("opset_version = %q, want 17", meta["opset_version"])
	}
	if meta["graph_name"] != "main_graph" {
		t.Errorf("graph_name = %q", meta["graph_name"])
	}
	if meta["license"] != "mit" {
		t.Errorf("license = %q", meta["license"])
	}
}

func TestONNXModel_Tensors(t *testing.T) {
	tensors := testONNXModel().Tensors()

	if len(tensors) != 2 {
		t.Fatalf("len(Tensors) = %d, want 2", len(tensors))
	}
	if tensors[0].Name != "conv1.weight" {
		t.Errorf("Tensors[0].Name = %q, want conv1.weight", tensors[0].Name)
	}
	if tensors[0].DType != "F32" {
		t.Errorf("DType = %q, want F32", tensors[0].DType)
	}
	if len(tensors[1].Shape) != 2 || tensors[1].Shape[0] != 10 {
		t.Errorf("Shape = %v, want [10 512]", tensors[1].Shape)
	}
}

func TestONNXModel_OpTypeByInput(t *testing.T) {
	ops := testONNXModel().OpTypeByInput()

	if ops["conv1.weight"] != "Conv" {
		t.Errorf("conv1.weight consumed by %q, want Conv", ops["conv1.weight"])
	}
	if ops["fc.weight"] != "Gemm" {
		t.Errorf("fc.weight consumed by %q, want Gemm", ops["fc.weight"])
	}
	if _, ok := ops["absent"]; ok {
		t.Error("unexpected entry for unknown tensor")
	}
}

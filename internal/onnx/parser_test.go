package onnx

import (
	"bytes"
	"testing"
)

// pb is a tiny protobuf wire-format encoder for building test fixtures.
type pb struct {
	buf bytes.Buffer
}

func (p *pb) varint(v uint64) {
	for v >= 0x80 {
		p.buf.WriteByte(byte(v) | 0x80)
		v >>= 7
	}
	p.buf.WriteByte(byte(v))
}

func (p *pb) tag(field, wire int) {
	p.varint(uint64(field)<<3 | uint64(wire))
}

func (p *pb) varintField(field int, v int64) {
	p.tag(field, wireVarint)
	p.varint(uint64(v)) //nolint:gosec // Test values are non-negative.
}

func (p *pb) bytesField(field int, data []byte) {
	p.tag(field, wireBytes)
	p.varint(uint64(len(data)))
	p.buf.Write(data)
}

func (p *pb) stringField(field int, s string) {
	p.bytesField(field, []byte(s))
}

func (p *pb) messageField(field int, build func(*pb)) {
	sub := &pb{}
	build(sub)
	p.bytesField(field, sub.buf.Bytes())
}

// buildTestModel encodes a two-layer ONNX model with one Gemm node.
func buildTestModel() []byte {
	m := &pb{}
	m.varintField(1, 8)           // ir_version
	m.stringField(2, "pytorch")   // producer_name
	m.stringField(3, "2.1")       // producer_version
	m.messageField(8, func(op *pb) { // opset_import
		op.varintField(2, 17)
	})
	m.messageField(14, func(kv *pb) { // metadata_props
		kv.stringField(1, "license")
		kv.stringField(2, "mit")
	})
	m.messageField(7, func(g *pb) { // graph
		g.stringField(2, "main_graph")
		g.messageField(1, func(n *pb) { // node
			n.stringField(1, "input")
			n.stringField(1, "fc.weight")
			n.stringField(1, "fc.bias")
			n.stringField(2, "output")
			n.stringField(3, "fc_gemm")
			n.stringField(4, "Gemm")
		})
		g.messageField(5, func(init *pb) { // initializer, packed dims
			dims := &pb{}
			dims.varint(10)
			dims.varint(20)
			init.bytesField(1, dims.buf.Bytes())
			init.varintField(2, int64(DataTypeFloat))
			init.stringField(8, "fc.weight")
		})
		g.messageField(5, func(init *pb) { // initializer, unpacked dim
			init.varintField(1, 10)
			init.varintField(2, int64(DataTypeFloat))
			init.stringField(8, "fc.bias")
		})
		g.messageField(11, func(vi *pb) { // input
			vi.stringField(1, "input")
		})
		g.messageField(12, func(vi *pb) { // output
			vi.stringField(1, "output")
		})
	})
	return m.buf.Bytes()
}

func TestParse(t *testing.T) {
	model, err := Parse(buildTestModel())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if model.IRVersion != 8 {
		t.Errorf("IRVersion = %d, want 8", model.IRVersion)
	}
	if model.ProducerName != "pytorch" {
		t.Errorf("ProducerName = %q, want pytorch", model.ProducerName)
	}
	if model.OpsetVersion != 17 {
		t.Errorf("OpsetVersion = %d, want 17", model.OpsetVersion)
	}
	if model.Metadata["license"] != "mit" {
		t.Errorf("Metadata[license] = %q, want mit", model.Metadata["license"])
	}
}

func TestParse_Graph(t *testing.T) {
	model, err := Parse(buildTestModel())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	g := model.Graph

	if g.Name != "main_graph" {
		t.Errorf("Name = %q, want main_graph", g.Name)
	}

	if len(g.Nodes) != 1 {
		t.Fatalf("len(Nodes) = %d, want 1", len(g.Nodes))
	}
	node := g.Nodes[0]
	if node.OpType != "Gemm" {
		t.Errorf("OpType = %q, want Gemm", node.OpType)
	}
	if len(node.Inputs) != 3 || node.Inputs[1] != "fc.weight" {
		t.Errorf("Inputs = %v, want [input fc.weight fc.bias]", node.Inputs)
	}

	if len(g.Initializers) != 2 {
		t.Fatalf("len(Initializers) = %d, want 2", len(g.Initializers))
	}
	w := g.Initializers[0]
	if w.Name != "fc.weight" {
		t.Errorf("Name = %q, want fc.weight", w.Name)
	}
	if len(w.Dims) != 2 || w.Dims[0] != 10 || w.Dims[1] != 20 {
		t.Errorf("Dims = %v, want [10 20] (packed encoding)", w.Dims)
	}
	b := g.Initializers[1]
	if len(b.Dims) != 1 || b.Dims[0] != 10 {
		t.Errorf("Dims = %v, want [10] (unpacked encoding)", b.Dims)
	}

	if len(g.InputNames) != 1 || g.InputNames[0] != "input" {
		t.Errorf("InputNames = %v, want [input]", g.InputNames)
	}
	if len(g.OutputNames) != 1 || g.OutputNames[0] != "output" {
		t.Errorf("OutputNames = %v, want [output]", g.OutputNames)
	}
}

func TestParse_SkipsUnknownFields(t *testing.T) {
	m := &pb{}
	m.varintField(1, 9)
	m.stringField(99, "future field") // unknown, must be skipped
	m.varintField(5, 42)              // model_version

	model, err := Parse(m.buf.Bytes())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if model.IRVersion != 9 || model.ModelVersion != 42 {
		t.Errorf("got ir=%d version=%d, want 9 and 42", model.IRVersion, model.ModelVersion)
	}
}

func TestParse_TruncatedMessage(t *testing.T) {
	data := buildTestModel()
	if _, err := Parse(data[:len(data)-5]); err == nil {
		t.Fatal("expected error for truncated input")
	}
}

func TestDataTypeName(t *testing.T) {
	if got := DataTypeName(DataTypeFloat); got != "F32" {
		t.Errorf("DataTypeName(1) = %q, want F32", got)
	}
	if got := DataTypeName(999); got != "unknown(999)" {
		t.Errorf("DataTypeName(999) = %q, want unknown(999)", got)
	}
}

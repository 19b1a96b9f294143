package onnx

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ParseFile parses an ONNX model file from disk.
//
//nolint:gosec // G304: path comes from the CLI user, opening it is the point.
func ParseFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes an ONNX model from protobuf bytes.
func Parse(data []byte) (*Model, error) {
	p := &parser{data: data}
	model := &Model{Metadata: make(map[string]string)}
	if err := p.readModel(model); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	return model, nil
}

// parser is a minimal protobuf wire format decoder.
type parser struct {
	data []byte
	pos  int
}

// Protobuf wire types.
const (
	wireVarint = 0
	wire64Bit  = 1
	wireBytes  = 2
	wire32Bit  = 5
)

func (p *parser) readModel(m *Model) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // ir_version
			m.IRVersion, err = p.readVarint()
		case 2: // producer_name
			m.ProducerName, err = p.readStringField()
		case 3: // producer_version
			m.ProducerVersion, err = p.readStringField()
		case 4: // domain
			m.Domain, err = p.readStringField()
		case 5: // model_version
			m.ModelVersion, err = p.readVarint()
		case 7: // graph
			err = p.readSub(func(sub *parser) error { return sub.readGraph(&m.Graph) })
		case 8: // opset_import
			err = p.readSub(func(sub *parser) error {
				version, domain, err2 := sub.readOperatorSet()
				if err2 != nil {
					return err2
				}
				// The default-domain opset identifies the model's op version.
				if domain == "" || m.OpsetVersion == 0 {
					m.OpsetVersion = version
				}
				return nil
			})
		case 14: // metadata_props
			err = p.readSub(func(sub *parser) error {
				key, value, err2 := sub.readStringPair()
				if err2 != nil {
					return err2
				}
				m.Metadata[key] = value
				return nil
			})
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readGraph(g *Graph) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // node
			err = p.readSub(func(sub *parser) error {
				var node Node
				if err2 := sub.readNode(&node); err2 != nil {
					return err2
				}
				g.Nodes = append(g.Nodes, node)
				return nil
			})
		case 2: // name
			g.Name, err = p.readStringField()
		case 5: // initializer
			err = p.readSub(func(sub *parser) error {
				var info TensorInfo
				if err2 := sub.readTensorInfo(&info); err2 != nil {
					return err2
				}
				g.Initializers = append(g.Initializers, info)
				return nil
			})
		case 11: // input
			err = p.readSub(func(sub *parser) error {
				name, err2 := sub.readValueInfoName()
				if err2 != nil {
					return err2
				}
				g.InputNames = append(g.InputNames, name)
				return nil
			})
		case 12: // output
			err = p.readSub(func(sub *parser) error {
				name, err2 := sub.readValueInfoName()
				if err2 != nil {
					return err2
				}
				g.OutputNames = append(g.OutputNames, name)
				return nil
			})
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readNode(n *Node) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // input
			var s string
			s, err = p.readStringField()
			n.Inputs = append(n.Inputs, s)
		case 2: // output
			var s string
			s, err = p.readStringField()
			n.Outputs = append(n.Outputs, s)
		case 3: // name
			n.Name, err = p.readStringField()
		case 4: // op_type
			n.OpType, err = p.readStringField()
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) readTensorInfo(t *TensorInfo) error {
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		switch fieldNum {
		case 1: // dims: packed (bytes) or unpacked (varint) encoding
			if wireType == wireBytes {
				err = p.readSub(func(sub *parser) error {
					for sub.pos < len(sub.data) {
						d, err2 := sub.readVarint()
						if err2 != nil {
							return err2
						}
						t.Dims = append(t.Dims, d)
					}
					return nil
				})
			} else {
				var d int64
				d, err = p.readVarint()
				t.Dims = append(t.Dims, d)
			}
		case 2: // data_type
			var v int64
			v, err = p.readVarint()
			t.DataType = int32(v) //nolint:gosec // G115: ONNX data types fit in int32.
		case 8: // name
			t.Name, err = p.readStringField()
		default:
			err = p.skipField(wireType)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

// readValueInfoName reads only the name out of a ValueInfoProto.
func (p *parser) readValueInfoName() (string, error) {
	var name string
	for p.pos < len(p.data) {
		fieldNum, wireType, err := p.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
		if fieldNum == 1 {
			name, err = p.readStringField()
		} else {
			err = p.skipField(wireType)
		}
		if err != nil {
			return "", err
		}
	}
	return name, nil
}

func (p *parser) readOperatorSet() (version int64, domain string, err error) {
	for p.pos < len(p.data) {
		fieldNum, wireType, err2 := p.readTag()
		if err2 != nil {
			if errors.Is(err2, io.EOF) {
				break
			}
			return 0, "", err2
		}
		switch fieldNum {
		case 1:
			domain, err2 = p.readStringField()
		case 2:
			version, err2 = p.readVarint()
		default:
			err2 = p.skipField(wireType)
		}
		if err2 != nil {
			return 0, "", err2
		}
	}
	return version, domain, nil
}

func (p *parser) readStringPair() (key, value string, err error) {
	for p.pos < len(p.data) {
		fieldNum, wireType, err2 := p.readTag()
		if err2 != nil {
			if errors.Is(err2, io.EOF) {
				break
			}
			return "", "", err2
		}
		switch fieldNum {
		case 1:
			key, err2 = p.readStringField()
		case 2:
			value, err2 = p.readStringField()
		default:
			err2 = p.skipField(wireType)
		}
		if err2 != nil {
			return "", "", err2
		}
	}
	return key, value, nil
}

// readSub decodes a length-delimited submessage with a fresh parser.
func (p *parser) readSub(read func(*parser) error) error {
	data, err := p.readBytes()
	if err != nil {
		return err
	}
	return read(&parser{data: data})
}

// readTag reads a protobuf field tag.
func (p *parser) readTag() (fieldNum, wireType int, err error) {
	if p.pos >= len(p.data) {
		return 0, 0, io.EOF
	}
	tag, err := p.readVarint()
	if err != nil {
		return 0, 0, err
	}
	fieldNum = int(tag >> 3)
	wireType = int(tag & 0x7)
	return fieldNum, wireType, nil
}

// readVarint reads a varint-encoded int64.
func (p *parser) readVarint() (int64, error) {
	var result uint64
	var shift uint
	for {
		if p.pos >= len(p.data) {
			return 0, io.EOF
		}
		b := p.data[p.pos]
		p.pos++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= 64 {
			return 0, errors.New("varint overflow")
		}
	}
	return int64(result), nil //nolint:gosec // G115: Protobuf varint fits in int64.
}

// readBytes reads a length-delimited byte slice.
func (p *parser) readBytes() ([]byte, error) {
	length, err := p.readVarint()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, errors.New("negative length")
	}
	end := p.pos + int(length)
	if end > len(p.data) || end < p.pos {
		return nil, io.ErrUnexpectedEOF
	}
	result := p.data[p.pos:end]
	p.pos = end
	return result, nil
}

func (p *parser) readStringField() (string, error) {
	data, err := p.readBytes()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// skipField skips a field based on wire type.
func (p *parser) skipField(wireType int) error {
	switch wireType {
	case wireVarint:
		_, err := p.readVarint()
		return err
	case wire64Bit:
		if p.pos+8 > len(p.data) {
			return io.ErrUnexpectedEOF
		}
		p.pos += 8
		return nil
	case wireBytes:
		_, err := p.readBytes()
		return err
	case wire32Bit:
		if p.pos+4 > len(p.data) {
			return io.ErrUnexpectedEOF
		}
		p.pos += 4
		return nil
	default:
		return fmt.Errorf("unknown wire type: %d", wireType)
	}
}

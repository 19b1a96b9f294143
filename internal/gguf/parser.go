package gguf

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// maxStringLen caps metadata strings; anything larger means a corrupt file.
const maxStringLen = 64 * 1024 * 1024

// maxArrayLen caps metadata arrays (vocabularies are the largest real case).
const maxArrayLen = 100_000_000

// Parse reads GGUF structure from the given reader.
func Parse(r io.ReadSeeker) (*File, error) {
	p := &parser{
		r:     r,
		order: binary.LittleEndian, // Default until the magic says otherwise.
	}
	return p.parse()
}

// ParseFile parses the structure of a GGUF file on disk.
//
//nolint:gosec // G304: path comes from the CLI user, opening it is the point.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() {
		_ = f.Close() // Read-only file.
	}()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	file, err := Parse(f)
	if err != nil {
		return nil, err
	}

	file.FilePath = path
	file.FileSize = stat.Size()

	return file, nil
}

type parser struct {
	r     io.ReadSeeker
	order binary.ByteOrder
}

func (p *parser) parse() (*File, error) {
	file := &File{
		Metadata:  make(map[string]interface{}),
		Alignment: DefaultAlignment,
	}

	if err := p.parseHeader(&file.Header); err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	for i := uint64(0); i < file.Header.MetadataKVCount; i++ {
		key, value, err := p.parseMetadataKV()
		if err != nil {
			return nil, fmt.Errorf("parse metadata kv %d: %w", i, err)
		}
		file.Metadata[key] = value

		if key == "general.alignment" {
			if align, ok := value.(uint32); ok {
				file.Alignment = int(align)
			}
		}
	}

	file.TensorInfo = make([]TensorInfo, file.Header.TensorCount)
	for i := uint64(0); i < file.Header.TensorCount; i++ {
		if err := p.parseTensorInfo(&file.TensorInfo[i]); err != nil {
			return nil, fmt.Errorf("parse tensor info %d: %w", i, err)
		}
	}

	return file, nil
}

func (p *parser) parseHeader(h *Header) error {
	if err := binary.Read(p.r, p.order, &h.Magic); err != nil {
		return fmt.Errorf("read magic: %w", err)
	}

	switch h.Magic {
	case MagicGGUFLE:
		p.order = binary.LittleEndian
	case MagicGGUFBE:
		p.order = binary.BigEndian
	default:
		return fmt.Errorf("invalid magic: 0x%08X (expected GGUF)", h.Magic)
	}

	if err := binary.Read(p.r, p.order, &h.Version); err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if h.Version < Version1 || h.Version > Version3 {
		return fmt.Errorf("unsupported version: %d (supported: 1-3)", h.Version)
	}

	if err := binary.Read(p.r, p.order, &h.TensorCount); err != nil {
		return fmt.Errorf("read tensor count: %w", err)
	}
	if err := binary.Read(p.r, p.order, &h.MetadataKVCount); err != nil {
		return fmt.Errorf("read metadata kv count: %w", err)
	}

	return nil
}

func (p *parser) parseMetadataKV() (string, interface{}, error) {
	key, err := p.readString()
	if err != nil {
		return "", nil, fmt.Errorf("read key: %w", err)
	}

	var valueType uint32
	if err := binary.Read(p.r, p.order, &valueType); err != nil {
		return "", nil, fmt.Errorf("read value type: %w", err)
	}

	value, err := p.parseValue(ValueType(valueType))
	if err != nil {
		return "", nil, fmt.Errorf("read value for %q: %w", key, err)
	}

	return key, value, nil
}

// parseValue reads a metadata value of the given type.
func (p *parser) parseValue(t ValueType) (interface{}, error) {
	switch t {
	case ValueTypeUint8:
		return readScalar[uint8](p)
	case ValueTypeInt8:
		return readScalar[int8](p)
	case ValueTypeUint16:
		return readScalar[uint16](p)
	case ValueTypeInt16:
		return readScalar[int16](p)
	case ValueTypeUint32:
		return readScalar[uint32](p)
	case ValueTypeInt32:
		return readScalar[int32](p)
	case ValueTypeFloat32:
		return readScalar[float32](p)
	case ValueTypeUint64:
		return readScalar[uint64](p)
	case ValueTypeInt64:
		return readScalar[int64](p)
	case ValueTypeFloat64:
		return readScalar[float64](p)
	case ValueTypeBool:
		v, err := readScalar[uint8](p)
		return v != 0, err
	case ValueTypeString:
		return p.readString()
	case ValueTypeArray:
		return p.parseArray()
	default:
		return nil, fmt.Errorf("unknown value type: %d", t)
	}
}

func (p *parser) parseArray() (interface{}, error) {
	var elemType uint32
	if err := binary.Read(p.r, p.order, &elemType); err != nil {
		return nil, fmt.Errorf("read array element type: %w", err)
	}

	var length uint64
	if err := binary.Read(p.r, p.order, &length); err != nil {
		return nil, fmt.Errorf("read array length: %w", err)
	}
	if length > maxArrayLen {
		return nil, fmt.Errorf("array too large: %d elements", length)
	}

	switch ValueType(elemType) {
	case ValueTypeUint8:
		return readArray[uint8](p, length)
	case ValueTypeInt8:
		return readArray[int8](p, length)
	case ValueTypeUint16:
		return readArray[uint16](p, length)
	case ValueTypeInt16:
		return readArray[int16](p, length)
	case ValueTypeUint32:
		return readArray[uint32](p, length)
	case ValueTypeInt32:
		return readArray[int32](p, length)
	case ValueTypeFloat32:
		return readArray[float32](p, length)
	case ValueTypeUint64:
		return readArray[uint64](p, length)
	case ValueTypeInt64:
		return readArray[int64](p, length)
	case ValueTypeFloat64:
		return readArray[float64](p, length)
	case ValueTypeBool:
		raw, err := readArray[uint8](p, length)
		if err != nil {
			return nil, err
		}
		arr := make([]bool, len(raw))
		for i, v := range raw {
			arr[i] = v != 0
		}
		return arr, nil
	case ValueTypeString:
		arr := make([]string, length)
		for i := range arr {
			s, err := p.readString()
			if err != nil {
				return nil, err
			}
			arr[i] = s
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unsupported array element type: %s", ValueType(elemType))
	}
}

func (p *parser) parseTensorInfo(t *TensorInfo) error {
	name, err := p.readString()
	if err != nil {
		return fmt.Errorf("read tensor name: %w", err)
	}
	t.Name = name

	var ndims uint32
	if err := binary.Read(p.r, p.order, &ndims); err != nil {
		return fmt.Errorf("read ndims: %w", err)
	}
	if ndims > 8 {
		return fmt.Errorf("too many dimensions: %d", ndims)
	}

	t.Dimensions = make([]uint64, ndims)
	for i := uint32(0); i < ndims; i++ {
		if err := binary.Read(p.r, p.order, &t.Dimensions[i]); err != nil {
			return fmt.Errorf("read dimension %d: %w", i, err)
		}
	}

	var tensorType uint32
	if err := binary.Read(p.r, p.order, &tensorType); err != nil {
		return fmt.Errorf("read type: %w", err)
	}
	t.Type = TensorType(tensorType)

	if err := binary.Read(p.r, p.order, &t.Offset); err != nil {
		return fmt.Errorf("read offset: %w", err)
	}

	return nil
}

// readString reads a GGUF string: uint64 length followed by raw bytes.
func (p *parser) readString() (string, error) {
	var length uint64
	if err := binary.Read(p.r, p.order, &length); err != nil {
		return "", err
	}
	if length > maxStringLen {
		return "", fmt.Errorf("string too long: %d bytes", length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(p.r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// scalar covers the fixed-width numeric types GGUF metadata can hold.
type scalar interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 |
		~uint64 | ~int64 | ~float32 | ~float64
}

func readScalar[T scalar](p *parser) (T, error) {
	var v T
	err := binary.Read(p.r, p.order, &v)
	return v, err
}

func readArray[T scalar](p *parser, length uint64) ([]T, error) {
	arr := make([]T, length)
	if err := binary.Read(p.r, p.order, arr); err != nil {
		return nil, err
	}
	return arr, nil
}

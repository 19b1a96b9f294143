package loader

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// SafeTensors format:
// [8 bytes: header_size (uint64 LE)]
// [header_size bytes: JSON header]
// [tensor data: raw bytes]

// maxSafeTensorsHeader caps the JSON header size; real headers are a few
// megabytes at most even for very large models.
const maxSafeTensorsHeader = 100 * 1024 * 1024

// safeTensorInfo is one tensor entry in the JSON header.
type safeTensorInfo struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// safeTensorsHeader is the decoded JSON header: a `__metadata__` object of
// strings plus one entry per tensor.
type safeTensorsHeader struct {
	Metadata map[string]string
	Tensors  map[string]safeTensorInfo
}

func (h *safeTensorsHeader) UnmarshalJSON(data []byte) error {
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return err
	}

	if metadataRaw, ok := rawMap["__metadata__"]; ok {
		if err := json.Unmarshal(metadataRaw, &h.Metadata); err != nil {
			return fmt.Errorf("unmarshal metadata: %w", err)
		}
	}

	h.Tensors = make(map[string]safeTensorInfo)
	for key, value := range rawMap {
		if key == "__metadata__" {
			continue
		}
		var info safeTensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return fmt.Errorf("unmarshal tensor %s: %w", key, err)
		}
		h.Tensors[key] = info
	}

	return nil
}

// safeTensorsModel implements Model for SafeTensors files. The whole header
// is read at open time, so no file handle is retained.
type safeTensorsModel struct {
	path     string
	size     int64
	metadata map[string]string
	tensors  []TensorMeta
	arch     string
}

func openSafeTensors(path string) (Model, error) {
	//nolint:gosec // G304: path comes from the CLI user, opening it is the point.
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() {
		_ = file.Close() // Read-only file.
	}()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	var headerSize uint64
	if err := binary.Read(file, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("read header size: %w", err)
	}
	if headerSize > maxSafeTensorsHeader {
		return nil, fmt.Errorf("invalid header size: %d (too large)", headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(file, headerBytes); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var header safeTensorsHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("parse header JSON: %w", err)
	}

	tensors := make([]TensorMeta, 0, len(header.Tensors))
	names := make([]string, 0, len(header.Tensors))
	for name, info := range header.Tensors {
		tensors = append(tensors, TensorMeta{
			Name:  name,
			Shape: info.Shape,
			DType: info.DType,
		})
		names = append(names, name)
	}
	sort.Slice(tensors, func(i, j int) bool { return tensors[i].Name < tensors[j].Name })

	return &safeTensorsModel{
		path:     path,
		size:     stat.Size(),
		metadata: header.Metadata,
		tensors:  tensors,
		arch:     detectArchitecture(names),
	}, nil
}

func (m *safeTensorsModel) Format() ModelFormat { return FormatSafeTensors }

func (m *safeTensorsModel) Architecture() string { return m.arch }

func (m *safeTensorsModel) Metadata() map[string]string {
	out := make(map[string]string, len(m.metadata))
	for k, v := range m.metadata {
		out[k] = v
	}
	return out
}

func (m *safeTensorsModel) Tensors() []TensorMeta { return m.tensors }

func (m *safeTensorsModel) Path() string { return m.path }

func (m *safeTensorsModel) Size() int64 { return m.size }

func (m *safeTensorsModel) Close() error { return nil }

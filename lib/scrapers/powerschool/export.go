package powerschool

import (
	"bytes"
	"compress/zlib"
	"encoding/json"
)

// ExportJSON renders the student model as indented snake_case JSON,
// the same shape the legacy mobile consumers read.
func ExportJSON(s *Student) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// ExportCompressedJSON is ExportJSON compressed with zlib at maximum
// strength, for consumers that store or ship the payload.
func ExportCompressedJSON(s *Student) ([]byte, error) {
	data, err := ExportJSON(s)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

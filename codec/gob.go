package codec

import (
	"bytes"
	"encoding/gob"
)

// Gob is a codec backed by encoding/gob. It is denser than JSON for
// numeric-heavy payloads but Go-specific.
type Gob struct{}

// Marshal encodes the value with gob.
func (Gob) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes the gob data into v.
func (Gob) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// Name returns the unique name of the codec ("gob").
func (Gob) Name() string { return "gob" }

// Package codec centralizes payload encoding for snapshots.
//
// Snapshot files store the codec name in their manifest; when loading, the
// codec is selected by name, so renaming a codec is a breaking change for
// existing snapshots.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = JSON{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "gob":
		return Gob{}, true
	default:
		return nil, false
	}
}

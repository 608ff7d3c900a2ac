package stateful

import (
	"bytes"
	"encoding/json"
	"io"
)

// Codec determines how states is encoded.
type Codec interface {
	Encode(w io.Writer, data map[string]any) error
	Decode(r io.Reader) (map[string]any, error)
}

// JSONCodec encodes states as a single JSON object.
type JSONCodec struct {
	Indent bool
}

// Encode writes the data map as JSON to the provided writer
func (c JSONCodec) Encode(w io.Writer, data map[string]any) error {
	encoder := json.NewEncoder(w)
	if c.Indent {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(data)
}

// Decode reads JSON data from the reader and returns it as a map
func (c JSONCodec) Decode(r io.Reader) (map[string]any, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var data map[string]any

	err := decoder.Decode(&data)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// Convert moves a decoded field map into a typed value (and back) by
// round-tripping through JSON. States use it to implement Serialize and
// Deserialize without hand-walking nested maps.
func Convert(from any, to any) error {
	buf, err := json.Marshal(from)
	if err != nil {
		return err
	}

	decoder := json.NewDecoder(bytes.NewReader(buf))
	decoder.UseNumber()

	return decoder.Decode(to)
}

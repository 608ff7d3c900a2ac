// Package stateful defines how replacement state is checkpointed and restored.
package stateful

import (
	"fmt"
	"io"

	"github.com/sarchlab/shipd/sim/naming"
)

// A State is a collection of data that can be serialized and deserialized.
type State interface {
	naming.Named

	Serialize() (map[string]any, error)
	Deserialize(map[string]any) error
}

// Save encodes all the states into w, keyed by their names.
func Save(w io.Writer, codec Codec, states ...State) error {
	data := make(map[string]any, len(states))

	for _, s := range states {
		if _, ok := data[s.Name()]; ok {
			return fmt.Errorf("state %s saved twice", s.Name())
		}

		fields, err := s.Serialize()
		if err != nil {
			return fmt.Errorf("serializing %s: %w", s.Name(), err)
		}

		data[s.Name()] = fields
	}

	return codec.Encode(w, data)
}

// Load decodes r and restores every given state from the entry with the same
// name. A state without a matching entry is an error.
func Load(r io.Reader, codec Codec, states ...State) error {
	data, err := codec.Decode(r)
	if err != nil {
		return err
	}

	for _, s := range states {
		raw, ok := data[s.Name()]
		if !ok {
			return fmt.Errorf("checkpoint has no state for %s", s.Name())
		}

		fields, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("state %s is not an object", s.Name())
		}

		if err := s.Deserialize(fields); err != nil {
			return fmt.Errorf("deserializing %s: %w", s.Name(), err)
		}
	}

	return nil
}

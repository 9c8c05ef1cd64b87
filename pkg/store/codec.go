package store

import "encoding/json"

// Codec converts a property value to and from its persisted byte
// representation. The byte format itself is out of this package's scope
// (spec.md §1 externalizes it); what matters is that Encode/Decode round
// trip exactly. The in-memory backend never calls a Codec.
type Codec[T any] struct {
	Encode func(T) ([]byte, error)
	Decode func([]byte) (T, error)
}

// JSONCodec returns a Codec backed by encoding/json, mirroring the
// teacher's own badger_serialization.go choice for Node/Edge values. It is
// the codec the CLI passes to NewBadgerStore; NewBadgerStore does not fall
// back to it when given a zero Codec.
func JSONCodec[T any]() Codec[T] {
	return Codec[T]{
		Encode: func(v T) ([]byte, error) { return json.Marshal(v) },
		Decode: func(b []byte) (T, error) {
			var v T
			err := json.Unmarshal(b, &v)
			return v, err
		},
	}
}

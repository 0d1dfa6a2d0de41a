// Package transport implements the IPC listener (Unix domain socket or
// Windows named pipe), the self-describing binary wire codec, and outbound
// callback delivery.
package transport

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeMap encodes a map with string keys into the self-describing binary
// wire format. Supported value types are unsigned integers, booleans,
// UTF-8 strings, and nested homogeneous maps — exactly the producer
// requirement of the wire format.
func EncodeMap(m map[string]any) ([]byte, error) {
	b, err := msgpack.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return b, nil
}

// DecodeMap decodes a wire-format buffer into a generic map. It rejects
// non-map top-level values (e.g. a bare array or scalar) and truncated or
// empty input, both required boundary behaviors for request decoding.
func DecodeMap(b []byte) (map[string]any, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("empty envelope")
	}
	var m map[string]any
	if err := msgpack.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("envelope did not decode to a map")
	}
	return m, nil
}

package persistence

import (
	"fmt"

	"github.com/flowgraph/flowgraph/internal/core/env"
	"github.com/flowgraph/flowgraph/internal/core/graphcore"
	"github.com/flowgraph/flowgraph/pkg/serialization"
)

// rawCodec passes already-encoded bytes through the serialization
// pipeline unchanged, so a graph's canonical portable JSON goes through
// compression and encryption without a second, redundant codec layer.
type rawCodec struct{}

func (rawCodec) Encode(v interface{}) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("persistence: rawCodec.Encode expects []byte, got %T", v)
	}
	return b, nil
}

func (rawCodec) Decode(data []byte, v interface{}) error {
	dst, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("persistence: rawCodec.Decode expects *[]byte, got %T", v)
	}
	*dst = data
	return nil
}

func (rawCodec) Name() string { return "raw" }

// Serializer wraps the shared compression/encryption pipeline around a
// graph's canonical portable JSON, so a whole graph can be written to
// disk or a blob store compressed and, optionally, encrypted at rest.
type Serializer struct {
	inner *serialization.Serializer
}

// NewSerializer wraps an already-configured serialization.Serializer.
// Use serialization.DefaultSerializer() for zstd-compressed, cleartext
// snapshots, or build a SerializationConfig with an EncryptKey for
// AES-GCM at-rest encryption.
func NewSerializer(inner *serialization.Serializer) *Serializer {
	return &Serializer{inner: inner}
}

// DefaultSerializer wraps serialization.DefaultSerializer with the raw
// codec, giving zstd-compressed, cleartext graph snapshots.
func DefaultSerializer() *Serializer {
	return NewSerializer(serialization.NewSerializer(serialization.SerializationConfig{
		Codec:       rawCodec{},
		Compression: serialization.CompressionZstd,
	}))
}

// SaveGraph serializes a graph's portable form through the wrapped
// pipeline.
func (s *Serializer) SaveGraph(g *graphcore.Graph) ([]byte, error) {
	portable, err := ToPortable(g)
	if err != nil {
		return nil, err
	}
	wire, err := Marshal(portable)
	if err != nil {
		return nil, fmt.Errorf("persistence: marshal portable graph: %w", err)
	}
	out, err := s.inner.Serialize(wire)
	if err != nil {
		return nil, fmt.Errorf("persistence: serialize graph: %w", err)
	}
	return out, nil
}

// LoadGraph reverses SaveGraph, reconstructing nodes through e's
// factory.
func (s *Serializer) LoadGraph(e *env.Environment, name string, data []byte) (*graphcore.Graph, error) {
	var wire []byte
	if err := s.inner.Deserialize(data, &wire); err != nil {
		return nil, fmt.Errorf("persistence: deserialize graph: %w", err)
	}
	portable, err := Unmarshal(wire)
	if err != nil {
		return nil, fmt.Errorf("persistence: unmarshal portable graph: %w", err)
	}
	return FromPortable(e, name, portable)
}

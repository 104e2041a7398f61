package cache

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes values of type V to bytes for storage and back.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// MsgpackCodec serializes values with vmihailenco/msgpack. The zero value is ready to use.
type MsgpackCodec[V any] struct{}

func (MsgpackCodec[V]) Encode(v V) ([]byte, error) { return msgpack.Marshal(v) }

func (MsgpackCodec[V]) Decode(b []byte) (V, error) {
	var v V
	err := msgpack.Unmarshal(b, &v)
	return v, err
}

// JSONCodec serializes values with encoding/json. The zero value is ready to use.
type JSONCodec[V any] struct{}

func (JSONCodec[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}

// CBORCodec serializes values with fxamacker/cbor.
// The zero value is NOT ready to use; construct it with NewCBORCodec.
type CBORCodec[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBORCodec builds a CBOR codec encoding time values as RFC3339Nano strings.
func NewCBORCodec[V any]() (CBORCodec[V], error) {
	eo := cbor.PreferredUnsortedEncOptions()
	eo.Time = cbor.TimeRFC3339Nano

	enc, err := eo.EncMode()
	if err != nil {
		return CBORCodec[V]{}, err
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return CBORCodec[V]{}, err
	}
	return CBORCodec[V]{enc: enc, dec: dec}, nil
}

func (c CBORCodec[V]) Encode(v V) ([]byte, error) { return c.enc.Marshal(v) }

func (c CBORCodec[V]) Decode(b []byte) (V, error) {
	var v V
	err := c.dec.Unmarshal(b, &v)
	return v, err
}

// Codec names accepted by NewCodec.
const (
	CodecMsgpack = "msgpack"
	CodecJSON    = "json"
	CodecCBOR    = "cbor"
)

// NewCodec returns the codec registered under name. An empty name selects msgpack.
func NewCodec[V any](name string) (Codec[V], error) {
	switch name {
	case "", CodecMsgpack:
		return MsgpackCodec[V]{}, nil
	case CodecJSON:
		return JSONCodec[V]{}, nil
	case CodecCBOR:
		c, err := NewCBORCodec[V]()
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("cache: unknown codec %q", name)
	}
}

package serial

import (
	"errors"
	"fmt"
	"io"

	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	"github.com/ipld/go-ipld-prime/codec/dagjson"
	"github.com/ipld/go-ipld-prime/codec/json"
	"github.com/ipld/go-ipld-prime/schema"
)

// Codec turns values of one type into bytes and back.
// Encode must write everything it produces to w; Decode reads one value from r.
type Codec[T any] interface {
	Encode(w io.Writer, v T) error
	Decode(r io.Reader) (T, error)
}

var errNoType = errors.New("no schema type given")

// ipldCodec serializes through bindnode, binding T to an explicit schema type.
// T's fields must line up with the schema type's fields, in order.
type ipldCodec[T any] struct {
	name string
	typ  schema.Type
	enc  ipld.Encoder
	dec  ipld.Decoder
}

// DagJSON encodes values as compact DAG-JSON.
func DagJSON[T any](typ schema.Type) Codec[T] {
	return ipldCodec[T]{"dag-json", typ, dagjson.Encode, dagjson.Decode}
}

// DagCBOR encodes values as DAG-CBOR.
func DagCBOR[T any](typ schema.Type) Codec[T] {
	return ipldCodec[T]{"dag-cbor", typ, dagcbor.Encode, dagcbor.Decode}
}

// JSON encodes values as indented JSON.
func JSON[T any](typ schema.Type) Codec[T] {
	return ipldCodec[T]{"json", typ, json.Encode, json.Decode}
}

func (c ipldCodec[T]) Name() string {
	return c.name
}

func (c ipldCodec[T]) Encode(w io.Writer, v T) (err error) {
	if c.typ == nil {
		return errNoType
	}
	// bindnode panics when T doesn't match the schema type.
	defer recoverInto(&err)
	return ipld.MarshalStreaming(w, c.enc, &v, c.typ)
}

func (c ipldCodec[T]) Decode(r io.Reader) (v T, err error) {
	if c.typ == nil {
		return v, errNoType
	}
	defer recoverInto(&err)
	_, err = ipld.UnmarshalStreaming(r, c.dec, &v, c.typ)
	return v, err
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("cannot bind value: %v", r)
	}
}

// Funcs adapts a pair of functions into a Codec.
type Funcs[T any] struct {
	EncodeFunc func(w io.Writer, v T) error
	DecodeFunc func(r io.Reader) (T, error)
}

func (f Funcs[T]) Encode(w io.Writer, v T) error {
	return f.EncodeFunc(w, v)
}

func (f Funcs[T]) Decode(r io.Reader) (T, error) {
	return f.DecodeFunc(r)
}

// Name returns the codec's name if it has one, or "custom".
func Name(c interface{}) string {
	if named, ok := c.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "custom"
}

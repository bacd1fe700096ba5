package serial

import (
	"io"

	"github.com/ipld/go-ipld-prime/schema"
	schemadmt "github.com/ipld/go-ipld-prime/schema/dmt"
	schemadsl "github.com/ipld/go-ipld-prime/schema/dsl"

	"github.com/warptools/leafstore/lsapi"
)

// CompileSchema parses an IPLD schema in DSL form and compiles it into a TypeSystem.
// The prelude types (String, Int, Bool and the rest) are always available.
//
// Errors:
//
//    - leafstore-error-initialization -- when the schema doesn't parse or doesn't compile
func CompileSchema(name string, r io.Reader) (*schema.TypeSystem, error) {
	schemaDmt, err := schemadsl.Parse(name, r)
	if err != nil {
		return nil, lsapi.ErrorInitialization("failed to parse schema "+name, err)
	}
	ts := new(schema.TypeSystem)
	ts.Init()
	if err := schemadmt.Compile(ts, schemaDmt); err != nil {
		return nil, lsapi.ErrorInitialization("failed to compile schema "+name, err)
	}
	return ts, nil
}

// MustCompileSchema is CompileSchema for schemas embedded in the program, and panics on failure.
func MustCompileSchema(name string, r io.Reader) *schema.TypeSystem {
	ts, err := CompileSchema(name, r)
	if err != nil {
		panic(err)
	}
	return ts
}

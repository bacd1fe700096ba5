package lsapi

import (
	"strconv"

	"github.com/serum-errors/go-serum"
)

const (
	CodeInvalidSegmentOrder = "leafstore-error-invalid-segment-order"
	CodeSegmentInvalid      = "leafstore-error-segment-invalid"
	CodeSegmentConflict     = "leafstore-error-segment-conflict"
	CodeIo                  = "leafstore-error-io"
	CodeSerialization       = "leafstore-error-serialization"
	CodeInvalid             = "leafstore-error-invalid"
	CodeUnsupported         = "leafstore-error-unsupported"
	CodeInitialization      = "leafstore-error-initialization"
)

// ErrorInvalidSegmentOrder is returned when a segment classified as a file
// appears anywhere but at the end of a segment sequence.
//
// Errors:
//
//    - leafstore-error-invalid-segment-order --
func ErrorInvalidSegmentOrder(segment string, index int) error {
	return serum.Error(CodeInvalidSegmentOrder,
		serum.WithMessageTemplate("file segment {{segment}} at position {{index}} is not the last segment"),
		serum.WithDetail("segment", segment),
		serum.WithDetail("index", strconv.Itoa(index)),
	)
}

// ErrorSegmentInvalid is returned when a segment name can't be used as a single path component.
//
// Errors:
//
//    - leafstore-error-segment-invalid --
func ErrorSegmentInvalid(segment string, index int, reason string) error {
	return serum.Error(CodeSegmentInvalid,
		serum.WithMessageTemplate("invalid segment {{segment}} at position {{index}}: {{reason}}"),
		serum.WithDetail("segment", segment),
		serum.WithDetail("index", strconv.Itoa(index)),
		serum.WithDetail("reason", reason),
	)
}

// ErrorSegmentConflict is returned when a path component already exists,
// but is a file where a directory was expected (or the other way around).
//
// Errors:
//
//    - leafstore-error-segment-conflict --
func ErrorSegmentConflict(path string, wantKind string) error {
	return serum.Error(CodeSegmentConflict,
		serum.WithMessageTemplate("path {{path}} exists but is not a {{kind}}"),
		serum.WithDetail("path", path),
		serum.WithDetail("kind", wantKind),
	)
}

// ErrorIo wraps generic I/O errors from the Go stdlib
//
// Errors:
//
//    - leafstore-error-io --
func ErrorIo(context string, path string, cause error) error {
	result := serum.Errorf(CodeIo,
		"io error: %s: %w", context, cause)
	addDetails(result, [][2]string{{"context", context}, {"path", path}})
	return result
}

// ErrorSerialization is returned when a serialization or deserialization error occurs
//
// Errors:
//
//    - leafstore-error-serialization --
func ErrorSerialization(context string, path string, cause error) error {
	result := serum.Errorf(CodeSerialization,
		"serialization error: %s: %w", context, cause)
	addDetails(result, [][2]string{
		{"context", context},
		{"path", path},
	})
	return result
}

// ErrorInvalid is returned when something is invalid.
// In most cases, prefer to use more specific errors.
// The caller must format the message string.
//
// Errors:
//
//  - leafstore-error-invalid --
func ErrorInvalid(message string, deets ...[2]string) error {
	opts := make([]serum.WithConstruction, 0, len(deets)+1)
	for _, d := range deets {
		opts = append(opts, serum.WithDetail(d[0], d[1]))
	}
	opts = append(opts, serum.WithMessageLiteral(message))
	return serum.Error(CodeInvalid, opts...)
}

// ErrorUnsupported is returned when a feature is selected that this build doesn't implement.
//
// Errors:
//
//    - leafstore-error-unsupported --
func ErrorUnsupported(feature string) error {
	return serum.Error(CodeUnsupported,
		serum.WithMessageTemplate("unsupported: {{feature}}"),
		serum.WithDetail("feature", feature),
	)
}

// ErrorInitialization is returned when configuration can't be loaded.
//
// Errors:
//
//    - leafstore-error-initialization --
func ErrorInitialization(message string, cause error) error {
	return serum.Error(CodeInitialization,
		serum.WithMessageLiteral(message),
		serum.WithCause(cause),
	)
}

// addDetails is a helper method to get around the fact that doing a type coercion within
// an exported function is not currently allowed by serum.
// We won't need this if serum supports an equivalent to %w in message templates OR
// supports adding details when using serum.Errorf
func addDetails(err error, details [][2]string) {
	s := err.(*serum.ErrorValue)
	s.Data.Details = append(s.Data.Details, details...)
}

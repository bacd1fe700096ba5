package segpath

import (
	"path/filepath"
	"strings"

	"github.com/warptools/leafstore/lsapi"
)

// Kind says whether a segment names a directory or a file.
// The zero Kind is invalid: callers always classify segments explicitly,
// and nothing is ever inferred from how a name looks.
type Kind uint8

const (
	KindDir Kind = iota + 1
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindDir:
		return "directory"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Segment is one named path component.
type Segment struct {
	Name string
	Kind Kind
}

func Dir(name string) Segment  { return Segment{Name: name, Kind: KindDir} }
func File(name string) Segment { return Segment{Name: name, Kind: KindFile} }

// Segments is an ordered sequence of path components, root first.
// Only the last one may be a file.
type Segments []Segment

// FilePath classifies every name as a directory except the last, which is a file.
func FilePath(names ...string) Segments {
	segs := make(Segments, len(names))
	for i, name := range names {
		segs[i] = Dir(name)
	}
	if len(segs) > 0 {
		segs[len(segs)-1].Kind = KindFile
	}
	return segs
}

// DirPath classifies every name as a directory.
func DirPath(names ...string) Segments {
	segs := make(Segments, len(names))
	for i, name := range names {
		segs[i] = Dir(name)
	}
	return segs
}

// Leaf returns the last segment.  It panics on an empty sequence.
func (segs Segments) Leaf() Segment {
	return segs[len(segs)-1]
}

func (segs Segments) String() string {
	names := make([]string, len(segs))
	for i, seg := range segs {
		names[i] = seg.Name
	}
	return strings.Join(names, "/")
}

// Validate checks the sequence without touching any filesystem.
//
// Errors:
//
//    - leafstore-error-invalid -- when there are no segments
//    - leafstore-error-segment-invalid -- when a name can't be a single path component, or a kind is unset
//    - leafstore-error-invalid-segment-order -- when a file segment is followed by anything
func (segs Segments) Validate() error {
	if len(segs) == 0 {
		return lsapi.ErrorInvalid("no path segments given")
	}
	last := len(segs) - 1
	for i, seg := range segs {
		if reason := checkName(seg.Name); reason != "" {
			return lsapi.ErrorSegmentInvalid(seg.Name, i, reason)
		}
		switch seg.Kind {
		case KindDir:
		case KindFile:
			if i < last {
				return lsapi.ErrorInvalidSegmentOrder(seg.Name, i)
			}
		default:
			return lsapi.ErrorSegmentInvalid(seg.Name, i, "kind not specified")
		}
	}
	return nil
}

func checkName(name string) string {
	switch {
	case name == "":
		return "empty name"
	case name == "." || name == "..":
		return "relative reference"
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator):
		return "contains a path separator"
	case strings.ContainsRune(name, 0):
		return "contains a NUL byte"
	}
	return ""
}

package segpath_test

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/serum-errors/go-serum"
	"github.com/warpfork/go-fsx"
	"github.com/warpfork/go-fsx/osfs"
	"github.com/warpfork/go-testmark"

	"github.com/warptools/leafstore/lsapi"
	"github.com/warptools/leafstore/pkg/logging"
	"github.com/warptools/leafstore/pkg/segpath"
)

// parseSegments reads "dir <name>" / "file <name>" lines.
func parseSegments(t *testing.T, body []byte) segpath.Segments {
	t.Helper()
	var segs segpath.Segments
	for _, line := range hunkLines(body) {
		kind, name, ok := strings.Cut(line, " ")
		qt.Assert(t, ok, qt.IsTrue, qt.Commentf("bad segment line %q", line))
		switch kind {
		case "dir":
			segs = append(segs, segpath.Dir(name))
		case "file":
			segs = append(segs, segpath.File(name))
		default:
			t.Fatalf("bad segment kind %q", kind)
		}
	}
	return segs
}

func hunkLines(body []byte) []string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

// makePre creates the components listed in a "pre" hunk directly on disk.
func makePre(t *testing.T, root string, body []byte) {
	t.Helper()
	for _, seg := range parseSegments(t, body) {
		p := filepath.Join(root, filepath.FromSlash(seg.Name))
		if seg.Kind == segpath.KindDir {
			qt.Assert(t, os.Mkdir(p, 0755), qt.IsNil)
		} else {
			qt.Assert(t, os.WriteFile(p, nil, 0644), qt.IsNil)
		}
	}
}

// listTree returns every path under root, directories suffixed with a slash.
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var res []string
	err := fsx.WalkDir(osfs.DirFS(root), ".", func(path string, d fsx.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}
		if d.IsDir() {
			path += "/"
		}
		res = append(res, path)
		return nil
	})
	qt.Assert(t, err, qt.IsNil)
	return res
}

func newTestResolver(t *testing.T, fsys segpath.Filesystem) (*segpath.Resolver, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log, err := logging.NewLogger(&buf, logging.LevelError, logging.ModeConsole)
	qt.Assert(t, err, qt.IsNil)
	return segpath.NewResolver(fsys, log), &buf
}

func TestResolveFixtures(t *testing.T) {
	doc, err := testmark.ReadFile("testdata/resolve.md")
	if err != nil {
		t.Fatalf("fixture file parse failed?!: %s", err)
	}

	doc.BuildDirIndex()
	for _, dir := range doc.DirEnt.ChildrenList {
		dir := dir
		t.Run(dir.Name, func(t *testing.T) {
			root := t.TempDir()
			if pre := dir.Children["pre"]; pre != nil {
				makePre(t, root, pre.Hunk.Body)
			}
			before := listTree(t, root)

			r, logBuf := newTestResolver(t, segpath.NewOSFilesystem(root))
			segs := parseSegments(t, dir.Children["segments"].Hunk.Body)
			res, err := r.EnsurePathExists(segs)

			expect := strings.Fields(string(dir.Children["expect"].Hunk.Body))
			qt.Assert(t, expect, qt.HasLen, 2)
			switch expect[0] {
			case "error":
				qt.Assert(t, serum.Code(err), qt.Equals, expect[1])
				qt.Check(t, res, qt.Equals, segpath.Resolved{})
				qt.Check(t, listTree(t, root), qt.DeepEquals, before)
				qt.Check(t, hunkLines(logBuf.Bytes()), qt.HasLen, 1)
			case "preexisted":
				qt.Assert(t, err, qt.IsNil)
				qt.Check(t, res.Preexisted, qt.Equals, expect[1] == "true")
				qt.Check(t, res.Rel, qt.Equals, segs.String())
				qt.Check(t, res.Path, qt.Equals, filepath.Join(root, filepath.FromSlash(segs.String())))
				qt.Check(t, res.Kind, qt.Equals, segs.Leaf().Kind)
				qt.Check(t, logBuf.Len(), qt.Equals, 0)
				if tree := dir.Children["tree"]; tree != nil {
					qt.Check(t, listTree(t, root), qt.DeepEquals, hunkLines(tree.Hunk.Body))
				}

				t.Run("idempotent", func(t *testing.T) {
					treeBefore := listTree(t, root)
					again, err := r.EnsurePathExists(segs)
					qt.Assert(t, err, qt.IsNil)
					qt.Check(t, again.Preexisted, qt.IsTrue)
					qt.Check(t, again.Path, qt.Equals, res.Path)
					qt.Check(t, listTree(t, root), qt.DeepEquals, treeBefore)
				})
			default:
				t.Fatalf("bad expect hunk %q", expect)
			}
		})
	}
}

func TestNewFileIsEmpty(t *testing.T) {
	root := t.TempDir()
	r, _ := newTestResolver(t, segpath.NewOSFilesystem(root))
	res, err := r.EnsurePathExists(segpath.FilePath("data", "records", "users.bin"))
	qt.Assert(t, err, qt.IsNil)
	qt.Check(t, res.Preexisted, qt.IsFalse)

	fi, err := os.Stat(res.Path)
	qt.Assert(t, err, qt.IsNil)
	qt.Check(t, fi.Mode().IsRegular(), qt.IsTrue)
	qt.Check(t, fi.Size(), qt.Equals, int64(0))
}

func TestEmptySegments(t *testing.T) {
	r, logBuf := newTestResolver(t, segpath.NewOSFilesystem(t.TempDir()))
	_, err := r.EnsurePathExists(nil)
	qt.Check(t, serum.Code(err), qt.Equals, lsapi.CodeInvalid)
	qt.Check(t, hunkLines(logBuf.Bytes()), qt.HasLen, 1)
}

// faultyFS fails Mkdir for one name and passes everything else through.
type faultyFS struct {
	segpath.Filesystem
	failMkdir string
}

func (f faultyFS) Mkdir(name string, perm fs.FileMode) error {
	if name == f.failMkdir {
		return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrPermission}
	}
	return f.Filesystem.Mkdir(name, perm)
}

func TestCreationFailureIsNotRolledBack(t *testing.T) {
	root := t.TempDir()
	segs := segpath.FilePath("data", "records", "users.bin")

	r, logBuf := newTestResolver(t, faultyFS{segpath.NewOSFilesystem(root), "data/records"})
	_, err := r.EnsurePathExists(segs)
	qt.Assert(t, serum.Code(err), qt.Equals, lsapi.CodeIo)
	qt.Check(t, errors.Is(err, fs.ErrPermission), qt.IsTrue)
	qt.Check(t, hunkLines(logBuf.Bytes()), qt.HasLen, 1)
	qt.Check(t, listTree(t, root), qt.DeepEquals, []string{"data/"})

	// A retry against a healthy filesystem picks up where the failure left off.
	r, _ = newTestResolver(t, segpath.NewOSFilesystem(root))
	res, err := r.EnsurePathExists(segs)
	qt.Assert(t, err, qt.IsNil)
	qt.Check(t, res.Preexisted, qt.IsFalse)
	qt.Check(t, listTree(t, root), qt.DeepEquals, []string{
		"data/",
		"data/records/",
		"data/records/users.bin",
	})
}

func TestValidate(t *testing.T) {
	for _, tt := range []struct {
		testCase string
		segs     segpath.Segments
		code     string
	}{
		{"single file", segpath.Segments{segpath.File("users.bin")}, ""},
		{"single dir", segpath.Segments{segpath.Dir("data")}, ""},
		{"file path", segpath.FilePath("a", "b", "c"), ""},
		{"empty", segpath.Segments{}, lsapi.CodeInvalid},
		{"file first", segpath.Segments{segpath.File("users.bin"), segpath.Dir("extra")}, lsapi.CodeInvalidSegmentOrder},
		{"two files", segpath.Segments{segpath.File("a"), segpath.File("b")}, lsapi.CodeInvalidSegmentOrder},
		{"unset kind", segpath.Segments{{Name: "data"}}, lsapi.CodeSegmentInvalid},
		{"empty name", segpath.FilePath("data", ""), lsapi.CodeSegmentInvalid},
		{"dot", segpath.FilePath(".", "x"), lsapi.CodeSegmentInvalid},
		{"dotdot", segpath.FilePath("..", "x"), lsapi.CodeSegmentInvalid},
		{"separator", segpath.FilePath("a/b"), lsapi.CodeSegmentInvalid},
		{"nul", segpath.FilePath("a\x00b"), lsapi.CodeSegmentInvalid},
	} {
		t.Run(tt.testCase, func(t *testing.T) {
			err := tt.segs.Validate()
			if tt.code == "" {
				qt.Check(t, err, qt.IsNil)
				return
			}
			qt.Check(t, serum.Code(err), qt.Equals, tt.code)
		})
	}
}

func TestPathBuilders(t *testing.T) {
	qt.Check(t, segpath.FilePath("data", "records", "users.bin"), qt.DeepEquals, segpath.Segments{
		segpath.Dir("data"),
		segpath.Dir("records"),
		segpath.File("users.bin"),
	})
	qt.Check(t, segpath.DirPath("data", "v1.2"), qt.DeepEquals, segpath.Segments{
		segpath.Dir("data"),
		segpath.Dir("v1.2"),
	})
	qt.Check(t, segpath.FilePath(), qt.HasLen, 0)
	qt.Check(t, segpath.FilePath("data", "records", "users.bin").String(), qt.Equals, "data/records/users.bin")
}

func TestSuccessLogsNothing(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.NewLogger(&buf, logging.LevelAll, logging.ModeConsole)
	qt.Assert(t, err, qt.IsNil)
	r := segpath.NewResolver(segpath.NewOSFilesystem(t.TempDir()), log)

	res, err := r.EnsurePathExists(segpath.FilePath("data", "records", "users.bin"))
	qt.Assert(t, err, qt.IsNil)
	qt.Check(t, res.Preexisted, qt.IsFalse)
	qt.Check(t, buf.Len(), qt.Equals, 0)
}

func TestNilLogger(t *testing.T) {
	r := segpath.NewResolver(segpath.NewOSFilesystem(t.TempDir()), nil)
	_, err := r.EnsurePathExists(segpath.Segments{segpath.File("users.bin"), segpath.Dir("extra")})
	qt.Check(t, serum.Code(err), qt.Equals, lsapi.CodeInvalidSegmentOrder)
}

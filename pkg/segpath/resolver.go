package segpath

import (
	"errors"
	"io/fs"
	"os"
	"path"

	"github.com/warptools/leafstore/lsapi"
	"github.com/warptools/leafstore/pkg/logging"
)

const (
	logTag = "segpath"

	DirPerm  fs.FileMode = 0755
	FilePerm fs.FileMode = 0644
)

// Resolved is the outcome of EnsurePathExists.
type Resolved struct {
	Path       string // native path, including the filesystem's root prefix.
	Rel        string // slash-separated name relative to the filesystem root; what Filesystem methods take.
	Kind       Kind   // kind of the leaf.
	Preexisted bool   // true only if every component existed before the call.
}

type Resolver struct {
	fsys Filesystem
	log  *logging.Logger
}

// NewResolver returns a Resolver working on fsys.
// A nil logger is allowed and logs nothing.
func NewResolver(fsys Filesystem, log *logging.Logger) *Resolver {
	return &Resolver{
		fsys: fsys,
		log:  log,
	}
}

// Filesystem returns the filesystem the resolver creates paths in.
func (r *Resolver) Filesystem() Filesystem {
	return r.fsys
}

// EnsurePathExists makes sure every component named by segs exists,
// creating missing directories, and creating a missing file leaf empty.
//
// The whole sequence is validated before anything is created,
// so an invalid sequence leaves the filesystem untouched.
// Components that are created are not removed again if a later one fails;
// calling again will skip what already exists.
//
// Errors:
//
//    - leafstore-error-invalid -- when there are no segments
//    - leafstore-error-segment-invalid -- when a name can't be a single path component
//    - leafstore-error-invalid-segment-order -- when a file segment is not the last one
//    - leafstore-error-segment-conflict -- when a component exists with the other kind
//    - leafstore-error-io -- when checking or creating a component fails
func (r *Resolver) EnsurePathExists(segs Segments) (Resolved, error) {
	if err := segs.Validate(); err != nil {
		r.log.Error(logTag, "rejected path %q: %s", segs.String(), err)
		return Resolved{}, err
	}

	created := false
	rel := ""
	for _, seg := range segs {
		rel = path.Join(rel, seg.Name)
		fi, err := r.fsys.Stat(rel)
		switch {
		case err == nil:
			if fi.IsDir() != (seg.Kind == KindDir) {
				return Resolved{}, r.fail(lsapi.ErrorSegmentConflict(r.fsys.NativePath(rel), seg.Kind.String()))
			}
			continue
		case errors.Is(err, fs.ErrNotExist):
			// create it below.
		default:
			return Resolved{}, r.fail(lsapi.ErrorIo("checking path", r.fsys.NativePath(rel), err))
		}

		if err := r.create(rel, seg.Kind); err != nil {
			return Resolved{}, r.fail(err)
		}
		created = true
	}

	return Resolved{
		Path:       r.fsys.NativePath(rel),
		Rel:        rel,
		Kind:       segs.Leaf().Kind,
		Preexisted: !created,
	}, nil
}

// create makes one missing component.
// Files are opened exclusively, so losing a race with another creator is an error too.
//
// Errors:
//
//    - leafstore-error-io -- when creation fails
func (r *Resolver) create(rel string, kind Kind) error {
	if kind == KindDir {
		if err := r.fsys.Mkdir(rel, DirPerm); err != nil {
			return lsapi.ErrorIo("creating directory", r.fsys.NativePath(rel), err)
		}
		return nil
	}
	f, err := r.fsys.OpenFile(rel, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FilePerm)
	if err != nil {
		return lsapi.ErrorIo("creating file", r.fsys.NativePath(rel), err)
	}
	if err := f.Close(); err != nil {
		return lsapi.ErrorIo("closing new file", r.fsys.NativePath(rel), err)
	}
	return nil
}

func (r *Resolver) fail(err error) error {
	r.log.Error(logTag, "%s", err)
	return err
}

package segpath

import (
	"io"
	"io/fs"
	"path/filepath"

	"github.com/warpfork/go-fsx"
	"github.com/warpfork/go-fsx/osfs"
)

// Handle is an open leaf file.  Handles opened read-only fail on Write.
type Handle interface {
	io.Reader
	io.Writer
	io.Closer
}

// Filesystem is the set of operations path resolution and persistence need.
// Names are slash-separated and relative to the filesystem's root, as with io/fs.
type Filesystem interface {
	Stat(name string) (fs.FileInfo, error)
	Mkdir(name string, perm fs.FileMode) error
	OpenFile(name string, flag int, perm fs.FileMode) (Handle, error)

	// NativePath turns a name into the path a user would type, root prefix included.
	NativePath(name string) string
}

type osFilesystem struct {
	root string
	fsys fsx.FS
}

// NewOSFilesystem returns a Filesystem rooted at the given directory of the host filesystem.
// The root itself is expected to exist; it is never created.
func NewOSFilesystem(root string) Filesystem {
	return &osFilesystem{
		root: root,
		fsys: osfs.DirFS(root),
	}
}

func (o *osFilesystem) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(o.fsys, name)
}

func (o *osFilesystem) Mkdir(name string, perm fs.FileMode) error {
	return fsx.Mkdir(o.fsys, name, perm)
}

func (o *osFilesystem) OpenFile(name string, flag int, perm fs.FileMode) (Handle, error) {
	f, err := fsx.OpenFile(o.fsys, name, flag, perm)
	if err != nil {
		return nil, err
	}
	rwf, ok := f.(Handle)
	if !ok {
		f.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return rwf, nil
}

func (o *osFilesystem) NativePath(name string) string {
	return filepath.Join(o.root, filepath.FromSlash(name))
}

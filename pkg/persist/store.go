package persist

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/warptools/leafstore/lsapi"
	"github.com/warptools/leafstore/pkg/config"
	"github.com/warptools/leafstore/pkg/logging"
	"github.com/warptools/leafstore/pkg/segpath"
	"github.com/warptools/leafstore/pkg/serial"
)

const logTag = "persist"

// Store saves and loads values of one type to leaf files named by path segments.
//
// A Store does no locking.  Saving and loading the same path concurrently
// can observe a partially written file; callers that need that must serialize access themselves.
type Store[T any] struct {
	resolver *segpath.Resolver
	codec    serial.Codec[T]
	log      *logging.Logger
}

// New returns a Store that creates paths with r and serializes with c.
// A nil logger is allowed and logs nothing.
func New[T any](r *segpath.Resolver, c serial.Codec[T], log *logging.Logger) *Store[T] {
	return &Store[T]{
		resolver: r,
		codec:    c,
		log:      log,
	}
}

// NewFromState builds a Store rooted at config.RootPath(st), logging to logOut
// as configured by st.  The root directory must already exist.
//
// Errors:
//
//    - leafstore-error-invalid -- when the log level or mode can't be parsed
//    - leafstore-error-unsupported -- when a log mode other than console is selected
func NewFromState[T any](st config.State, c serial.Codec[T], logOut io.Writer) (*Store[T], error) {
	log, err := config.Logger(st, logOut)
	if err != nil {
		return nil, err
	}
	fsys := segpath.NewOSFilesystem(config.RootPath(st))
	return New(segpath.NewResolver(fsys, log), c, log), nil
}

// Save writes v to the file named by names, creating any missing directories and the file itself.
// The previous contents of the file are replaced entirely.
//
// Errors:
//
//    - leafstore-error-invalid -- when no names are given
//    - leafstore-error-segment-invalid -- when a name can't be a single path component
//    - leafstore-error-segment-conflict -- when a component exists with the other kind
//    - leafstore-error-io -- when creating, opening, writing or closing fails
//    - leafstore-error-serialization -- when the codec can't encode v
func (s *Store[T]) Save(v T, names ...string) (err error) {
	res, err := s.resolver.EnsurePathExists(segpath.FilePath(names...))
	if err != nil {
		return err
	}
	f, err := s.resolver.Filesystem().OpenFile(res.Rel, os.O_WRONLY|os.O_TRUNC, segpath.FilePerm)
	if err != nil {
		return s.fail(logging.LevelError, lsapi.ErrorIo("opening for write", res.Path, err))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = s.fail(logging.LevelError, lsapi.ErrorIo("closing after write", res.Path, cerr))
		}
	}()

	tw := &trackingWriter{w: f}
	bw := bufio.NewWriter(tw)
	if encErr := s.codec.Encode(bw, v); encErr != nil {
		if tw.err != nil {
			return s.fail(logging.LevelError, lsapi.ErrorIo("writing", res.Path, tw.err))
		}
		return s.fail(logging.LevelError, lsapi.ErrorSerialization("encoding with "+serial.Name(s.codec), res.Path, encErr))
	}
	if err := bw.Flush(); err != nil {
		return s.fail(logging.LevelError, lsapi.ErrorIo("writing", res.Path, err))
	}
	return nil
}

// Load reads the value in the file named by names.
//
// If the file had to be created by this call, or exists but is empty,
// Load returns a NoData record and no error.
//
// Errors:
//
//    - leafstore-error-invalid -- when no names are given
//    - leafstore-error-segment-invalid -- when a name can't be a single path component
//    - leafstore-error-segment-conflict -- when a component exists with the other kind
//    - leafstore-error-io -- when creating, opening, reading or closing fails
//    - leafstore-error-serialization -- when the codec can't decode the file's contents
func (s *Store[T]) Load(names ...string) (rec Record[T], err error) {
	res, err := s.resolver.EnsurePathExists(segpath.FilePath(names...))
	if err != nil {
		return Record[T]{}, err
	}
	if !res.Preexisted {
		// We just created it, so there's nothing in it.
		return NoData[T](), nil
	}

	f, err := s.resolver.Filesystem().OpenFile(res.Rel, os.O_RDONLY, 0)
	if err != nil {
		return Record[T]{}, s.fail(logging.LevelError, lsapi.ErrorIo("opening for read", res.Path, err))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			rec = Record[T]{}
			err = s.fail(logging.LevelError, lsapi.ErrorIo("closing after read", res.Path, cerr))
		}
	}()

	tr := &trackingReader{r: f}
	br := bufio.NewReader(tr)
	if _, err := br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			// Exists, but never written to; possibly left behind by a failed save.
			return NoData[T](), nil
		}
		return Record[T]{}, s.fail(logging.LevelError, lsapi.ErrorIo("reading", res.Path, err))
	}
	v, decErr := s.codec.Decode(br)
	if decErr != nil {
		if tr.err != nil {
			return Record[T]{}, s.fail(logging.LevelError, lsapi.ErrorIo("reading", res.Path, tr.err))
		}
		return Record[T]{}, s.fail(logging.LevelWarn, lsapi.ErrorSerialization("decoding with "+serial.Name(s.codec), res.Path, decErr))
	}
	return Found(v), nil
}

func (s *Store[T]) fail(level logging.Level, err error) error {
	s.log.Log(level, logTag, "%s", err)
	return err
}

// trackingWriter remembers the first error from the underlying writer,
// so a codec failure can be told apart from an I/O failure.
type trackingWriter struct {
	w   io.Writer
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil && t.err == nil {
		t.err = err
	}
	return n, err
}

// trackingReader remembers the first error from the underlying reader other than io.EOF.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}

// SPDX-License-Identifier: MPL-2.0

package vpkfs

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/klauspost/compress/flate"
	"github.com/spf13/afero"
)

const (
	// KindArchive is a compressed (ZIP) package container.
	KindArchive Kind = "archive"
	// KindDirectory is an unpacked package directory tree.
	KindDirectory Kind = "directory"
	// KindFS is a caller-provided fs.FS (tests, embedded packages).
	KindFS Kind = "fs"
)

type (
	// Kind identifies how a Source is backed.
	Kind string

	// OpenOption configures Open.
	OpenOption func(*openOptions)

	openOptions struct {
		fs afero.Fs
	}

	// Source is an opened package location. The same Source must not be
	// shared across goroutines that close it; reads are safe as long as the
	// underlying fs.FS allows them.
	Source struct {
		root     Path
		kind     Kind
		location string
		closer   io.Closer
	}
)

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// WithFs resolves locations against fs instead of the OS filesystem.
func WithFs(fs afero.Fs) OpenOption {
	return func(o *openOptions) {
		o.fs = fs
	}
}

// Open resolves location to a package Source. Directories are served read-only
// through afero; regular files must be readable ZIP containers. Any other
// location fails with an *InvalidSourceError.
func Open(location string, opts ...OpenOption) (*Source, error) {
	o := openOptions{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(&o)
	}

	if location == "" {
		return nil, &InvalidSourceError{Location: location, Reason: errors.New("location cannot be empty")}
	}

	info, err := o.fs.Stat(location)
	if err != nil {
		return nil, &InvalidSourceError{Location: location, Reason: err}
	}

	switch {
	case info.IsDir():
		return openDirectory(o.fs, location), nil
	case info.Mode().IsRegular():
		return openArchive(o.fs, location, info.Size())
	default:
		return nil, &InvalidSourceError{Location: location, Reason: fmt.Errorf("unsupported file mode %s", info.Mode())}
	}
}

// OpenFS wraps an existing fs.FS as a package Source rooted at ".".
func OpenFS(fsys fs.FS, kind Kind, location string) *Source {
	return &Source{
		root:     Path{fsys: fsys, name: ".", location: location},
		kind:     kind,
		location: location,
	}
}

// Root returns the package root path.
func (s *Source) Root() Path { return s.root }

// Kind reports how the source is backed.
func (s *Source) Kind() Kind { return s.kind }

// Location returns the location the source was opened from.
func (s *Source) Location() string { return s.location }

// Close releases the underlying container, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

func openDirectory(fs afero.Fs, dir string) *Source {
	base := afero.NewReadOnlyFs(afero.NewBasePathFs(fs, dir))
	return OpenFS(afero.NewIOFS(base), KindDirectory, dir)
}

func openArchive(fs afero.Fs, location string, size int64) (_ *Source, err error) {
	f, err := fs.Open(location)
	if err != nil {
		return nil, &InvalidSourceError{Location: location, Reason: err}
	}
	defer func() {
		if err != nil {
			_ = f.Close()
		}
	}()

	zr, err := zip.NewReader(f, size)
	if err != nil {
		return nil, &InvalidSourceError{Location: location, Reason: err}
	}
	zr.RegisterDecompressor(zip.Deflate, flate.NewReader)

	src := OpenFS(zr, KindArchive, location)
	src.closer = f
	return src, nil
}

// SPDX-License-Identifier: MPL-2.0

package vpk

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/overpack/overpack/pkg/vpkfs"
)

const (
	// FormatArchive writes a ZIP container.
	FormatArchive Format = "archive"
	// FormatDirectory writes an unpacked directory tree.
	FormatDirectory Format = "directory"
)

type (
	// Format is the destination layout written by Vpk.Dump.
	Format string

	// Option configures Load and Dump.
	Option func(*options)

	options struct {
		logger           *log.Logger
		parser           MdlParser
		litterDirs       []string
		ignore           []string
		format           Format
		compressionLevel int
		stagingDir       string
		fs               afero.Fs
	}
)

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	return f == FormatArchive || f == FormatDirectory
}

func defaultOptions() options {
	return options{
		logger:           discardLogger(),
		parser:           HeaderParser{},
		format:           FormatArchive,
		compressionLevel: vpkfs.DefaultCompressionLevel,
		fs:               afero.NewOsFs(),
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for debug tracing. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMdlParser replaces the definition-document identity parser.
func WithMdlParser(parser MdlParser) Option {
	return func(o *options) {
		if parser != nil {
			o.parser = parser
		}
	}
}

// WithLitterDirs sets the directory names skipped by code collection.
func WithLitterDirs(dirs ...string) Option {
	return func(o *options) {
		o.litterDirs = dirs
	}
}

// WithCodeIgnore adds doublestar patterns excluded from code collection.
func WithCodeIgnore(patterns ...string) Option {
	return func(o *options) {
		o.ignore = append(o.ignore, patterns...)
	}
}

// WithFormat sets the Dump destination format. The default is FormatArchive.
func WithFormat(format Format) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithCompressionLevel sets the flate level for FormatArchive.
func WithCompressionLevel(level int) Option {
	return func(o *options) {
		o.compressionLevel = level
	}
}

// WithStagingDir sets the parent of the Dump staging directory. The default is
// the OS temporary directory.
func WithStagingDir(dir string) Option {
	return func(o *options) {
		o.stagingDir = dir
	}
}

// WithFs sets the filesystem used to open sources, stage and write
// destinations. The default is the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// SPDX-License-Identifier: MPL-2.0

package vpkfs

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Path locates an entry inside a package Source. Names are slash-separated and
// relative to the package root; the root itself is ".".
type Path struct {
	fsys     fs.FS
	name     string
	location string
}

// Name returns the final element of the path. For the root it is the base
// name of the source location.
func (p Path) Name() string {
	if p.IsRoot() {
		return path.Base(strings.ReplaceAll(p.location, "\\", "/"))
	}
	return path.Base(p.name)
}

// Ext returns the extension of the final element, including the dot.
func (p Path) Ext() string {
	return path.Ext(p.Name())
}

// Stem returns the final element without its extension.
func (p Path) Stem() string {
	name := p.Name()
	return strings.TrimSuffix(name, path.Ext(name))
}

// Rel returns the path relative to the package root.
func (p Path) Rel() string { return p.name }

// IsRoot reports whether p is the package root.
func (p Path) IsRoot() bool { return p.name == "." }

// Join returns the path of a descendant.
func (p Path) Join(elem ...string) Path {
	parts := make([]string, 0, len(elem)+1)
	parts = append(parts, p.name)
	parts = append(parts, elem...)
	return Path{fsys: p.fsys, name: path.Join(parts...), location: p.location}
}

// Exists reports whether the entry exists.
func (p Path) Exists() bool {
	_, err := fs.Stat(p.fsys, p.name)
	return err == nil
}

// IsDir reports whether the entry exists and is a directory.
func (p Path) IsDir() bool {
	info, err := fs.Stat(p.fsys, p.name)
	return err == nil && info.IsDir()
}

// Children lists the direct children of a directory, sorted by name.
func (p Path) Children() ([]Path, error) {
	entries, err := fs.ReadDir(p.fsys, p.name)
	if err != nil {
		return nil, p.wrap(err)
	}

	children := make([]Path, 0, len(entries))
	for _, entry := range entries {
		children = append(children, p.Join(entry.Name()))
	}
	return children, nil
}

// ReadText returns the content of a file entry.
func (p Path) ReadText() (string, error) {
	data, err := fs.ReadFile(p.fsys, p.name)
	if err != nil {
		return "", p.wrap(err)
	}
	return string(data), nil
}

// String returns a diagnostic form: the source location followed by the
// member name.
func (p Path) String() string {
	if p.name == "." {
		return p.location
	}
	return p.location + "/" + p.name
}

func (p Path) wrap(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &NotFoundError{Path: p.String()}
	}
	return fmt.Errorf("failed to read %s: %w", p.String(), err)
}

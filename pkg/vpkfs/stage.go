// SPDX-License-Identifier: MPL-2.0

package vpkfs

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/afero"
)

const stagePrefix = "overpack-stage-"

// Stage is a private temporary directory used to materialize a package layout
// before it is packaged. Close removes it; callers defer Close right after
// NewStage so the area is released on every exit path.
type Stage struct {
	fs   afero.Fs
	dir  string
	view afero.Fs
}

// NewStage creates a fresh staging directory under parent on fs. An empty
// parent selects the OS temporary directory.
func NewStage(fs afero.Fs, parent string) (*Stage, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if parent != "" {
		if err := fs.MkdirAll(parent, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create staging parent %s: %w", parent, err)
		}
	}

	dir, err := afero.TempDir(fs, parent, stagePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	return &Stage{fs: fs, dir: dir, view: afero.NewBasePathFs(fs, dir)}, nil
}

// Dir returns the staging directory on the backing filesystem.
func (s *Stage) Dir() string { return s.dir }

// Fs returns a filesystem rooted at the staging directory. Names written
// through it are relative to the package root.
func (s *Stage) Fs() afero.Fs { return s.view }

// WriteFile writes name (relative to the package root) into the stage.
func (s *Stage) WriteFile(name string, data []byte) error {
	return WriteFile(s.view, name, data)
}

// Close removes the staging directory and everything in it.
func (s *Stage) Close() error {
	if err := s.fs.RemoveAll(s.dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove staging directory %s: %w", s.dir, err)
	}
	return nil
}

// WriteFile writes data to the slash-separated name on fs, creating parent
// directories as needed.
func WriteFile(fs afero.Fs, name string, data []byte) error {
	if dir := path.Dir(name); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(fs, name, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package vpkfs

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/spf13/afero"
)

// DefaultCompressionLevel is the flate level used when none is configured.
const DefaultCompressionLevel = flate.DefaultCompression

// FixedZipTime is stamped on every archive entry so identical trees produce
// identical containers (1980-01-01 UTC, the ZIP epoch).
var FixedZipTime = time.Unix(315532800, 0).UTC()

// ValidCompressionLevel reports whether level is accepted by WriteArchive.
func ValidCompressionLevel(level int) bool {
	return level >= flate.HuffmanOnly && level <= flate.BestCompression
}

// WriteArchive packages the staged tree as a ZIP container at dest on dst.
// Entries are written in lexical order with explicit directory entries and
// fixed timestamps. A partially written container is removed on failure.
func WriteArchive(stage *Stage, dst afero.Fs, dest string, level int) (err error) {
	if !ValidCompressionLevel(level) {
		return fmt.Errorf("invalid compression level %d", level)
	}
	if err = ensureParent(dst, dest); err != nil {
		return err
	}

	out, err := dst.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create container %s: %w", dest, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close container: %w", closeErr)
		}
		if err != nil {
			_ = dst.Remove(dest)
		}
	}()

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to finalize container: %w", closeErr)
		}
	}()

	return walkStage(stage, func(rel string, info os.FileInfo) error {
		if info.IsDir() {
			return addDirEntry(zw, rel)
		}
		return addFileEntry(zw, stage.fs, filepath.Join(stage.dir, filepath.FromSlash(rel)), rel)
	})
}

// CopyTree materializes the staged tree as a plain directory at dest on dst.
// dest must not exist yet; a partially copied tree is removed on failure.
func CopyTree(stage *Stage, dst afero.Fs, dest string) (err error) {
	if exists, existsErr := afero.Exists(dst, dest); existsErr != nil {
		return fmt.Errorf("failed to check destination %s: %w", dest, existsErr)
	} else if exists {
		return fmt.Errorf("destination %s already exists", dest)
	}
	if err = dst.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("failed to create destination %s: %w", dest, err)
	}
	defer func() {
		if err != nil {
			_ = dst.RemoveAll(dest)
		}
	}()

	return walkStage(stage, func(rel string, info os.FileInfo) error {
		target := filepath.Join(dest, filepath.FromSlash(rel))
		if info.IsDir() {
			return dst.MkdirAll(target, 0o755)
		}
		data, readErr := afero.ReadFile(stage.fs, filepath.Join(stage.dir, filepath.FromSlash(rel)))
		if readErr != nil {
			return fmt.Errorf("failed to read staged %s: %w", rel, readErr)
		}
		if writeErr := afero.WriteFile(dst, target, data, 0o644); writeErr != nil {
			return fmt.Errorf("failed to write %s: %w", target, writeErr)
		}
		return nil
	})
}

// walkStage visits every entry below the stage root in lexical order, passing
// the slash-separated path relative to the root.
func walkStage(stage *Stage, visit func(rel string, info os.FileInfo) error) error {
	return afero.Walk(stage.fs, stage.dir, func(p string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(stage.dir, p)
		if err != nil {
			return fmt.Errorf("failed to resolve staged path %s: %w", p, err)
		}
		if rel == "." {
			return nil
		}
		return visit(filepath.ToSlash(rel), info)
	})
}

func addDirEntry(zw *zip.Writer, rel string) error {
	h := &zip.FileHeader{Name: rel + "/", Method: zip.Store, Modified: FixedZipTime}
	h.SetMode(os.ModeDir | 0o755)
	if _, err := zw.CreateHeader(h); err != nil {
		return fmt.Errorf("create %s: %w", rel, err)
	}
	return nil
}

func addFileEntry(zw *zip.Writer, fs afero.Fs, src, rel string) (err error) {
	f, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", rel, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	h := &zip.FileHeader{Name: rel, Method: zip.Deflate, Modified: FixedZipTime}
	h.SetMode(0o644)
	w, err := zw.CreateHeader(h)
	if err != nil {
		return fmt.Errorf("create %s: %w", rel, err)
	}
	if _, err = io.Copy(w, f); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

func ensureParent(fs afero.Fs, dest string) error {
	if dest == "" {
		return errors.New("destination cannot be empty")
	}
	dir := filepath.Dir(dest)
	if dir == "." {
		return nil
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

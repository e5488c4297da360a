// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"golang.org/x/exp/maps"
)

// Tree maps slash-separated package member names to file contents. Names ending
// in "/" denote empty directories.
type Tree map[string]string

// MapFS returns the tree as an in-memory fs.FS.
func (tr Tree) MapFS() fstest.MapFS {
	fsys := make(fstest.MapFS, len(tr))
	for name, content := range tr {
		if strings.HasSuffix(name, "/") {
			fsys[strings.TrimSuffix(name, "/")] = &fstest.MapFile{Mode: os.ModeDir | 0o755}
			continue
		}
		fsys[name] = &fstest.MapFile{Data: []byte(content), Mode: 0o644}
	}
	return fsys
}

// Names returns the member names in lexical order.
func (tr Tree) Names() []string {
	names := slices.Collect(maps.Keys(tr))
	slices.Sort(names)
	return names
}

// MustWriteTree writes the tree below dir on the OS filesystem.
func MustWriteTree(t testing.TB, dir string, tr Tree) {
	t.Helper()
	for _, name := range tr.Names() {
		target := filepath.Join(dir, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			MustMkdirAll(t, target, 0o755)
			continue
		}
		MustMkdirAll(t, filepath.Dir(target), 0o755)
		if err := os.WriteFile(target, []byte(tr[name]), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", target, err)
		}
	}
}

// MustWriteZip writes the tree as a ZIP container at path. Members are stored
// in lexical order without directory entries, the way many archivers do.
func MustWriteZip(t testing.TB, path string, tr Tree) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path), 0o755)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer MustClose(t, f)

	zw := zip.NewWriter(f)
	for _, name := range tr.Names() {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s: %v", name, err)
		}
		if strings.HasSuffix(name, "/") {
			continue
		}
		if _, err := io.WriteString(w, tr[name]); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finalize %s: %v", path, err)
	}
}

// MustReadZip returns the file members of the ZIP container at path.
func MustReadZip(t testing.TB, path string) Tree {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer MustClose(t, zr)

	tr := make(Tree, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open member %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		MustClose(t, rc)
		if err != nil {
			t.Fatalf("failed to read member %s: %v", f.Name, err)
		}
		tr[f.Name] = string(data)
	}
	return tr
}

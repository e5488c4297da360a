// SPDX-License-Identifier: MPL-2.0

package vpkfs

import (
	"errors"
	"testing"
	"testing/fstest"
)

func newMapSource() *Source {
	fsys := fstest.MapFS{
		"vaultpackage.xml":                          {Data: []byte("<vaultpackage/>")},
		"components/00001/Picklist.color.md5":       {Data: []byte("abc Picklist.color")},
		"components/00001/Picklist.color.mdl":       {Data: []byte("RECREATE Picklist color ()")},
		"components/00002/accounts.CSV":             {Data: []byte("id\n1\n")},
		"components/00002/accounts.xml":             {Data: []byte("<datastep/>")},
		"components/.DS_Store":                      {Data: []byte{0}},
		"javasdk/src/main/java/com/acme/Hello.java": {Data: []byte("class Hello {}")},
	}
	return OpenFS(fsys, KindFS, "memory.vpk")
}

func TestPath_Accessors(t *testing.T) {
	t.Parallel()

	root := newMapSource().Root()

	tests := []struct {
		name     string
		path     Path
		wantName string
		wantExt  string
		wantStem string
		wantRel  string
		wantRoot bool
	}{
		{"root", root, "memory.vpk", ".vpk", "memory", ".", true},
		{"joined nothing", root.Join(), "memory.vpk", ".vpk", "memory", ".", true},
		{"directory", root.Join("components", "00001"), "00001", "", "00001", "components/00001", false},
		{"dotted stem", root.Join("components/00001/Picklist.color.mdl"), "Picklist.color.mdl", ".mdl", "Picklist.color", "components/00001/Picklist.color.mdl", false},
		{"upper-case extension", root.Join("components/00002/accounts.CSV"), "accounts.CSV", ".CSV", "accounts", "components/00002/accounts.CSV", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.path.Name(); got != tt.wantName {
				t.Errorf("Name() = %q, want %q", got, tt.wantName)
			}
			if got := tt.path.Ext(); got != tt.wantExt {
				t.Errorf("Ext() = %q, want %q", got, tt.wantExt)
			}
			if got := tt.path.Stem(); got != tt.wantStem {
				t.Errorf("Stem() = %q, want %q", got, tt.wantStem)
			}
			if got := tt.path.Rel(); got != tt.wantRel {
				t.Errorf("Rel() = %q, want %q", got, tt.wantRel)
			}
			if got := tt.path.IsRoot(); got != tt.wantRoot {
				t.Errorf("IsRoot() = %v, want %v", got, tt.wantRoot)
			}
		})
	}
}

func TestPath_ExistsAndIsDir(t *testing.T) {
	t.Parallel()

	root := newMapSource().Root()

	if !root.IsDir() {
		t.Error("root should be a directory")
	}
	if !root.Join("components").IsDir() {
		t.Error("implicit directory components/ should be a directory")
	}
	if root.Join("vaultpackage.xml").IsDir() {
		t.Error("vaultpackage.xml should not be a directory")
	}
	if !root.Join("vaultpackage.xml").Exists() {
		t.Error("vaultpackage.xml should exist")
	}
	if root.Join("missing.xml").Exists() {
		t.Error("missing.xml should not exist")
	}
}

func TestPath_Children(t *testing.T) {
	t.Parallel()

	root := newMapSource().Root()

	children, err := root.Join("components").Children()
	if err != nil {
		t.Fatalf("Children() error = %v", err)
	}

	want := []string{".DS_Store", "00001", "00002"}
	if len(children) != len(want) {
		t.Fatalf("Children() returned %d entries, want %d", len(children), len(want))
	}
	for i, child := range children {
		if child.Name() != want[i] {
			t.Errorf("child[%d] = %q, want %q", i, child.Name(), want[i])
		}
	}

	if _, err := root.Join("nope").Children(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Children() on missing dir error = %v, want ErrNotFound", err)
	}
}

func TestPath_ReadText(t *testing.T) {
	t.Parallel()

	root := newMapSource().Root()

	text, err := root.Join("vaultpackage.xml").ReadText()
	if err != nil {
		t.Fatalf("ReadText() error = %v", err)
	}
	if text != "<vaultpackage/>" {
		t.Errorf("ReadText() = %q", text)
	}

	_, err = root.Join("components", "missing.md5").ReadText()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadText() error = %v, want ErrNotFound", err)
	}
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("error should be *NotFoundError, got %T", err)
	}
	if nfErr.Path != "memory.vpk/components/missing.md5" {
		t.Errorf("NotFoundError.Path = %q", nfErr.Path)
	}
}

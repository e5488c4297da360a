// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/overpack/overpack/internal/issue"
	"github.com/overpack/overpack/pkg/vpk"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
	if cfg.Dump.Format != vpk.FormatArchive {
		t.Errorf("Dump.Format = %q, want %q", cfg.Dump.Format, vpk.FormatArchive)
	}
	if !slices.Equal(cfg.Code.LitterDirs, vpk.DefaultLitterDirs) {
		t.Errorf("Code.LitterDirs = %v, want %v", cfg.Code.LitterDirs, vpk.DefaultLitterDirs)
	}
	if cfg.Watch.Debounce != defaultDebounce {
		t.Errorf("Watch.Debounce = %q, want %q", cfg.Watch.Debounce, defaultDebounce)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
dump: {
	format: "directory"
	compression_level: 9
}
code: ignore: ["**/Test*.java"]
`)

	cfg, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
	if cfg.Dump.Format != vpk.FormatDirectory {
		t.Errorf("Dump.Format = %q, want directory", cfg.Dump.Format)
	}
	if cfg.Dump.CompressionLevel != 9 {
		t.Errorf("Dump.CompressionLevel = %d, want 9", cfg.Dump.CompressionLevel)
	}
	if !slices.Equal(cfg.Code.Ignore, []string{"**/Test*.java"}) {
		t.Errorf("Code.Ignore = %v", cfg.Code.Ignore)
	}
	// Unset sections keep their defaults.
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("UI.ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.cue")
	_, err := NewProvider().Load(t.Context(), LoadOptions{ConfigFilePath: missing})
	if err == nil {
		t.Fatal("Load() expected error for missing explicit file")
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *issue.ActionableError, got %T", err)
	}
	if ae.Resource != missing {
		t.Errorf("Resource = %q, want %q", ae.Resource, missing)
	}
	if len(ae.Suggestions) == 0 {
		t.Error("expected suggestions")
	}
	if ae.Issue == nil || ae.Issue.Id() != issue.ConfigLoadFailedId {
		t.Errorf("Issue = %v, want config-load-failed", ae.Issue)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"unknown format", `dump: format: "tarball"`},
		{"level out of range", `dump: compression_level: 12`},
		{"bad color scheme", `ui: color_scheme: "neon"`},
		{"bad debounce", `watch: debounce: "soon"`},
		{"unknown field", `dump: speed: 3`},
		{"syntax error", `dump: {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := writeConfig(t, dir, tt.content)

			_, err := NewProvider().Load(t.Context(), LoadOptions{ConfigFilePath: path})
			if err == nil {
				t.Fatal("Load() expected error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("expected *issue.ActionableError, got %T", err)
			}
			if ae.Operation != "load configuration" {
				t.Errorf("Operation = %q", ae.Operation)
			}
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("OVERPACK_DUMP_FORMAT", "directory")
	t.Chdir(t.TempDir())

	cfg, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Dump.Format != vpk.FormatDirectory {
		t.Errorf("Dump.Format = %q, want directory", cfg.Dump.Format)
	}
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	t.Setenv("OVERPACK_DUMP_FORMAT", "rar")
	t.Chdir(t.TempDir())

	_, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested")
	opts := LoadOptions{ConfigDirPath: dir}

	path, created, err := CreateDefaultConfig(opts)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if !created {
		t.Error("expected file to be created")
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("path = %q", path)
	}

	_, created, err = CreateDefaultConfig(opts)
	if err != nil {
		t.Fatalf("second CreateDefaultConfig() error = %v", err)
	}
	if created {
		t.Error("existing file must not be overwritten")
	}

	// The generated file must round-trip through the schema.
	cfg, err := NewProvider().Load(t.Context(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load(generated) error = %v", err)
	}
	want := DefaultConfig()
	if cfg.Dump != want.Dump || cfg.UI != want.UI || cfg.Watch != want.Watch {
		t.Errorf("generated config differs from defaults: %+v", cfg)
	}
}

func TestGenerateCUE(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Dump.StagingDir = "/var/tmp"
	cfg.Code.Ignore = []string{"**/*Test.java"}

	out := GenerateCUE(cfg)
	for _, want := range []string{
		`format: "archive"`,
		`staging_dir: "/var/tmp"`,
		`ignore: ["**/*Test.java"]`,
		`litter_dirs: ["__MACOSX"]`,
		`debounce: "500ms"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("GenerateCUE() missing %q in:\n%s", want, out)
		}
	}
}

func TestConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG lookup applies to Linux and others")
	}
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if dir != filepath.Join(base, AppName) {
		t.Errorf("ConfigDir() = %q", dir)
	}
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/overpack/overpack/pkg/vpk"
	"github.com/overpack/overpack/pkg/vpkfs"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	defaultDebounce = "500ms"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidDumpConfig is the sentinel error wrapped by InvalidDumpConfigError.
	ErrInvalidDumpConfig = errors.New("invalid dump config")
	// ErrInvalidCodeConfig is the sentinel error wrapped by InvalidCodeConfigError.
	ErrInvalidCodeConfig = errors.New("invalid code config")
	// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the terminal palette.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidDumpConfigError names an invalid dump setting.
	InvalidDumpConfigError struct {
		Field  string
		Reason string
	}

	// InvalidCodeConfigError names an invalid code collection setting.
	InvalidCodeConfigError struct {
		Field  string
		Reason string
	}

	// InvalidWatchConfigError names an invalid watch setting.
	InvalidWatchConfigError struct {
		Field  string
		Reason string
	}

	// InvalidConfigError aggregates field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the complete application configuration.
	Config struct {
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Code configures SDK source collection.
		Code CodeConfig `json:"code" mapstructure:"code"`
		// Dump configures package writing.
		Dump DumpConfig `json:"dump" mapstructure:"dump"`
		// Watch configures validate --watch.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`

		// Source is the file the configuration was read from; empty when only
		// defaults apply.
		Source string `json:"-" mapstructure:"-"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}

	// CodeConfig configures SDK source collection.
	CodeConfig struct {
		// LitterDirs are directory names skipped wherever they occur.
		LitterDirs []string `json:"litter_dirs" mapstructure:"litter_dirs"`
		// Ignore holds doublestar patterns excluded from collection.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
	}

	// DumpConfig configures package writing.
	DumpConfig struct {
		Format           vpk.Format `json:"format" mapstructure:"format"`
		CompressionLevel int        `json:"compression_level" mapstructure:"compression_level"`
		// StagingDir is the parent of staging areas; empty means the OS temp dir.
		StagingDir string `json:"staging_dir" mapstructure:"staging_dir"`
	}

	// WatchConfig configures validate --watch.
	WatchConfig struct {
		// Debounce is a Go duration string.
		Debounce string `json:"debounce" mapstructure:"debounce"`
	}
)

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is a known value.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid checks the format and compression level.
func (c DumpConfig) IsValid() (bool, []error) {
	var errs []error
	if !c.Format.IsValid() {
		errs = append(errs, &InvalidDumpConfigError{Field: "format", Reason: fmt.Sprintf("unknown format %q", c.Format)})
	}
	if !vpkfs.ValidCompressionLevel(c.CompressionLevel) {
		errs = append(errs, &InvalidDumpConfigError{Field: "compression_level", Reason: fmt.Sprintf("%d is outside -2..9", c.CompressionLevel)})
	}
	return len(errs) == 0, errs
}

// Error implements the error interface.
func (e *InvalidDumpConfigError) Error() string {
	return fmt.Sprintf("dump.%s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrInvalidDumpConfig for errors.Is() compatibility.
func (e *InvalidDumpConfigError) Unwrap() error { return ErrInvalidDumpConfig }

// IsValid checks that every ignore pattern compiles.
func (c CodeConfig) IsValid() (bool, []error) {
	var errs []error
	for i, pattern := range c.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, &InvalidCodeConfigError{Field: fmt.Sprintf("ignore[%d]", i), Reason: fmt.Sprintf("invalid pattern %q", pattern)})
		}
	}
	return len(errs) == 0, errs
}

// Error implements the error interface.
func (e *InvalidCodeConfigError) Error() string {
	return fmt.Sprintf("code.%s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrInvalidCodeConfig for errors.Is() compatibility.
func (e *InvalidCodeConfigError) Unwrap() error { return ErrInvalidCodeConfig }

// DebounceDuration parses Debounce.
func (c WatchConfig) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Debounce)
	if err != nil {
		return 0, &InvalidWatchConfigError{Field: "debounce", Reason: err.Error()}
	}
	if d <= 0 {
		return 0, &InvalidWatchConfigError{Field: "debounce", Reason: "must be positive"}
	}
	return d, nil
}

// IsValid checks that Debounce is a positive duration.
func (c WatchConfig) IsValid() (bool, []error) {
	if _, err := c.DebounceDuration(); err != nil {
		return false, []error{err}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidWatchConfigError) Error() string {
	return fmt.Sprintf("watch.%s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }

// IsValid validates every section.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Code.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Dump.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Watch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
		Code: CodeConfig{
			LitterDirs: append([]string(nil), vpk.DefaultLitterDirs...),
			Ignore:     []string{},
		},
		Dump: DumpConfig{
			Format:           vpk.FormatArchive,
			CompressionLevel: vpkfs.DefaultCompressionLevel,
			StagingDir:       "", // OS temp dir
		},
		Watch: WatchConfig{
			Debounce: defaultDebounce,
		},
	}
}

// VpkOptions translates the configuration into engine options.
func (c *Config) VpkOptions() []vpk.Option {
	return []vpk.Option{
		vpk.WithLitterDirs(c.Code.LitterDirs...),
		vpk.WithCodeIgnore(c.Code.Ignore...),
		vpk.WithFormat(c.Dump.Format),
		vpk.WithCompressionLevel(c.Dump.CompressionLevel),
		vpk.WithStagingDir(c.Dump.StagingDir),
	}
}

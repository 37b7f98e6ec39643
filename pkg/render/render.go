package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/config"
)

// Format is an output file format.
type Format string

const (
	FormatPython Format = "python"
	FormatYAML   Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPython, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (python or yaml)", s)
	}
}

// DefaultFileName is the name the framework looks for.
func (f Format) DefaultFileName() string {
	if f == FormatYAML {
		return "config.yml"
	}
	return "sentry.conf.py"
}

// Write renders cfg in format f.
func Write(w io.Writer, f Format, cfg *config.SentryConfig) error {
	switch f {
	case FormatPython:
		return Python(w, cfg)
	case FormatYAML:
		return YAML(w, cfg)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// YAML writes the SENTRY_OPTIONS mapping as a config.yml options file.
func YAML(w io.Writer, cfg *config.SentryConfig) error {
	if _, err := io.WriteString(w, "# Generated by sentryctl. Local edits are overwritten on the next render.\n"); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Options()); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile renders cfg to path. The file is replaced atomically and is
// only readable by its owner since it carries secrets.
func WriteFile(path string, f Format, cfg *config.SentryConfig) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := Write(tmp, f, cfg); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to render %s: %w", f, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pathmap maps input files onto an output tree, preserving the
// folder structure below the input root and forcing the output extension.
package pathmap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/docconv/internal/errs"
)

// Mapper maps sources under InputRoot to outputs under OutputRoot.
type Mapper struct {
	inputRoot  string
	outputRoot string
	suffix     string
}

// New validates the mapping configuration. An output root always needs an
// output suffix, otherwise mixed input types could not be mapped
// deterministically.
func New(inputRoot, outputRoot, outputSuffix string) (*Mapper, error) {
	if outputRoot == "" {
		return nil, fmt.Errorf("%w: output root is required", errs.ErrConfiguration)
	}
	if outputSuffix == "" {
		return nil, fmt.Errorf("%w: output root %s given without an output suffix", errs.ErrConfiguration, outputRoot)
	}
	if !strings.HasPrefix(outputSuffix, ".") || len(outputSuffix) < 2 {
		return nil, fmt.Errorf("%w: output suffix %q must start with a dot", errs.ErrConfiguration, outputSuffix)
	}

	in, err := filepath.Abs(inputRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving input root %s: %v", errs.ErrFilesystem, inputRoot, err)
	}
	out, err := filepath.Abs(outputRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving output root %s: %v", errs.ErrFilesystem, outputRoot, err)
	}
	return &Mapper{inputRoot: in, outputRoot: out, suffix: outputSuffix}, nil
}

// OutputRoot returns the absolute output root.
func (m *Mapper) OutputRoot() string { return m.outputRoot }

// Target computes the output path for source without touching the
// filesystem.
func (m *Mapper) Target(source string) (string, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %s: %v", errs.ErrInvalidInput, source, err)
	}
	rel, err := filepath.Rel(m.inputRoot, abs)
	if err != nil || !local(rel) {
		return "", fmt.Errorf("%w: %s is not under input root %s", errs.ErrInvalidInput, source, m.inputRoot)
	}

	out := filepath.Join(m.outputRoot, rel)
	out = strings.TrimSuffix(out, filepath.Ext(out)) + m.suffix

	if r, err := filepath.Rel(m.outputRoot, out); err != nil || !local(r) {
		return "", fmt.Errorf("%w: %s escapes output root %s", errs.ErrInvalidInput, out, m.outputRoot)
	}
	return out, nil
}

// Prepare computes the output path for source and creates its parent
// directories. Directory creation is idempotent and safe under concurrent
// callers.
func (m *Mapper) Prepare(source string) (string, error) {
	out, err := m.Target(source)
	if err != nil {
		return "", err
	}
	if err := EnsureParent(out); err != nil {
		return "", err
	}
	return out, nil
}

// EnsureParent creates all ancestor directories of path.
func EnsureParent(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", errs.ErrFilesystem, dir, err)
	}
	return nil
}

// DefaultOutput is the converters' default naming convention: a sibling of
// source with the same stem and outputSuffix as extension.
func DefaultOutput(source, outputSuffix string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + outputSuffix
}

// local reports whether rel stays inside its base directory and names a
// file rather than the base itself.
func local(rel string) bool {
	return rel != "." && filepath.IsLocal(rel)
}

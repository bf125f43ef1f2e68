// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert is the gateway to the external document converter.
//
// A Converter turns one source file into one output file and reports the
// path it wrote. Backends run pandoc locally or inside a container; the
// batch engine and the single-file commands only see the Converter
// interface and its error contract (errs.ConversionError).
package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pdiddy/docconv/internal/errs"
	"github.com/pdiddy/docconv/internal/pathmap"
	"github.com/pdiddy/docconv/internal/versioning"
)

// Converter transforms src into dst. An empty dst selects the backend's
// default naming (sibling file, same stem, converted extension). Convert
// returns the path it wrote; failures match errs.ErrConversion.
type Converter interface {
	Convert(ctx context.Context, src, dst string) (string, error)
}

// ConverterFunc adapts a plain function to Converter.
type ConverterFunc func(ctx context.Context, src, dst string) (string, error)

// Convert calls f.
func (f ConverterFunc) Convert(ctx context.Context, src, dst string) (string, error) {
	return f(ctx, src, dst)
}

// FileOptions controls single-file conversion.
type FileOptions struct {
	// Force overwrites an existing output.
	Force bool
	// Versioned appends a date and per-day version suffix to the output.
	Versioned bool
	// Allocator chooses versioned names; a fresh one is used when nil.
	Allocator *versioning.Allocator
}

// ConvertFile runs one conversion the way the docx2md and md2docx commands
// do: default the output name, optionally version it, and refuse to
// overwrite an existing output unless forced.
func ConvertFile(ctx context.Context, c Converter, mode Mode, src, dst string, opts FileOptions) (string, error) {
	if err := validateSource(mode, src); err != nil {
		return "", err
	}
	if dst == "" {
		dst = mode.DefaultOutput(src)
	}

	if opts.Versioned {
		alloc := opts.Allocator
		if alloc == nil {
			alloc = versioning.NewAllocator()
		}
		v, err := alloc.Allocate(dst)
		if err != nil {
			return "", err
		}
		dst = v
	}

	if !opts.Force && !opts.Versioned {
		_, err := os.Stat(dst)
		switch {
		case err == nil:
			return "", fmt.Errorf("%w: %s (use --force or --versioned)", errs.ErrOutputExists, dst)
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("%w: checking %s: %v", errs.ErrFilesystem, dst, err)
		}
	}

	if err := pathmap.EnsureParent(dst); err != nil {
		return "", err
	}
	return c.Convert(ctx, src, dst)
}

// validateSource checks that src exists, is a regular file, and carries
// one of the mode's input extensions.
func validateSource(mode Mode, src string) error {
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: input file not found: %s", errs.ErrInvalidInput, src)
		}
		return fmt.Errorf("%w: %s: %v", errs.ErrFilesystem, src, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", errs.ErrInvalidInput, src)
	}
	if !mode.Accepts(src) {
		return fmt.Errorf("%w: %s is not a %s input (want %v)", errs.ErrInvalidInput, src, mode.Name, mode.Accept)
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package errs defines the error taxonomy shared by the conversion engine.
// Callers classify failures with errors.Is against the sentinels below;
// concrete errors wrap a sentinel with fmt.Errorf("...: %w", ...).
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks an invalid combination of inputs detected
	// before any work starts. It is always fatal for a batch.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidInput marks a per-path precondition violation, such as a
	// versioned path without an extension or a source outside the input root.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConversion marks a failure reported by the external converter.
	ErrConversion = errors.New("conversion failed")

	// ErrFilesystem marks a directory creation, stat, or write failure.
	ErrFilesystem = errors.New("filesystem error")

	// ErrOutputExists is returned by single-file conversion when the target
	// exists and neither force nor versioning was requested.
	ErrOutputExists = errors.New("output exists")

	// ErrPandocNotFound is returned when no pandoc binary can be resolved.
	ErrPandocNotFound = errors.New("pandoc not found")
)

// ConversionError is the failure contract of the conversion gateway. It
// carries the source path and a human-readable reason and matches
// ErrConversion under errors.Is.
type ConversionError struct {
	Source string
	Reason string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("converting %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("converting %s: %s", e.Source, e.Reason)
}

// Unwrap exposes both the ErrConversion sentinel and the underlying cause.
func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConversion}
	}
	return []error{ErrConversion, e.Err}
}

// Conversion builds a ConversionError for src.
func Conversion(src, reason string, err error) error {
	return &ConversionError{Source: src, Reason: reason, Err: err}
}

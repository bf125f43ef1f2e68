//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Doctor builds the CLI and checks the local conversion environment.
func Doctor() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "doctor")
}

// Smoke builds the CLI, scaffolds a throwaway project, dry-runs a batch over
// it and bumps its version. It needs no pandoc.
func Smoke() error {
	mg.Deps(Build)
	bin := filepath.Join(binDir, binName)

	dir, err := os.MkdirTemp("", "docconv-smoke-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	if err := sh.RunV(bin, "scaffold", "project", "smoke", dir); err != nil {
		return err
	}
	docs := filepath.Join(dir, "smoke", "docs")
	if err := os.WriteFile(filepath.Join(docs, "notes.md"), []byte("# Notes\n"), 0o644); err != nil {
		return err
	}
	if err := sh.RunV(bin, "batch", "md2docx", docs, "--dry-run", "--versioned", "--report", "yaml"); err != nil {
		return fmt.Errorf("batch dry run: %w", err)
	}
	version := filepath.Join(dir, "smoke", "VERSION")
	if err := os.WriteFile(version, []byte("0.1.0\n"), 0o644); err != nil {
		return err
	}
	if err := sh.RunV(bin, "bump-version", "minor", "--file", version); err != nil {
		return fmt.Errorf("bump-version: %w", err)
	}
	fmt.Println("Smoke test passed.")
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scaffold creates starter folder layouts for documentation work.
package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/docconv/internal/errs"
)

var projectDirs = []string{"docs", "src", "tests"}

const gitignore = `.venv/
__pycache__/
*.pyc
.DS_Store
.idea/
.vscode/
build/
dist/
bin/
*.log
`

func readme(name string) string {
	return "# " + name + "\n\n" +
		"## Overview\n\n" +
		"Describe the purpose of this project.\n\n" +
		"## Quick Start\n\n" +
		"## Development\n\n" +
		"## Notes\n"
}

// Project creates outDir/name with docs, src and tests folders plus a
// README.md and .gitignore, and returns the project root. It is
// idempotent: existing files are left alone unless force is set.
func Project(name, outDir string, force bool) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: project name cannot be empty", errs.ErrInvalidInput)
	}
	if !filepath.IsLocal(name) || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: project name %q must be a single folder name", errs.ErrInvalidInput, name)
	}

	base, err := filepath.Abs(outDir)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %s: %v", errs.ErrFilesystem, outDir, err)
	}
	root := filepath.Join(base, name)

	for _, d := range append([]string{""}, projectDirs...) {
		dir := filepath.Join(root, d)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("%w: creating %s: %v", errs.ErrFilesystem, dir, err)
		}
	}

	if err := writeFile(filepath.Join(root, "README.md"), readme(name), force); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(root, ".gitignore"), gitignore, force); err != nil {
		return "", err
	}
	return root, nil
}

func writeFile(path, content string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s: %v", errs.ErrFilesystem, path, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", errs.ErrFilesystem, path, err)
	}
	return nil
}

//go:build mage

// Package main contains Mage build targets for docconv developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "docconv"
	cmdPkg  = "./cmd/docconv"
)

// Default runs when mage is invoked without a target.
var Default = Build

// Build compiles the CLI binary into bin/, stamping the version from git.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + gitVersion()
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet on every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs Vet and Test.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// gitVersion describes HEAD, or "dev" outside a git checkout.
func gitVersion() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || v == "" {
		return "dev"
	}
	return v
}

// Stats prints project metrics: Go production/test LOC and documentation word count.
func Stats() error {
	prodLines, testLines, err := countGoLines(".")
	if err != nil {
		return err
	}
	docWords, err := countDocWords(".")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Words (documentation):           %d\n", docWords)
	return nil
}

// skipDir reports directories that are not part of the project sources.
func skipDir(d fs.DirEntry) bool {
	name := d.Name()
	return name != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == binDir)
}

// countGoLines counts non-blank lines in production and test Go files.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := nonBlankLines(data)
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}

// countDocWords counts words in Markdown and YAML files.
func countDocWords(root string) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d) {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".md", ".yaml", ".yml":
		default:
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		total += len(bytes.Fields(data))
		return nil
	})
	return total, err
}

func nonBlankLines(data []byte) int {
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) > 0 {
			n++
		}
	}
	return n
}

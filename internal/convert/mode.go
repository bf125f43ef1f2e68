// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/pdiddy/docconv/internal/errs"
	"github.com/pdiddy/docconv/internal/pathmap"
)

// Mode is one registered conversion direction: which files it consumes,
// which extension it produces, and how pandoc is told to do it.
type Mode struct {
	Name         string
	InputSuffix  string   // suffix used for batch discovery
	OutputSuffix string   // extension of produced files
	Accept       []string // input extensions accepted for single files (lowercase)
	From, To     string   // pandoc reader and writer
	Args         []string // extra pandoc arguments
}

const (
	ModeDocxToMarkdown = "docx2md"
	ModeMarkdownToDocx = "md2docx"
)

var modes = map[string]Mode{
	ModeDocxToMarkdown: {
		Name:         ModeDocxToMarkdown,
		InputSuffix:  ".docx",
		OutputSuffix: ".md",
		Accept:       []string{".docx"},
		From:         "docx",
		To:           "gfm",
		Args:         []string{"--wrap=none"},
	},
	ModeMarkdownToDocx: {
		Name:         ModeMarkdownToDocx,
		InputSuffix:  ".md",
		OutputSuffix: ".docx",
		Accept:       []string{".md", ".markdown"},
		From:         "gfm",
		To:           "docx",
		Args:         []string{"--wrap=none"},
	},
}

func init() {
	for key, m := range modes {
		if err := m.validate(key); err != nil {
			panic(err)
		}
	}
}

func (m Mode) validate(key string) error {
	switch {
	case m.Name != key:
		return fmt.Errorf("mode %q registered under key %q", m.Name, key)
	case !strings.HasPrefix(m.InputSuffix, "."), !strings.HasPrefix(m.OutputSuffix, "."):
		return fmt.Errorf("mode %s: suffixes must start with a dot", key)
	case !slices.Contains(m.Accept, m.InputSuffix):
		return fmt.Errorf("mode %s: input suffix %s not accepted", key, m.InputSuffix)
	case m.From == "" || m.To == "":
		return fmt.Errorf("mode %s: pandoc formats required", key)
	}
	return nil
}

// LookupMode returns the registered mode called name.
func LookupMode(name string) (Mode, error) {
	m, ok := modes[name]
	if !ok {
		return Mode{}, fmt.Errorf("%w: unknown conversion mode %q (valid: %s)",
			errs.ErrConfiguration, name, strings.Join(Modes(), ", "))
	}
	return m, nil
}

// Modes returns the registered mode names in sorted order.
func Modes() []string {
	names := make([]string, 0, len(modes))
	for name := range modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Accepts reports whether path has one of the mode's input extensions.
func (m Mode) Accepts(path string) bool {
	return slices.Contains(m.Accept, strings.ToLower(filepath.Ext(path)))
}

// DefaultOutput names the sibling output file for src.
func (m Mode) DefaultOutput(src string) string {
	return pathmap.DefaultOutput(src, m.OutputSuffix)
}

// pandocArgs builds the pandoc argument list writing to output ("-" for stdout).
func (m Mode) pandocArgs(output string) []string {
	args := make([]string, 0, len(m.Args)+6)
	args = append(args, "--from", m.From, "--to", m.To)
	args = append(args, m.Args...)
	args = append(args, "--output", output)
	return args
}

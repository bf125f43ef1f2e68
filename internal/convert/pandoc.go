// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/docconv/internal/errs"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	Run(ctx context.Context, name string, args []string, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec executor = &osExecutor{}

// PandocConverter runs a local pandoc binary for one mode.
type PandocConverter struct {
	mode Mode
	bin  string
	exec executor
	log  *zap.Logger
}

// NewPandocConverter resolves the pandoc binary (name or path) and returns
// a converter for mode. It fails with errs.ErrPandocNotFound when the
// binary cannot be resolved.
func NewPandocConverter(mode Mode, pandocPath string, log *zap.Logger) (*PandocConverter, error) {
	return newPandocConverter(mode, pandocPath, log, defaultExec)
}

func newPandocConverter(mode Mode, pandocPath string, log *zap.Logger, exec executor) (*PandocConverter, error) {
	if pandocPath == "" {
		pandocPath = "pandoc"
	}
	bin, err := exec.LookPath(pandocPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not on PATH (install pandoc or use --backend container): %v",
			errs.ErrPandocNotFound, pandocPath, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PandocConverter{mode: mode, bin: bin, exec: exec, log: log}, nil
}

// Path returns the resolved pandoc binary.
func (p *PandocConverter) Path() string { return p.bin }

// Convert runs pandoc on src, writing dst (or the mode's default output).
func (p *PandocConverter) Convert(ctx context.Context, src, dst string) (string, error) {
	if err := validateSource(p.mode, src); err != nil {
		return "", errs.Conversion(src, "rejected input", err)
	}
	if dst == "" {
		dst = p.mode.DefaultOutput(src)
	}

	args := append([]string{src}, p.mode.pandocArgs(dst)...)
	p.log.Debug("running pandoc", zap.String("bin", p.bin), zap.Strings("args", args))

	var stderr bytes.Buffer
	if err := p.exec.Run(ctx, p.bin, args, &stderr); err != nil {
		return "", errs.Conversion(src, pandocReason(stderr.String()), err)
	}

	p.log.Info("converted",
		zap.String("mode", p.mode.Name),
		zap.String("source", src),
		zap.String("output", dst))
	return dst, nil
}

// Version reports the version of the resolved pandoc binary.
func (p *PandocConverter) Version(ctx context.Context) (string, error) {
	return pandocVersion(ctx, p.exec, p.bin)
}

// PandocVersion resolves bin on PATH and returns its path and version.
func PandocVersion(ctx context.Context, bin string) (path, version string, err error) {
	path, err = defaultExec.LookPath(bin)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", errs.ErrPandocNotFound, err)
	}
	version, err = pandocVersion(ctx, defaultExec, path)
	return path, version, err
}

func pandocVersion(ctx context.Context, exec executor, bin string) (string, error) {
	out, err := exec.Output(ctx, bin, "--version")
	if err != nil {
		return "", fmt.Errorf("running %s --version: %w", bin, err)
	}
	v := ParseVersionOutput(string(out))
	if v == "" {
		return "", fmt.Errorf("unrecognized %s --version output", bin)
	}
	return v, nil
}

// ParseVersionOutput extracts the version from the first line of
// `pandoc --version` ("pandoc 3.1.11" or "pandoc.exe 3.1.11").
func ParseVersionOutput(out string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	fields := strings.Fields(line)
	if len(fields) < 2 || !strings.HasPrefix(fields[0], "pandoc") {
		return ""
	}
	return fields[1]
}

// pandocReason condenses pandoc's stderr into a one-line failure reason.
func pandocReason(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return "pandoc failed"
	}
	line, _, _ := strings.Cut(stderr, "\n")
	return "pandoc failed: " + line
}

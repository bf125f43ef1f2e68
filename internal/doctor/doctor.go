// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package doctor checks that the environment can run conversions.
package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/pdiddy/docconv/internal/container"
	"github.com/pdiddy/docconv/internal/convert"
	"github.com/pdiddy/docconv/pkg/types"
)

// MinPandocMajor is the oldest pandoc major version known to handle the
// gfm writer options the converters pass.
const MinPandocMajor = 3

// Status grades one check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

func (s Status) mark() string {
	switch s {
	case StatusOK:
		return "✓"
	case StatusWarn:
		return "!"
	default:
		return "✗"
	}
}

// Check is one line of the report.
type Check struct {
	Name   string
	Detail string
	Status Status
	Hint   string
}

// Report collects the checks in the order they ran.
type Report struct {
	Checks []Check
}

// OK reports whether no check failed. Warnings do not count.
func (r Report) OK() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return false
		}
	}
	return true
}

// probes are the environment lookups doctor performs.
type probes struct {
	pandoc  func(ctx context.Context, bin string) (path, version string, err error)
	runtime func(preferred string) (container.Runtime, error)
	workDir func() (string, error)
}

// Run checks the environment for cfg and prints a human-readable report
// to w. The only side effect is a probe file created and removed in the
// working directory.
func Run(ctx context.Context, w io.Writer, cfg types.ConverterConfig) Report {
	return run(ctx, w, cfg, probes{
		pandoc:  convert.PandocVersion,
		runtime: container.Detect,
		workDir: os.Getwd,
	})
}

func run(ctx context.Context, w io.Writer, cfg types.ConverterConfig, p probes) Report {
	bin := cfg.PandocPath
	if bin == "" {
		bin = "pandoc"
	}

	var rep Report
	rep.Checks = append(rep.Checks, Check{Name: "Go", Detail: runtime.Version(), Status: StatusOK})

	path, version, pandocErr := p.pandoc(ctx, bin)
	havePandoc := path != ""
	rt, rtErr := p.runtime(cfg.Runtime)
	rtCheck := runtimeCheck(rt, rtErr, havePandoc, cfg.Image)

	pc := pandocCheck(path, version, pandocErr)
	if !havePandoc && rtCheck.Status == StatusOK && rtCheck.Hint == "" {
		pc.Status = StatusWarn
		pc.Hint = "Conversions will run in " + rt.Name()
	}
	rep.Checks = append(rep.Checks, pc, rtCheck)

	rep.Checks = append(rep.Checks, writeCheck(p.workDir))

	if path == "" {
		path = "(not found)"
	}
	rep.Checks = append(rep.Checks, Check{Name: "pandoc path", Detail: path, Status: StatusOK})

	fmt.Fprint(w, "docconv environment check\n\n")
	for _, c := range rep.Checks {
		fmt.Fprintf(w, "%s: %s  %s\n", c.Name, c.Detail, c.Status.mark())
		if c.Hint != "" {
			fmt.Fprintf(w, "  %s\n", c.Hint)
		}
	}
	return rep
}

func pandocCheck(path, version string, err error) Check {
	c := Check{Name: "Pandoc"}
	switch {
	case path == "":
		c.Detail = "NOT FOUND"
		c.Status = StatusFail
		c.Hint = "Install: https://pandoc.org/installing.html (or use the container backend)"
	case err != nil || version == "":
		c.Detail = "found (version unknown)"
		c.Status = StatusWarn
		if err != nil {
			c.Hint = err.Error()
		}
	default:
		c.Detail = version
		c.Status = StatusOK
		if major, ok := majorVersion(version); ok && major < MinPandocMajor {
			c.Status = StatusWarn
			c.Hint = fmt.Sprintf("pandoc %d.0 or newer is recommended", MinPandocMajor)
		}
	}
	return c
}

// runtimeCheck grades the container runtime. A missing runtime fails only
// when there is no local pandoc to fall back on.
func runtimeCheck(rt container.Runtime, err error, havePandoc bool, image string) Check {
	c := Check{Name: "Container runtime"}
	if err != nil || rt == nil {
		c.Detail = "none"
		c.Status = StatusWarn
		if !havePandoc {
			c.Status = StatusFail
			c.Hint = "Install pandoc or docker/podman"
		}
		return c
	}
	c.Detail = rt.Name()
	c.Status = StatusOK
	if image == "" {
		image = convert.DefaultImage
	}
	if err := rt.ImageExists(image); err != nil {
		c.Detail += " (image " + image + " missing)"
		c.Hint = fmt.Sprintf("Pull it with: %s pull %s", rt.Name(), image)
		if !havePandoc {
			c.Status = StatusWarn
		}
	}
	return c
}

func writeCheck(workDir func() (string, error)) Check {
	c := Check{Name: "Write permissions", Detail: "working directory", Status: StatusOK}
	dir, err := workDir()
	if err == nil {
		var f *os.File
		if f, err = os.CreateTemp(dir, ".docconv-write-test-*.tmp"); err == nil {
			name := f.Name()
			_ = f.Close()
			err = os.Remove(name)
		}
	}
	if err != nil {
		c.Status = StatusFail
		c.Hint = err.Error()
	}
	return c
}

func majorVersion(v string) (int, bool) {
	head, _, _ := strings.Cut(v, ".")
	n, err := strconv.Atoi(head)
	return n, err == nil
}

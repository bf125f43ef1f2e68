// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container finds a local docker or podman installation and runs
// converter images through it, streaming the document over stdin and
// stdout so no host paths need to be mounted.
package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runtime runs converter images.
type Runtime interface {
	// Name returns the runtime binary name ("docker" or "podman").
	Name() string

	// Available reports whether the binary is on PATH and its daemon or
	// service answers.
	Available() bool

	// ImageExists checks whether image is present locally. Images are
	// never pulled implicitly.
	ImageExists(image string) error

	// Run starts image with args, feeds stdin to the container and copies
	// its stdout to stdout. The container has no network access. Stderr is
	// folded into the returned error.
	Run(ctx context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error
}

// flavor describes how one runtime CLI spells the few commands we need.
type flavor struct {
	bin         string
	imageExists []string
}

// flavors is the detection order when no runtime is preferred.
var flavors = []flavor{
	{bin: "docker", imageExists: []string{"image", "inspect"}},
	{bin: "podman", imageExists: []string{"image", "exists"}},
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Succeeds(name string, args ...string) bool
	Stream(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) { return exec.LookPath(file) }

func (osExecutor) Succeeds(name string, args ...string) bool {
	return exec.Command(name, args...).Run() == nil
}

func (osExecutor) Stream(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = stdin, stdout, stderr
	return cmd.Run()
}

// cli is a Runtime backed by a container CLI binary.
type cli struct {
	flavor
	exec executor
}

func (c *cli) Name() string { return c.bin }

func (c *cli) Available() bool {
	if _, err := c.exec.LookPath(c.bin); err != nil {
		return false
	}
	return c.exec.Succeeds(c.bin, "info")
}

func (c *cli) ImageExists(image string) error {
	args := append(append([]string{}, c.imageExists...), image)
	if !c.exec.Succeeds(c.bin, args...) {
		return fmt.Errorf("image %s not present in %s", image, c.bin)
	}
	return nil
}

func (c *cli) Run(ctx context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error {
	argv := append([]string{"run", "--rm", "-i", "--network", "none", image}, args...)

	var stderr bytes.Buffer
	err := c.exec.Stream(ctx, c.bin, argv, stdin, stdout, &stderr)
	if err == nil {
		return nil
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return fmt.Errorf("%s run %s: %w: %s", c.bin, image, err, msg)
	}
	return fmt.Errorf("%s run %s: %w", c.bin, image, err)
}

// Detect returns the first available runtime. A non-empty preferred name
// restricts detection to that runtime.
func Detect(preferred string) (Runtime, error) {
	return detect(osExecutor{}, preferred)
}

func detect(exec executor, preferred string) (Runtime, error) {
	var tried []string
	for _, f := range flavors {
		if preferred != "" && f.bin != preferred {
			continue
		}
		tried = append(tried, f.bin)
		if rt := (&cli{flavor: f, exec: exec}); rt.Available() {
			return rt, nil
		}
	}
	if len(tried) == 0 {
		return nil, fmt.Errorf("unknown container runtime %q (valid: docker, podman)", preferred)
	}
	return nil, fmt.Errorf("no container runtime available: tried %s", strings.Join(tried, ", "))
}

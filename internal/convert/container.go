// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pdiddy/docconv/internal/container"
	"github.com/pdiddy/docconv/internal/errs"
)

// DefaultImage is the pandoc image used by the container backend.
const DefaultImage = "pandoc/core:latest"

// ContainerConverter runs pandoc inside a container image, piping the
// source in on stdin and capturing the result from stdout. It depends on a
// container.Runtime (docker or podman) injected at construction time.
type ContainerConverter struct {
	mode    Mode
	runtime container.Runtime
	image   string
	log     *zap.Logger
}

// NewContainerConverter creates a converter that uses rt to run image. It
// verifies that the image exists locally before returning.
func NewContainerConverter(mode Mode, rt container.Runtime, image string, log *zap.Logger) (*ContainerConverter, error) {
	if image == "" {
		image = DefaultImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("%w: pandoc image not available in %s: %v", errs.ErrPandocNotFound, rt.Name(), err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ContainerConverter{mode: mode, runtime: rt, image: image, log: log}, nil
}

// Convert pipes src through the container and writes dst atomically: the
// output lands in a temporary sibling first and is renamed on success.
func (c *ContainerConverter) Convert(ctx context.Context, src, dst string) (string, error) {
	if err := validateSource(c.mode, src); err != nil {
		return "", errs.Conversion(src, "rejected input", err)
	}
	if dst == "" {
		dst = c.mode.DefaultOutput(src)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", errs.Conversion(src, "opening input", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".docconv-*"+c.mode.OutputSuffix)
	if err != nil {
		return "", errs.Conversion(src, "creating output", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	runErr := c.runtime.Run(ctx, c.image, c.mode.pandocArgs("-"), in, tmp)
	info, statErr := tmp.Stat()
	closeErr := tmp.Close()

	switch {
	case runErr != nil:
		return "", errs.Conversion(src, "pandoc container failed", runErr)
	case statErr != nil:
		return "", errs.Conversion(src, "writing output", statErr)
	case closeErr != nil:
		return "", errs.Conversion(src, "writing output", closeErr)
	case info.Size() == 0:
		return "", errs.Conversion(src, "pandoc produced empty output", nil)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		return "", errs.Conversion(src, "writing output", err)
	}

	c.log.Info("converted",
		zap.String("mode", c.mode.Name),
		zap.String("runtime", c.runtime.Name()),
		zap.String("source", src),
		zap.String("output", dst))
	return dst, nil
}

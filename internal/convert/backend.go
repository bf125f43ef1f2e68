// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/docconv/internal/container"
	"github.com/pdiddy/docconv/internal/errs"
	"github.com/pdiddy/docconv/pkg/types"
)

// NewConverter builds the converter for mode according to cfg.Backend.
// With the auto backend a local pandoc wins and a container runtime is the
// fallback.
func NewConverter(mode Mode, cfg types.ConverterConfig, log *zap.Logger) (Converter, error) {
	return newConverter(mode, cfg, log, defaultExec, container.Detect)
}

func newConverter(
	mode Mode,
	cfg types.ConverterConfig,
	log *zap.Logger,
	exec executor,
	detect func(preferred string) (container.Runtime, error),
) (Converter, error) {
	if log == nil {
		log = zap.NewNop()
	}

	fromContainer := func() (Converter, error) {
		rt, err := detect(cfg.Runtime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrPandocNotFound, err)
		}
		return NewContainerConverter(mode, rt, cfg.Image, log)
	}

	switch cfg.Backend {
	case types.BackendPandoc:
		return newPandocConverter(mode, cfg.PandocPath, log, exec)
	case types.BackendContainer:
		return fromContainer()
	case types.BackendAuto, "":
		p, err := newPandocConverter(mode, cfg.PandocPath, log, exec)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, errs.ErrPandocNotFound) {
			return nil, err
		}
		log.Debug("local pandoc unavailable, trying container backend", zap.Error(err))
		c, cerr := fromContainer()
		if cerr != nil {
			return nil, fmt.Errorf("%w; container fallback: %v", err, cerr)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: unknown converter backend %q (valid: auto, pandoc, container)",
			errs.ErrConfiguration, cfg.Backend)
	}
}

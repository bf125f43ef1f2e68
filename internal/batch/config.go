// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"strings"

	"github.com/pdiddy/docconv/internal/errs"
)

// Config describes one batch run.
type Config struct {
	// InputRoot is the folder searched for inputs.
	InputRoot string
	// InputSuffix selects inputs by name suffix (e.g. ".docx").
	InputSuffix string
	// OutputRoot, when set, receives outputs mirroring the input tree.
	OutputRoot string
	// OutputSuffix is the extension of produced files. Required with
	// OutputRoot or Versioned; otherwise it only names the default sibling
	// output used for the existence check.
	OutputSuffix string

	Recursive    bool
	DryRun       bool
	Force        bool
	Versioned    bool
	ShowProgress bool

	// Workers is the number of parallel conversions; 1 runs sequentially
	// in discovery order.
	Workers int
}

// Validate rejects configurations that cannot run. It is called before
// any file is touched.
func (c Config) Validate() error {
	switch {
	case c.InputRoot == "":
		return fmt.Errorf("%w: input folder is required", errs.ErrConfiguration)
	case c.InputSuffix == "":
		return fmt.Errorf("%w: input suffix is required", errs.ErrConfiguration)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", errs.ErrConfiguration, c.Workers)
	case c.OutputRoot != "" && c.OutputSuffix == "":
		return fmt.Errorf("%w: output folder %s given without an output suffix", errs.ErrConfiguration, c.OutputRoot)
	case c.Versioned && c.OutputSuffix == "":
		return fmt.Errorf("%w: versioned output requires an output suffix", errs.ErrConfiguration)
	case c.OutputSuffix != "" && !strings.HasPrefix(c.OutputSuffix, "."):
		return fmt.Errorf("%w: output suffix %q must start with a dot", errs.ErrConfiguration, c.OutputSuffix)
	}
	return nil
}

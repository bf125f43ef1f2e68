// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docconv/internal/errs"
)

// Format selects the report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a --report value. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatText, nil
	case FormatText, FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown report format %q (want text, yaml or json)", errs.ErrConfiguration, s)
	}
}

type record struct {
	Source  string  `json:"source" yaml:"source"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	Path    string  `json:"path,omitempty" yaml:"path,omitempty"`
	Error   string  `json:"error,omitempty" yaml:"error,omitempty"`
}

type report struct {
	Summary Summary  `json:"summary" yaml:"summary"`
	Results []record `json:"results" yaml:"results"`
}

// WriteReport writes results to w. Records are sorted by source so that
// reports from parallel runs are stable.
func WriteReport(w io.Writer, results Results, format Format) error {
	rep := report{Summary: results.Summary(), Results: make([]record, 0, len(results))}
	for _, res := range results {
		rec := record{Source: res.Source, Outcome: res.Outcome, Path: res.Path}
		if res.Err != nil {
			rec.Error = res.Err.Error()
		}
		rep.Results = append(rep.Results, rec)
	}
	slices.SortFunc(rep.Results, func(a, b record) int { return cmp.Compare(a.Source, b.Source) })

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return writeText(w, rep)
	default:
		return fmt.Errorf("%w: unknown report format %q", errs.ErrConfiguration, format)
	}
}

func writeText(w io.Writer, rep report) error {
	for _, rec := range rep.Results {
		var err error
		switch rec.Outcome {
		case Converted:
			_, err = fmt.Fprintf(w, "Converted: %s -> %s\n", rec.Source, rec.Path)
		case Skipped:
			_, err = fmt.Fprintf(w, "Skipped (exists): %s\n", rec.Path)
		case Planned:
			_, err = fmt.Fprintf(w, "Would convert: %s\n", rec.Source)
		case Failed:
			_, err = fmt.Fprintf(w, "Failed: %s: %s\n", rec.Source, rec.Error)
		}
		if err != nil {
			return err
		}
	}
	s := rep.Summary
	_, err := fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d dry-run, %d failed (total: %d)\n",
		s.Converted, s.Skipped, s.Planned, s.Failed, s.Total())
	return err
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

// Decision is the per-file action chosen before any work is done.
type Decision int

const (
	// DecisionExecute invokes the converter.
	DecisionExecute Decision = iota
	// DecisionSkip leaves an existing output untouched.
	DecisionSkip
	// DecisionDryRun reports the file without touching the filesystem.
	DecisionDryRun
)

func (d Decision) String() string {
	switch d {
	case DecisionSkip:
		return "skip"
	case DecisionDryRun:
		return "dry-run"
	default:
		return "execute"
	}
}

// Task is the immutable plan for one discovered file.
type Task struct {
	// Source is the discovered input file.
	Source string
	// Planned is the expected output path; empty when none can be derived.
	Planned string
	// Target is the path handed to the converter; empty lets the converter
	// apply its own default naming.
	Target string
	// Decision is what the worker will do with the file.
	Decision Decision
}

// Outcome classifies the result of one file.
type Outcome string

const (
	Converted Outcome = "converted"
	Skipped   Outcome = "skipped"
	Planned   Outcome = "dry-run"
	Failed    Outcome = "failed"
)

// Result is the outcome for one discovered file. Path holds the written
// output for Converted, the existing output for Skipped, and the source for
// Planned. Err is set only for Failed.
type Result struct {
	Source  string
	Outcome Outcome
	Path    string
	Err     error
}

// Results holds exactly one Result per discovered file. Sequential runs
// keep discovery order; parallel runs keep completion order.
type Results []Result

// Summary counts results by outcome.
type Summary struct {
	Converted int `json:"converted" yaml:"converted"`
	Skipped   int `json:"skipped" yaml:"skipped"`
	Planned   int `json:"dry_run" yaml:"dry_run"`
	Failed    int `json:"failed" yaml:"failed"`
}

// Total returns the number of files accounted for.
func (s Summary) Total() int {
	return s.Converted + s.Skipped + s.Planned + s.Failed
}

// HasFailures reports whether any file failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Summary tallies r.
func (r Results) Summary() Summary {
	var s Summary
	for _, res := range r {
		switch res.Outcome {
		case Converted:
			s.Converted++
		case Skipped:
			s.Skipped++
		case Planned:
			s.Planned++
		case Failed:
			s.Failed++
		}
	}
	return s
}

// Failures returns the failed results in their original order.
func (r Results) Failures() Results {
	var out Results
	for _, res := range r {
		if res.Outcome == Failed {
			out = append(out, res)
		}
	}
	return out
}

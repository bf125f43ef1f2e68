// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package versioning allocates dated, per-day incrementing output names.
//
// Given report.md, the first allocation on 2026-02-14 yields
// report_2026-02-14_v1.md, the next one v2, and so on. Allocation only
// chooses a path that does not exist yet; it never creates the file.
package versioning

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/docconv/internal/errs"
)

// DayLayout is the ISO-8601 date layout embedded in versioned names.
const DayLayout = "2006-01-02"

var versionRe = regexp.MustCompile(`^(?P<stem>.+)_(?P<day>\d{4}-\d{2}-\d{2})_v(?P<ver>\d+)$`)

// VersionedName is the parsed view of a versioned file stem.
type VersionedName struct {
	Stem    string
	Day     string
	Version int
}

// String formats the stem as <stem>_<day>_v<version>.
func (v VersionedName) String() string {
	return fmt.Sprintf("%s_%s_v%d", v.Stem, v.Day, v.Version)
}

// Parse splits a file stem (no extension) into its versioned parts. It
// reports false when the stem does not carry a version suffix.
func Parse(stem string) (VersionedName, bool) {
	m := versionRe.FindStringSubmatch(stem)
	if m == nil {
		return VersionedName{}, false
	}
	ver, err := strconv.Atoi(m[3])
	if err != nil {
		return VersionedName{}, false
	}
	return VersionedName{Stem: m[1], Day: m[2], Version: ver}, true
}

// Next returns the next free versioned path for desired on the day of asOf.
// desired must carry a file extension. If its stem is already versioned the
// suffix is stripped first, so repeated calls increment instead of nesting.
func Next(desired string, asOf time.Time) (string, error) {
	return next(desired, asOf, nil)
}

// next implements Next. taken, when non-nil, marks candidates that are
// reserved in memory even though no file exists for them yet.
func next(desired string, asOf time.Time, taken func(string) bool) (string, error) {
	dir, stem, ext, err := split(desired)
	if err != nil {
		return "", err
	}
	day := asOf.Format(DayLayout)

	ver, err := maxVersion(dir, stem, day, ext)
	if err != nil {
		return "", err
	}

	for ver++; ; ver++ {
		candidate := filepath.Join(dir, VersionedName{Stem: stem, Day: day, Version: ver}.String()+ext)
		if taken != nil && taken(candidate) {
			continue
		}
		exists, err := pathExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

// split breaks desired into directory, un-versioned stem, and extension.
func split(desired string) (dir, stem, ext string, err error) {
	base := filepath.Base(desired)
	ext = filepath.Ext(base)
	stem = strings.TrimSuffix(base, ext)
	if ext == "" || ext == "." || stem == "" {
		return "", "", "", fmt.Errorf("%w: %s must include a file extension", errs.ErrInvalidInput, desired)
	}
	if parsed, ok := Parse(stem); ok {
		stem = parsed.Stem
	}
	return filepath.Dir(desired), stem, ext, nil
}

// maxVersion scans dir (non-recursive) for <stem>_<day>_v*<ext> and returns
// the highest version for exactly that stem and day. A missing directory
// has no versions.
func maxVersion(dir, stem, day, ext string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: scanning %s: %v", errs.ErrFilesystem, dir, err)
	}

	prefix := stem + "_" + day + "_v"
	highest := 0
	for _, e := range entries {
		name := e.Name()
		if len(name) <= len(prefix)+len(ext) || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		parsed, ok := Parse(strings.TrimSuffix(name, ext))
		if !ok || parsed.Stem != stem || parsed.Day != day {
			continue
		}
		highest = max(highest, parsed.Version)
	}
	return highest, nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("%w: probing %s: %v", errs.ErrFilesystem, path, err)
}

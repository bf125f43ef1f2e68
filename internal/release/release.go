// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package release bumps the semantic version recorded in a project file.
package release

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docconv/internal/errs"
)

// Part names the version component to increment.
type Part string

const (
	Major Part = "major"
	Minor Part = "minor"
	Patch Part = "patch"
)

// Parts lists the accepted part names.
var Parts = []string{string(Major), string(Minor), string(Patch)}

// ParsePart validates s. An empty string selects Patch.
func ParsePart(s string) (Part, error) {
	switch p := Part(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return Patch, nil
	case Major, Minor, Patch:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown version part %q (valid: %s)", errs.ErrInvalidInput, s, strings.Join(Parts, ", "))
}

func (p Part) apply(v *semver.Version) semver.Version {
	switch p {
	case Major:
		return v.IncMajor()
	case Minor:
		return v.IncMinor()
	}
	return v.IncPatch()
}

var (
	// assignment matches quoted `version = "X.Y.Z"` or `version: "X.Y.Z"`
	// pairs, as written in pyproject.toml and similar files.
	assignment = regexp.MustCompile(`(version\s*[=:]\s*")(\d+\.\d+\.\d+)(")`)

	bareVersion = regexp.MustCompile(`^v?\d+\.\d+\.\d+$`)
)

// Bump increments part of the version stored in path, rewrites the file in
// place and returns the new version.
//
// YAML files (.yaml, .yml) are edited through their top-level version key.
// Other files must hold a quoted version assignment, every occurrence of
// which is rewritten, or consist of nothing but a version, like a VERSION
// file. A leading "v" on a bare version is kept.
func Bump(path string, part Part) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: version file not found: %s", errs.ErrInvalidInput, path)
		}
		return "", fmt.Errorf("%w: %s: %v", errs.ErrFilesystem, path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", errs.ErrFilesystem, path, err)
	}

	var (
		out  []byte
		next string
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		out, next, err = bumpYAML(data, part)
	default:
		out, next, err = bumpText(data, part)
	}
	if err != nil {
		return "", fmt.Errorf("bumping %s: %w", path, err)
	}

	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", errs.ErrFilesystem, path, err)
	}
	return next, nil
}

func bumpText(data []byte, part Part) ([]byte, string, error) {
	if m := assignment.FindSubmatch(data); m != nil {
		v, err := semver.StrictNewVersion(string(m[2]))
		if err != nil {
			return nil, "", fmt.Errorf("%w: version %q: %v", errs.ErrInvalidInput, m[2], err)
		}
		next := part.apply(v).String()
		return assignment.ReplaceAll(data, []byte("${1}"+next+"${3}")), next, nil
	}

	if bare := strings.TrimSpace(string(data)); bareVersion.MatchString(bare) {
		next, err := increment(bare, part)
		if err != nil {
			return nil, "", err
		}
		return []byte(next + "\n"), next, nil
	}
	return nil, "", fmt.Errorf("%w: no version found", errs.ErrInvalidInput)
}

func bumpYAML(data []byte, part Part) ([]byte, string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("%w: parsing YAML: %v", errs.ErrInvalidInput, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, "", fmt.Errorf("%w: no top-level version key", errs.ErrInvalidInput)
	}

	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "version" {
			continue
		}
		val := root.Content[i+1]
		if val.Kind != yaml.ScalarNode || !bareVersion.MatchString(val.Value) {
			return nil, "", fmt.Errorf("%w: version %q is not X.Y.Z", errs.ErrInvalidInput, val.Value)
		}
		next, err := increment(val.Value, part)
		if err != nil {
			return nil, "", err
		}
		val.Value = next

		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&doc); err != nil {
			return nil, "", fmt.Errorf("encoding YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, "", fmt.Errorf("encoding YAML: %w", err)
		}
		return buf.Bytes(), next, nil
	}
	return nil, "", fmt.Errorf("%w: no top-level version key", errs.ErrInvalidInput)
}

// increment bumps a bare version, keeping a leading "v".
func increment(s string, part Part) (string, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return "", fmt.Errorf("%w: version %q: %v", errs.ErrInvalidInput, s, err)
	}
	next := part.apply(v)
	return next.Original(), nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inspect reads document metadata without converting anything.
package inspect

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/docconv/internal/errs"
)

const corePropsPart = "docProps/core.xml"

// Metadata holds the core properties of a DOCX package. Timestamps are
// kept as written in the package (W3CDTF).
type Metadata struct {
	Path           string `json:"path" yaml:"path"`
	Title          string `json:"title,omitempty" yaml:"title,omitempty"`
	Author         string `json:"author,omitempty" yaml:"author,omitempty"`
	LastModifiedBy string `json:"last_modified_by,omitempty" yaml:"last_modified_by,omitempty"`
	Created        string `json:"created,omitempty" yaml:"created,omitempty"`
	Modified       string `json:"modified,omitempty" yaml:"modified,omitempty"`
}

// coreProperties matches elements by local name, so any namespace prefix
// the producing application chose is accepted.
type coreProperties struct {
	Title          string `xml:"title"`
	Creator        string `xml:"creator"`
	LastModifiedBy string `xml:"lastModifiedBy"`
	Created        string `xml:"created"`
	Modified       string `xml:"modified"`
}

// DocxMetadata reads the core properties of the DOCX at path. A package
// without a core properties part yields Metadata with only Path set.
func DocxMetadata(path string) (Metadata, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: resolving %s: %v", errs.ErrInvalidInput, path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Metadata{}, fmt.Errorf("%w: input file not found: %s", errs.ErrInvalidInput, abs)
		}
		return Metadata{}, fmt.Errorf("%w: %s: %v", errs.ErrFilesystem, abs, err)
	}
	if !strings.EqualFold(filepath.Ext(abs), ".docx") {
		return Metadata{}, fmt.Errorf("%w: %s is not a .docx document", errs.ErrInvalidInput, abs)
	}

	zr, err := zip.OpenReader(abs)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: opening %s: %v", errs.ErrInvalidInput, abs, err)
	}
	defer zr.Close()

	meta := Metadata{Path: abs}
	f, err := zr.Open(corePropsPart)
	if errors.Is(err, fs.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: reading %s in %s: %v", errs.ErrInvalidInput, corePropsPart, abs, err)
	}
	defer f.Close()

	var props coreProperties
	if err := xml.NewDecoder(f).Decode(&props); err != nil {
		return Metadata{}, fmt.Errorf("%w: parsing %s in %s: %v", errs.ErrInvalidInput, corePropsPart, abs, err)
	}

	meta.Title = strings.TrimSpace(props.Title)
	meta.Author = strings.TrimSpace(props.Creator)
	meta.LastModifiedBy = strings.TrimSpace(props.LastModifiedBy)
	meta.Created = strings.TrimSpace(props.Created)
	meta.Modified = strings.TrimSpace(props.Modified)
	return meta, nil
}

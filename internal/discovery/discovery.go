// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discovery enumerates candidate input files below a root folder.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var errStop = errors.New("discovery stopped")

// Discover returns the regular files under root whose name ends with
// suffix. Without recursive only immediate children are considered.
//
// The sequence is lazy and restartable: every range over it walks the
// filesystem again. Order follows the walk and is not a contract. A walk
// failure is yielded once as the final element.
func Discover(root, suffix string, recursive bool) iter.Seq2[string, error] {
	pattern := "*" + escapeMeta(suffix)
	if recursive {
		pattern = "**/" + pattern
	}

	return func(yield func(string, error) bool) {
		info, err := os.Stat(root)
		if err != nil {
			yield("", fmt.Errorf("discovering %s files in %s: %w", suffix, root, err))
			return
		}
		if !info.IsDir() {
			yield("", fmt.Errorf("discovering %s files in %s: not a directory", suffix, root))
			return
		}

		err = doublestar.GlobWalk(os.DirFS(root), pattern, func(p string, _ fs.DirEntry) error {
			if !yield(filepath.Join(root, filepath.FromSlash(p)), nil) {
				return errStop
			}
			return nil
		}, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil && !errors.Is(err, errStop) {
			yield("", fmt.Errorf("discovering %s files in %s: %w", suffix, root, err))
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	var files []string
	for path, err := range seq {
		if err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	return files, nil
}

// escapeMeta quotes glob metacharacters so the suffix matches literally.
func escapeMeta(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

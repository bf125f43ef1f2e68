// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTree creates root/{a.docx, b.md, skip.docx.bak, sub/c.docx, sub/deep/d.docx, folder.docx/}.
func setupTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, rel := range []string{"a.docx", "b.md", "skip.docx.bak", "sub/c.docx", "sub/deep/d.docx"} {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	// A directory whose name ends with the suffix must not be reported.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "folder.docx"), 0o755))
	return root
}

func relSorted(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func TestDiscover(t *testing.T) {
	root := setupTree(t)

	tests := []struct {
		name      string
		suffix    string
		recursive bool
		want      []string
	}{
		{name: "non-recursive docx", suffix: ".docx", want: []string{"a.docx"}},
		{name: "recursive docx", suffix: ".docx", recursive: true, want: []string{"a.docx", "sub/c.docx", "sub/deep/d.docx"}},
		{name: "non-recursive md", suffix: ".md", want: []string{"b.md"}},
		{name: "no matches", suffix: ".pdf", recursive: true, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := Collect(Discover(root, tt.suffix, tt.recursive))
			require.NoError(t, err)
			assert.Equal(t, tt.want, relSorted(t, root, files))
		})
	}
}

func TestDiscover_NonRecursiveStaysAtDepthOne(t *testing.T) {
	root := setupTree(t)
	files, err := Collect(Discover(root, ".docx", false))
	require.NoError(t, err)
	for _, f := range files {
		assert.Equal(t, root, filepath.Dir(f))
	}
}

func TestDiscover_Restartable(t *testing.T) {
	root := setupTree(t)
	seq := Discover(root, ".docx", false)

	first, err := Collect(seq)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "new.docx"), []byte("x"), 0o644))
	second, err := Collect(seq)
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Len(t, second, 2)
}

func TestDiscover_EarlyBreak(t *testing.T) {
	root := setupTree(t)
	count := 0
	for _, err := range Discover(root, ".docx", true) {
		require.NoError(t, err)
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Collect(Discover(filepath.Join(t.TempDir(), "missing"), ".docx", true))
	assert.Error(t, err)
}

func TestDiscover_LiteralSuffix(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a[1].docx"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.x"), []byte("x"), 0o644))

	files, err := Collect(Discover(root, "].docx", false))
	require.NoError(t, err)
	assert.Equal(t, []string{"a[1].docx"}, relSorted(t, root, files))
}

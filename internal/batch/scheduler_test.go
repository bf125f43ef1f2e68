// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docconv/internal/convert"
	"github.com/pdiddy/docconv/internal/errs"
	"github.com/pdiddy/docconv/internal/versioning"
)

// fakeConverter writes "converted:<src>" to dst, or to the sibling .md file
// when dst is empty. Sources whose base name contains "broken" fail.
type fakeConverter struct {
	mu    sync.Mutex
	calls []string
	count atomic.Int32
}

func (f *fakeConverter) Convert(_ context.Context, src, dst string) (string, error) {
	f.count.Add(1)
	f.mu.Lock()
	f.calls = append(f.calls, src)
	f.mu.Unlock()

	if strings.Contains(filepath.Base(src), "broken") {
		return "", errs.Conversion(src, "Couldn't unpack docx container", errors.New("exit status 64"))
	}
	if dst == "" {
		dst = strings.TrimSuffix(src, filepath.Ext(src)) + ".md"
	}
	if err := os.WriteFile(dst, []byte("converted:"+src), 0o644); err != nil {
		return "", err
	}
	return dst, nil
}

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(root, filepath.FromSlash(n))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("docx:"+n), 0o644))
	}
}

func newScheduler(conv convert.Converter, opts ...Option) *Scheduler {
	opts = append([]Option{WithProgress(func(int) Progress { return nopProgress{} })}, opts...)
	return New(conv, opts...)
}

func baseConfig(root string) Config {
	return Config{InputRoot: root, InputSuffix: ".docx", OutputSuffix: ".md", Workers: 1}
}

func sources(results Results) []string {
	var out []string
	for _, r := range results {
		out = append(out, r.Source)
	}
	slices.Sort(out)
	return out
}

func TestRun_ConvertsEveryFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.docx", "b.docx", "notes.txt")
	conv := &fakeConverter{}

	results, err := newScheduler(conv).Run(context.Background(), baseConfig(root))
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, Summary{Converted: 2}, results.Summary())
	for _, r := range results {
		assert.Equal(t, Converted, r.Outcome)
		assert.FileExists(t, r.Path)
		assert.Equal(t, ".md", filepath.Ext(r.Path))
	}
}

func TestRun_DryRunTouchesNothing(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.docx", "sub/b.docx")
	out := filepath.Join(t.TempDir(), "out")
	conv := &fakeConverter{}

	cfg := baseConfig(root)
	cfg.Recursive = true
	cfg.DryRun = true
	cfg.OutputRoot = out
	cfg.Versioned = true

	results, err := newScheduler(conv).Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, Planned, r.Outcome)
		assert.Equal(t, r.Source, r.Path)
	}
	assert.Zero(t, conv.count.Load())
	assert.NoDirExists(t, out)
}

func TestRun_SkipsExistingOutputs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.docx", "b.docx")
	out := t.TempDir()
	existing := filepath.Join(out, "a.md")
	require.NoError(t, os.WriteFile(existing, []byte("keep me"), 0o644))
	conv := &fakeConverter{}

	cfg := baseConfig(root)
	cfg.OutputRoot = out
	results, err := newScheduler(conv).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, Summary{Converted: 1, Skipped: 1}, results.Summary())
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
	assert.Equal(t, []string{filepath.Join(root, "b.docx")}, conv.calls)
}

func TestRun_WithoutOutputRootReconvertsSiblings(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.docx")
	sibling := filepath.Join(root, "a.md")
	require.NoError(t, os.WriteFile(sibling, []byte("stale"), 0o644))
	conv := &fakeConverter{}

	for _, dryRun := range []bool{false, true} {
		cfg := baseConfig(root)
		cfg.DryRun = dryRun
		results, err := newScheduler(conv).Run(context.Background(), cfg)
		require.NoError(t, err)
		require.Len(t, results, 1)
		if dryRun {
			assert.Equal(t, Planned, results[0].Outcome)
			continue
		}
		assert.Equal(t, Converted, results[0].Outcome)
		assert.Equal(t, sibling, results[0].Path)
	}

	assert.EqualValues(t, 1, conv.count.Load())
	data, err := os.ReadFile(sibling)
	require.NoError(t, err)
	assert.Equal(t, "converted:"+filepath.Join(root, "a.docx"), string(data))
}

func TestRun_SkipWinsOverDryRun(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.docx", "b.docx")
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "a.md"), []byte("keep me"), 0o644))
	conv := &fakeConverter{}

	cfg := baseConfig(root)
	cfg.OutputRoot = out
	cfg.DryRun = true
	results, err := newScheduler(conv).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, Summary{Skipped: 1, Planned: 1}, results.Summary())
	assert.Zero(t, conv.count.Load())
}

func TestRun_ForceOverwrites(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.docx")
	out := t.TempDir()
	existing := filepath.Join(out, "a.md")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o644))

	cfg := baseConfig(root)
	cfg.OutputRoot = out
	cfg.Force = true
	results, err := newScheduler(&fakeConverter{}).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, Summary{Converted: 1}, results.Summary())
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.NotEqual(t, "old", string(data))
}

func TestRun_WorkerCountDoesNotChangeOutcomes(t *testing.T) {
	names := []string{"a.docx", "b.docx", "c.docx", "d.docx", "broken.docx", "sub/e.docx", "sub/deep/f.docx"}

	run := func(workers int) Results {
		root := t.TempDir()
		writeFiles(t, root, names...)
		out := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(out, "b.md"), []byte("x"), 0o644))

		cfg := baseConfig(root)
		cfg.OutputRoot = out
		cfg.Recursive = true
		cfg.Workers = workers
		results, err := newScheduler(&fakeConverter{}).Run(context.Background(), cfg)
		require.NoError(t, err)

		rel := make(Results, 0, len(results))
		for _, r := range results {
			src, err := filepath.Rel(root, r.Source)
			require.NoError(t, err)
			rel = append(rel, Result{Source: filepath.ToSlash(src), Outcome: r.Outcome})
		}
		slices.SortFunc(rel, func(a, b Result) int { return strings.Compare(a.Source, b.Source) })
		return rel
	}

	sequential := run(1)
	parallel := run(4)
	assert.Len(t, sequential, len(names))
	assert.Equal(t, sequential, parallel)
	assert.Equal(t, Summary{Converted: 5, Skipped: 1, Failed: 1}, parallel.Summary())
}

func TestRun_FailuresAreIsolated(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.docx", "broken.docx", "c.docx")

	cfg := baseConfig(root)
	cfg.Workers = 3
	results, err := newScheduler(&fakeConverter{}).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, Summary{Converted: 2, Failed: 1}, results.Summary())
	failed := results.Failures()
	require.Len(t, failed, 1)
	assert.Equal(t, filepath.Join(root, "broken.docx"), failed[0].Source)
	assert.ErrorIs(t, failed[0].Err, errs.ErrConversion)

	var ce *errs.ConversionError
	require.True(t, errors.As(failed[0].Err, &ce))
	assert.Equal(t, "Couldn't unpack docx container", ce.Reason)
}

func TestRun_PanicBecomesFailure(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.docx", "b.docx")
	conv := convert.ConverterFunc(func(_ context.Context, src, dst string) (string, error) {
		if filepath.Base(src) == "a.docx" {
			panic("boom")
		}
		return src + ".md", nil
	})

	for _, workers := range []int{1, 2} {
		cfg := baseConfig(root)
		cfg.Workers = workers
		results, err := newScheduler(conv).Run(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, Summary{Converted: 1, Failed: 1}, results.Summary(), "workers=%d", workers)
		assert.ErrorIs(t, results.Failures()[0].Err, errs.ErrConversion)
	}
}

func TestRun_EmptyFolder(t *testing.T) {
	results, err := newScheduler(&fakeConverter{}).Run(context.Background(), baseConfig(t.TempDir()))
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRun_RecursiveDepth(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "top.docx", "one/mid.docx", "one/two/deep.docx")

	tests := []struct {
		name      string
		recursive bool
		want      []string
	}{
		{name: "flat", recursive: false, want: []string{"top.docx"}},
		{name: "recursive", recursive: true, want: []string{"one/mid.docx", "one/two/deep.docx", "top.docx"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig(root)
			cfg.Recursive = tt.recursive
			cfg.DryRun = true
			results, err := newScheduler(&fakeConverter{}).Run(context.Background(), cfg)
			require.NoError(t, err)

			var want []string
			for _, w := range tt.want {
				want = append(want, filepath.Join(root, filepath.FromSlash(w)))
			}
			assert.Equal(t, want, sources(results))
		})
	}
}

func TestRun_OutputFolderMirrorsTree(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.docx", "sub/deep/b.docx")
	out := filepath.Join(t.TempDir(), "out")

	cfg := baseConfig(root)
	cfg.Recursive = true
	cfg.OutputRoot = out
	cfg.Workers = 2
	results, err := newScheduler(&fakeConverter{}).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, Summary{Converted: 2}, results.Summary())
	assert.FileExists(t, filepath.Join(out, "a.md"))
	assert.FileExists(t, filepath.Join(out, "sub", "deep", "b.md"))
	assert.NoFileExists(t, filepath.Join(root, "a.md"))
}

func TestRun_VersionedRunsNeverOverwrite(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "report.docx")
	out := filepath.Join(t.TempDir(), "out")
	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	alloc := versioning.NewAllocator(versioning.WithClock(func() time.Time { return day }))

	cfg := baseConfig(root)
	cfg.OutputRoot = out
	cfg.Versioned = true

	s := newScheduler(&fakeConverter{}, WithAllocator(alloc))
	first, err := s.Run(context.Background(), cfg)
	require.NoError(t, err)
	second, err := s.Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, filepath.Join(out, "report_2026-03-14_v1.md"), first[0].Path)
	assert.Equal(t, filepath.Join(out, "report_2026-03-14_v2.md"), second[0].Path)
	assert.FileExists(t, first[0].Path)
	assert.FileExists(t, second[0].Path)
}

func TestRun_VersionedParallelNamesAreUnique(t *testing.T) {
	root := t.TempDir()
	var names []string
	for i := range 12 {
		names = append(names, filepath.Join("d", string(rune('a'+i))+".docx"))
	}
	writeFiles(t, root, names...)
	out := filepath.Join(t.TempDir(), "out")

	cfg := baseConfig(root)
	cfg.Recursive = true
	cfg.OutputRoot = out
	cfg.Versioned = true
	cfg.Workers = 4
	results, err := newScheduler(&fakeConverter{}).Run(context.Background(), cfg)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, r := range results {
		require.Equal(t, Converted, r.Outcome)
		assert.False(t, seen[r.Path], "duplicate output %s", r.Path)
		seen[r.Path] = true
		_, ok := versioning.Parse(strings.TrimSuffix(filepath.Base(r.Path), ".md"))
		assert.True(t, ok, r.Path)
	}
	assert.Len(t, seen, 12)
}

func TestRun_SetupErrors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.docx")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "zero workers", mutate: func(c *Config) { c.Workers = 0 }, wantErr: errs.ErrConfiguration},
		{name: "output root without suffix", mutate: func(c *Config) { c.OutputRoot = "out"; c.OutputSuffix = "" }, wantErr: errs.ErrConfiguration},
		{name: "versioned without suffix", mutate: func(c *Config) { c.Versioned = true; c.OutputSuffix = "" }, wantErr: errs.ErrConfiguration},
		{name: "missing input suffix", mutate: func(c *Config) { c.InputSuffix = "" }, wantErr: errs.ErrConfiguration},
		{name: "missing folder", mutate: func(c *Config) { c.InputRoot = filepath.Join(root, "nope") }, wantErr: errs.ErrFilesystem},
		{name: "folder is a file", mutate: func(c *Config) { c.InputRoot = file }, wantErr: errs.ErrFilesystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &fakeConverter{}
			cfg := baseConfig(root)
			tt.mutate(&cfg)
			results, err := newScheduler(conv).Run(context.Background(), cfg)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, results)
			assert.Zero(t, conv.count.Load())
		})
	}
}

func TestRun_ProgressSeesEveryResult(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.docx", "b.docx", "c.docx")
	rec := &recordingProgress{}

	cfg := baseConfig(root)
	cfg.ShowProgress = true
	cfg.Workers = 2
	s := New(&fakeConverter{}, WithProgress(func(total int) Progress {
		rec.total = total
		return rec
	}))
	_, err := s.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, rec.total)
	assert.EqualValues(t, 3, rec.seen.Load())
	assert.True(t, rec.finished)
}

type recordingProgress struct {
	total    int
	seen     atomic.Int32
	finished bool
}

func (p *recordingProgress) Increment(Result) { p.seen.Add(1) }
func (p *recordingProgress) Finish()          { p.finished = true }

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package doctor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docconv/internal/container"
	"github.com/pdiddy/docconv/pkg/types"
)

type stubRuntime struct {
	imageErr error
}

func (s stubRuntime) Name() string             { return "podman" }
func (s stubRuntime) Available() bool          { return true }
func (s stubRuntime) ImageExists(string) error { return s.imageErr }
func (s stubRuntime) Run(context.Context, string, []string, io.Reader, io.Writer) error {
	return nil
}

func pandocAt(version string) func(context.Context, string) (string, string, error) {
	return func(context.Context, string) (string, string, error) {
		return "/usr/local/bin/pandoc", version, nil
	}
}

func noPandoc(context.Context, string) (string, string, error) {
	return "", "", errors.New("pandoc not found")
}

func noRuntime(string) (container.Runtime, error) { return nil, errors.New("no container runtime available") }

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		p          probes
		wantOK     bool
		wantOutput []string
	}{
		{
			name:       "local pandoc",
			p:          probes{pandoc: pandocAt("3.1.11"), runtime: noRuntime},
			wantOK:     true,
			wantOutput: []string{"Pandoc: 3.1.11  ✓", "pandoc path: /usr/local/bin/pandoc", "Container runtime: none  !"},
		},
		{
			name:       "old pandoc warns",
			p:          probes{pandoc: pandocAt("2.19.2"), runtime: noRuntime},
			wantOK:     true,
			wantOutput: []string{"Pandoc: 2.19.2  !", "pandoc 3.0 or newer is recommended"},
		},
		{
			name:       "container only",
			p:          probes{pandoc: noPandoc, runtime: func(string) (container.Runtime, error) { return stubRuntime{}, nil }},
			wantOK:     true,
			wantOutput: []string{"Pandoc: NOT FOUND  !", "Conversions will run in podman", "Container runtime: podman  ✓", "pandoc path: (not found)"},
		},
		{
			name:       "nothing available",
			p:          probes{pandoc: noPandoc, runtime: noRuntime},
			wantOK:     false,
			wantOutput: []string{"Pandoc: NOT FOUND  ✗", "Container runtime: none  ✗", "Install pandoc or docker/podman"},
		},
		{
			name: "version probe fails",
			p: probes{pandoc: func(context.Context, string) (string, string, error) {
				return "/opt/pandoc", "", errors.New("unrecognized /opt/pandoc --version output")
			}, runtime: noRuntime},
			wantOK:     true,
			wantOutput: []string{"Pandoc: found (version unknown)  !", "pandoc path: /opt/pandoc"},
		},
		{
			name: "image missing",
			p: probes{pandoc: pandocAt("3.6"), runtime: func(string) (container.Runtime, error) {
				return stubRuntime{imageErr: errors.New("no such image")}, nil
			}},
			wantOK:     true,
			wantOutput: []string{"podman (image pandoc/core:latest missing)", "podman pull pandoc/core:latest"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.p.workDir = func() (string, error) { return dir, nil }

			var buf bytes.Buffer
			rep := run(context.Background(), &buf, types.ConverterConfig{}, tt.p)

			assert.Equal(t, tt.wantOK, rep.OK())
			assert.Contains(t, buf.String(), "docconv environment check")
			assert.Contains(t, buf.String(), "Write permissions: working directory  ✓")
			for _, want := range tt.wantOutput {
				assert.Contains(t, buf.String(), want)
			}

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "probe file left behind")
		})
	}
}

func TestRun_WriteCheckFails(t *testing.T) {
	missing := t.TempDir() + "/gone"
	p := probes{
		pandoc:  pandocAt("3.1"),
		runtime: noRuntime,
		workDir: func() (string, error) { return missing, nil },
	}
	rep := run(context.Background(), io.Discard, types.ConverterConfig{}, p)
	assert.False(t, rep.OK())

	var names []string
	for _, c := range rep.Checks {
		if c.Status == StatusFail {
			names = append(names, c.Name)
		}
	}
	assert.Equal(t, []string{"Write permissions"}, names)
}

func TestMajorVersion(t *testing.T) {
	n, ok := majorVersion("3.1.11")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = majorVersion("dev")
	assert.False(t, ok)
}

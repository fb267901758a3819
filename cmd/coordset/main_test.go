package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "double parallel",
			args: []string{"scan", "--tuples=1000", "--dimension=3", "--chunks=4", "--min-chunk=16"},
			want: []string{"source:   doubles (4 buffers, parallel)", "tuples:   1,000", "storage:  24 kB",
				"envelope: BOX3D(1000 1001 1002, 10990 10991 10992)"},
		},
		{
			name: "float sequential",
			args: []string{"scan", "--tuples=200", "--dimension=5", "--precision=float", "--parallel=false", "--validate"},
			want: []string{"source:   floats (4 buffers, sequential)", "tuples:   200", "storage:  4.0 kB",
				"envelope: BOX5D(1000 1001 1002 1003 1004, 2990 2991 2992 2993 2994)"},
		},
		{
			name: "empty",
			args: []string{"scan", "--tuples=0"},
			want: []string{"tuples:   0", "envelope: empty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestScanErrors(t *testing.T) {
	_, err := execute(t, "scan", "--precision=half")
	assert.ErrorContains(t, err, "unknown precision")

	_, err = execute(t, "scan", "--dimension=0")
	assert.ErrorContains(t, err, "invalid scan shape")
}

func TestScanEnvironment(t *testing.T) {
	t.Setenv("COORDSET_TUPLES", "10")
	t.Setenv("COORDSET_MIN_CHUNK", "1")

	out, err := execute(t, "scan", "--dimension=2")
	require.NoError(t, err)
	assert.Contains(t, out, "tuples:   10\n")

	// Flags win over the environment.
	out, err = execute(t, "scan", "--tuples=11")
	require.NoError(t, err)
	assert.Contains(t, out, "tuples:   11\n")
}

func TestScanConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "coordset.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("tuples: 7\nprecision: float\n"), 0o644))

	out, err := execute(t, "scan", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "tuples:   7\n")
	assert.Contains(t, out, "source:   floats")

	_, err = execute(t, "scan", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config")
}

func TestIndex(t *testing.T) {
	out, err := execute(t, "index", "--size=20", "--query=2,3,4,4", "--nearest=10.2,10.4", "--k=1")
	require.NoError(t, err)

	assert.Contains(t, out, "indexed 400 positions")
	assert.Contains(t, out, "BOX2D(2 3, 4 4): 6 hits")
	assert.Contains(t, out, "  POINT(2 3)\n")
	assert.Contains(t, out, "nearest to POINT(10.2 10.4):\n  POINT(10 10)\n")
}

func TestIndexLimit(t *testing.T) {
	out, err := execute(t, "index", "--size=10", "--query=0,0,9,9", "--limit=3", "--parallel=false")
	require.NoError(t, err)
	assert.Contains(t, out, "100 hits")
	assert.Contains(t, out, "  ... 97 more\n")
}

func TestIndexBadQuery(t *testing.T) {
	_, err := execute(t, "index", "--size=5", "--query=1,2,3")
	assert.ErrorContains(t, err, "--query")

	_, err = execute(t, "index", "--size=5", "--query=4,4,1,1")
	assert.Error(t, err)

	_, err = execute(t, "index", "--size=5", "--nearest=a,b")
	assert.ErrorContains(t, err, "--nearest")
}

func TestParseFloats(t *testing.T) {
	got, err := parseFloats(nil, 2)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseFloats([]string{" 1.5", "-2"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -2}, got)

	_, err = parseFloats([]string{"1"}, 2)
	assert.Error(t, err)
}

package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	a := newApp()
	root := newRootCommand(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := root.ExecuteContext(context.Background())
	require.NoError(t, a.stop())
	return out.String(), err
}

func TestCounterCommand(t *testing.T) {
	out, err := execute(t, "counter", "--initial", "10", "--goroutines", "5", "--iterations", "200")
	require.NoError(t, err)
	assert.Equal(t, "1010\n", out)
}

func TestFactorialCommand(t *testing.T) {
	for _, workers := range []string{"1", "3", "8"} {
		out, err := execute(t, "factorial", "11", "--workers", workers)
		require.NoError(t, err)
		assert.Equal(t, "39916800\n", out, "workers=%s", workers)
	}

	out, err := execute(t, "factorial", "0")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestFactorialCommandErrors(t *testing.T) {
	_, err := execute(t, "factorial", "eleven")
	assert.ErrorContains(t, err, "invalid N")

	_, err = execute(t, "factorial", "21")
	assert.ErrorContains(t, err, "overflow")

	_, err = execute(t, "factorial", "11", "--workers", "0")
	assert.Error(t, err)
}

func TestASCIICommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")

	img := image.NewGray(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.White)
	img.Set(1, 0, color.Black)
	f, err := os.Create(in)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	outFile := filepath.Join(dir, "out.txt")
	out, err := execute(t, "ascii", in, outFile)
	require.NoError(t, err)
	assert.Equal(t, in+": converted\nsession 1 done: 1 converted, 0 failed\n", out)

	art, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, " @\n", string(art))
}

func TestASCIICommandReportsFailures(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.png")

	out, err := execute(t, "ascii", missing, filepath.Join(dir, "out.txt"))
	assert.ErrorContains(t, err, "1 of 1 conversion(s) failed")
	assert.True(t, strings.HasPrefix(out, missing+": failed:"), out)
	assert.Contains(t, out, "session 1 done: 0 converted, 1 failed")

	_, err = execute(t, "ascii", "only-one-arg")
	assert.ErrorContains(t, err, "IMAGE OUT pairs")
}

func TestScheduleCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a cron tick")
	}

	out, err := execute(t, "schedule", "--spec", "@every 1s", "--count", "1")
	require.NoError(t, err)
	assert.Equal(t, "tick 1\n1\n", out)
}

func TestScheduleCommandRejectsBadSpec(t *testing.T) {
	_, err := execute(t, "schedule", "--spec", "every now and then")
	assert.Error(t, err)
}

func TestInvalidConfiguration(t *testing.T) {
	_, err := execute(t, "--log-format", "xml", "counter")
	assert.ErrorContains(t, err, "LogFormat")

	_, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "counter")
	assert.ErrorContains(t, err, "read config")
}

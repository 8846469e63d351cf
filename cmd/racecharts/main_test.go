package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/MoacirMFB/LCC-Stats/src/analysis"
	"github.com/MoacirMFB/LCC-Stats/src/config"
)

func writeExport(t *testing.T, dir, body string) string {
	t.Helper()
	enc, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(body)
	require.NoError(t, err)
	path := filepath.Join(dir, "race.csv")
	require.NoError(t, os.WriteFile(path, []byte(enc), 0o644))
	return path
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv(config.EnvConfigPath, "")
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestRootCmd_WritesCharts(t *testing.T) {
	dir := t.TempDir()
	in := writeExport(t, dir, "\t\tColor_Variable\t2024\n"+
		"Race\tFTE Headcount Control\tWhite\t10\n"+
		"Race\tFTE Headcount Control\tHispanic/Latino\t5\n")
	out := filepath.Join(dir, "out")

	require.NoError(t, run(t, "--input", in, "--out-dir", out, "--log-level", "error", "--footer"))
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRootCmd_AggregationErrorFails(t *testing.T) {
	dir := t.TempDir()
	in := writeExport(t, dir, "\t\tColor_Variable\t2024\n"+
		"Race\tFTE Headcount Control\tWhite\t0\n")
	out := filepath.Join(dir, "out")

	err := run(t, "-i", in, "-o", out, "--log-level", "error")
	require.Error(t, err)
	assert.True(t, errors.Is(err, analysis.ErrAggregation))
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRootCmd_ExplicitConfigMustExist(t *testing.T) {
	err := run(t, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfig))
}

func TestRootCmd_BadLogLevel(t *testing.T) {
	err := run(t, "--log-level", "chatty", "--input", "x.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfig))
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	assert.Error(t, run(t, "extra"))
}

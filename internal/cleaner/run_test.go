package cleaner

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleantags/internal/tags"
)

const scenario = "const FULL_DATA = [[1,'a','b',['x','y']], [2,'c','d',['x']]];\n"

func writeInput(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.js")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func options(path string, threshold int, execute bool) Options {
	return Options{
		Path:      path,
		Threshold: threshold,
		Execute:   execute,
		Block:     tags.DefaultBlock,
		Suffix:    tags.DefaultSuffix,
	}
}

func dirEntries(t *testing.T, path string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRun_ReportModeWritesNothing(t *testing.T) {
	path := writeInput(t, scenario)
	var out bytes.Buffer

	res, err := Run(options(path, 2, false), &out, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Records)
	assert.Equal(t, 3, res.Tokens)
	assert.Equal(t, []tags.TagCount{{Tag: "x", Count: 2}}, res.Partition.Kept)
	assert.Equal(t, []tags.TagCount{{Tag: "y", Count: 1}}, res.Partition.Removed)
	assert.Empty(t, res.OutputPath)

	assert.Equal(t, []string{"data.js"}, dirEntries(t, path))
	assert.Contains(t, out.String(), "  - y (1 use)")
	assert.Contains(t, out.String(), "no file was modified")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, scenario, string(b))
}

func TestRun_ExecuteModeWritesCleanedCopy(t *testing.T) {
	path := writeInput(t, scenario)
	var out bytes.Buffer

	res, err := Run(options(path, 2, true), &out, nil)
	require.NoError(t, err)
	want := filepath.Join(filepath.Dir(path), "data_cleaned.js")
	assert.Equal(t, want, res.OutputPath)
	assert.Contains(t, out.String(), "Cleanup complete: wrote "+want)
	assert.NotContains(t, out.String(), "no file was modified")

	cleaned, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "const FULL_DATA = [[1,'a','b',['x']], [2,'c','d',['x']]];\n", string(cleaned))

	original, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, scenario, string(original))
}

func TestRun_FileNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.js")
	var out bytes.Buffer

	res, err := Run(options(path, 2, true), &out, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.Nil(t, res)
	assert.Empty(t, out.String())
}

func TestRun_BlockNotFoundWritesNothing(t *testing.T) {
	path := writeInput(t, "const OTHER_DATA = [[1,'a','b',['x']]];\n")
	var out bytes.Buffer

	res, err := Run(options(path, 2, true), &out, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBlockNotFound))
	assert.Nil(t, res)
	assert.Empty(t, out.String())
	assert.Equal(t, []string{"data.js"}, dirEntries(t, path))
}

func TestRun_EmptyTagLists(t *testing.T) {
	body := "const FULL_DATA = [[1,'a','b',[]], [2,'c','d',[]]];\n"
	path := writeInput(t, body)
	var out bytes.Buffer

	res, err := Run(options(path, 2, true), &out, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Tally.Distinct())
	assert.Contains(t, out.String(), "No tags qualify for removal.")

	cleaned, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, body, string(cleaned))
}

func TestRun_SQLiteExport(t *testing.T) {
	path := writeInput(t, scenario)
	opts := options(path, 2, false)
	opts.SQLite = filepath.Join(t.TempDir(), "tally.sqlite")
	var out bytes.Buffer

	_, err := Run(opts, &out, nil)
	require.NoError(t, err)
	_, err = os.Stat(opts.SQLite)
	require.NoError(t, err)
	assert.Equal(t, []string{"data.js"}, dirEntries(t, path))
}

func TestRun_RejectsOutputOverInput(t *testing.T) {
	path := writeInput(t, scenario)
	opts := options(path, 2, true)
	opts.Suffix = ""

	_, err := Run(opts, &bytes.Buffer{}, nil)
	require.Error(t, err)
}

func TestRun_UnwritableOutputFails(t *testing.T) {
	path := writeInput(t, scenario)
	// A directory where the cleaned file should go makes the write fail.
	require.NoError(t, os.Mkdir(tags.OutputPath(path, tags.DefaultSuffix), 0o755))

	res, err := Run(options(path, 2, true), &bytes.Buffer{}, nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrFileNotFound))
	require.NotNil(t, res)
	assert.Empty(t, res.OutputPath)
}

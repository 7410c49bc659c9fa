// Package cleaner runs the tag cleaning pipeline: load the data file, extract
// records, count tags, report, and in execute mode write a cleaned copy.
package cleaner

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"cleantags/internal/export"
	"cleantags/internal/logging"
	"cleantags/internal/tags"
)

var ErrFileNotFound = errors.New("input file not found")

// ErrBlockNotFound is returned when the data declaration is missing.
var ErrBlockNotFound = tags.ErrBlockNotFound

// Options configures a single run. Callers supply every value; there are no
// defaults at this level.
type Options struct {
	Path      string
	Threshold int
	Execute   bool
	Block     string
	Suffix    string
	SQLite    string // optional tally export
}

// Result describes what a run found and wrote.
type Result struct {
	Records    int
	Tokens     int
	Tally      tags.Tally
	Partition  tags.Partition
	OutputPath string // empty unless a cleaned file was written
}

// Load reads the whole input file.
func Load(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", err
	}
	return string(b), nil
}

// Run executes the pipeline and writes the report to out. ErrFileNotFound and
// ErrBlockNotFound end the run before anything is reported or written.
func Run(opts Options, out io.Writer, log *logging.Logger) (*Result, error) {
	if log == nil {
		log = logging.Nop()
	}
	if opts.Execute {
		if opts.Suffix == "" {
			return nil, fmt.Errorf("output suffix is required in execute mode")
		}
		if samePath(opts.Path, tags.OutputPath(opts.Path, opts.Suffix)) {
			return nil, fmt.Errorf("output path would overwrite %s", opts.Path)
		}
	}

	text, err := Load(opts.Path)
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded %s (%d bytes)", opts.Path, len(text))

	block, err := tags.Extract(text, opts.Block)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("records", len(block.Records)).Str("block", block.Name).Msg("extracted records")

	tally := tags.Count(block.Records)
	part := tally.Partition(opts.Threshold)
	res := &Result{
		Records:   len(block.Records),
		Tokens:    tally.Tokens,
		Tally:     tally,
		Partition: part,
	}

	if err := WriteReport(out, tally, part, opts.Execute); err != nil {
		return res, fmt.Errorf("write report: %w", err)
	}

	if opts.SQLite != "" {
		if err := export.WriteSQLite(opts.SQLite, block.Records, part); err != nil {
			return res, err
		}
		log.Info().Str("path", opts.SQLite).Msg("wrote tag tally database")
	}

	if !opts.Execute {
		return res, nil
	}

	cleaned, err := tags.Rewrite(text, opts.Block, part.RemovedSet())
	if err != nil {
		return res, err
	}
	outPath := tags.OutputPath(opts.Path, opts.Suffix)
	if err := os.WriteFile(outPath, []byte(cleaned), 0o644); err != nil {
		return res, fmt.Errorf("write %s: %w", outPath, err)
	}
	res.OutputPath = outPath
	if _, err := fmt.Fprintf(out, "Cleanup complete: wrote %s\n", outPath); err != nil {
		return res, err
	}
	return res, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

package cleaner

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"cleantags/internal/tags"
)

var rule = strings.Repeat("-", 40)

// WriteReport prints the tag analysis for a partition. When execute is false
// it ends with a notice that nothing was written.
func WriteReport(w io.Writer, tally tags.Tally, part tags.Partition, execute bool) error {
	lines := []string{
		fmt.Sprintf("=== Tag analysis report (threshold: %s) ===", humanize.Comma(int64(part.Threshold))),
		fmt.Sprintf("Distinct tags:   %s", humanize.Comma(int64(tally.Distinct()))),
		fmt.Sprintf("Tags kept:       %s", humanize.Comma(int64(len(part.Kept)))),
		fmt.Sprintf("Tags to remove:  %s", humanize.Comma(int64(len(part.Removed)))),
		rule,
	}
	if len(part.Removed) > 0 {
		lines = append(lines, "Tags to remove:")
		for _, tc := range part.Removed {
			lines = append(lines, fmt.Sprintf("  - %s (%s)", tc.Tag, plural(tc.Count)))
		}
	} else {
		lines = append(lines, "No tags qualify for removal.")
	}
	lines = append(lines, rule)
	if !execute {
		lines = append(lines, "Report mode: no file was modified. Re-run with --execute to write the cleaned file.")
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

func plural(n int) string {
	if n == 1 {
		return "1 use"
	}
	return humanize.Comma(int64(n)) + " uses"
}

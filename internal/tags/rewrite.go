package tags

import (
	"path/filepath"
	"strings"
)

// DefaultSuffix is inserted before the extension of the cleaned file.
const DefaultSuffix = "_cleaned"

// Rewrite re-scans the data block and drops every tag whose identity is in
// removed. Surviving tokens keep their original text and are joined with
// ", ". Everything outside the rewritten tag lists is copied unchanged.
func Rewrite(text, name string, removed map[string]struct{}) (string, error) {
	block, err := Extract(text, name)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, rec := range block.Records {
		b.WriteString(text[last:rec.Start])
		b.WriteString(filterTagList(rec.TagList, removed))
		last = rec.End
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

func filterTagList(list string, removed map[string]struct{}) string {
	kept := make([]string, 0)
	for _, tok := range splitTokens(list) {
		if _, drop := removed[tok.Name]; drop {
			continue
		}
		kept = append(kept, tok.Raw)
	}
	return "[" + strings.Join(kept, ", ") + "]"
}

// OutputPath inserts suffix before the extension of path:
// data.js -> data_cleaned.js, data -> data_cleaned.
func OutputPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

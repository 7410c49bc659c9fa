// Package tags extracts tagged records from a generated data file, counts
// tag usage and rewrites tag lists without touching the surrounding text.
package tags

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultBlock is the declaration name generated data files use.
const DefaultBlock = "FULL_DATA"

var ErrBlockNotFound = errors.New("data block not found")

var (
	reBlockName = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	// [id, 'first', 'second', [tags...]
	reRecord = regexp.MustCompile(`(?s)\[\s*([-+]?\d+)\s*,\s*(?:'(.*?)'|"(.*?)")\s*,\s*(?:'(.*?)'|"(.*?)")\s*,\s*(\[(.*?)\])`)
)

// Tag is one entry of a record's tag list.
type Tag struct {
	Name string // trimmed, unquoted identity
	Raw  string // token as written, quotes included
}

// Record is one matched entry of the data block.
type Record struct {
	ID      int64
	IDText  string
	Fields  [2]string
	Tags    []Tag
	TagList string // text between the tag list brackets

	// Byte offsets of the bracketed tag list within the source text.
	Start, End int
}

// Block is the content of the data declaration and the records found in it.
type Block struct {
	Name       string
	Start, End int
	Records    []Record
}

// ValidBlockName reports whether name can be used as a declaration name.
func ValidBlockName(name string) bool {
	return reBlockName.MatchString(name)
}

func blockPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)const ` + regexp.QuoteMeta(name) + `\s*=\s*\[(.*)\];`)
}

// FindBlock returns the offsets of the array content declared as name. The
// closing marker is the last "];" in text.
func FindBlock(text, name string) (int, int, error) {
	if !ValidBlockName(name) {
		return 0, 0, fmt.Errorf("invalid block name %q", name)
	}
	loc := blockPattern(name).FindStringSubmatchIndex(text)
	if loc == nil {
		return 0, 0, fmt.Errorf("%w: const %s", ErrBlockNotFound, name)
	}
	return loc[2], loc[3], nil
}

// Extract locates the data block and parses every record in it. Entries that
// do not have the [int, 'str', 'str', [tags]] shape are skipped.
func Extract(text, name string) (*Block, error) {
	start, end, err := FindBlock(text, name)
	if err != nil {
		return nil, err
	}
	block := &Block{Name: name, Start: start, End: end}
	body := text[start:end]
	for _, m := range reRecord.FindAllStringSubmatchIndex(body, -1) {
		rec, ok := recordFromMatch(body, m, start)
		if !ok {
			continue
		}
		block.Records = append(block.Records, rec)
	}
	return block, nil
}

func recordFromMatch(body string, m []int, offset int) (Record, bool) {
	idText := body[m[2]:m[3]]
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return Record{}, false
	}
	rec := Record{
		ID:      id,
		IDText:  idText,
		Fields:  [2]string{submatch(body, m, 2, 3), submatch(body, m, 4, 5)},
		TagList: body[m[14]:m[15]],
		Start:   offset + m[12],
		End:     offset + m[13],
	}
	rec.Tags = ParseTagList(rec.TagList)
	return rec, true
}

// submatch returns whichever of the two alternative quoted groups matched.
func submatch(s string, m []int, single, double int) string {
	if m[2*single] >= 0 {
		return s[m[2*single]:m[2*single+1]]
	}
	if m[2*double] >= 0 {
		return s[m[2*double]:m[2*double+1]]
	}
	return ""
}

// ParseTagList splits the text between a tag list's brackets into tags.
// Tokens whose identity is empty are dropped.
func ParseTagList(s string) []Tag {
	var out []Tag
	for _, tok := range splitTokens(s) {
		if tok.Name == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func splitTokens(s string) []Tag {
	var out []Tag
	for _, part := range strings.Split(s, ",") {
		raw := strings.TrimSpace(part)
		if raw == "" {
			continue
		}
		out = append(out, Tag{Name: unquote(raw), Raw: raw})
	}
	return out
}

// unquote strips one layer of single or double quotes from each end.
func unquote(s string) string {
	if s != "" && (s[0] == '\'' || s[0] == '"') {
		s = s[1:]
	}
	if s != "" && (s[len(s)-1] == '\'' || s[len(s)-1] == '"') {
		s = s[:len(s)-1]
	}
	return s
}

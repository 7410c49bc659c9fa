package export

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleantags/internal/tags"
)

func TestWriteSQLite(t *testing.T) {
	text := "const FULL_DATA = [[1, 'a', 'b', ['x', 'y']], [-2, 'c', 'd', ['x', 'x']]];"
	block, err := tags.Extract(text, tags.DefaultBlock)
	require.NoError(t, err)
	part := tags.Count(block.Records).Partition(2)

	path := filepath.Join(t.TempDir(), "nested", "tags.sqlite")
	require.NoError(t, WriteSQLite(path, block.Records, part))
	// A second run replaces the previous export.
	require.NoError(t, WriteSQLite(path, block.Records, part))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT tag, count, removed FROM tag_counts ORDER BY tag`)
	require.NoError(t, err)
	type countRow struct {
		Tag     string
		Count   int
		Removed int
	}
	var got []countRow
	for rows.Next() {
		var r countRow
		require.NoError(t, rows.Scan(&r.Tag, &r.Count, &r.Removed))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())
	assert.Equal(t, []countRow{{"x", 3, 0}, {"y", 1, 1}}, got)

	var n, removed int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*), SUM(removed) FROM record_tags`).Scan(&n, &removed))
	assert.Equal(t, 4, n)
	assert.Equal(t, 1, removed)

	var pos int
	require.NoError(t, db.QueryRow(`SELECT position FROM record_tags WHERE record_id = -2 AND tag = 'x' ORDER BY position DESC LIMIT 1`).Scan(&pos))
	assert.Equal(t, 1, pos)
}

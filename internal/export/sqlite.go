// Package export writes the tag tally of a run to a SQLite database.
package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"cleantags/internal/tags"
)

// WriteSQLite replaces path with a database holding tag_counts and
// record_tags for the given records and partition.
func WriteSQLite(path string, records []tags.Record, part tags.Partition) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: mkdir %s: %w", dir, err)
		}
	}
	_ = os.Remove(path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("export: open %s: %w", path, err)
	}
	defer db.Close()

	for _, stmt := range []string{
		`DROP TABLE IF EXISTS "tag_counts"`,
		`DROP TABLE IF EXISTS "record_tags"`,
		`CREATE TABLE "tag_counts" ("tag" TEXT PRIMARY KEY, "count" INTEGER NOT NULL, "removed" INTEGER NOT NULL)`,
		`CREATE TABLE "record_tags" ("record_id" INTEGER NOT NULL, "position" INTEGER NOT NULL, "tag" TEXT NOT NULL, "removed" INTEGER NOT NULL)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("export: begin: %w", err)
	}
	if err := insertRows(tx, records, part); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("export: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("export: commit: %w", err)
	}

	for _, idx := range []string{
		`CREATE INDEX IF NOT EXISTS idx_record_tags_tag ON record_tags(tag)`,
		`CREATE INDEX IF NOT EXISTS idx_record_tags_record ON record_tags(record_id)`,
	} {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	return nil
}

func insertRows(tx *sql.Tx, records []tags.Record, part tags.Partition) error {
	counts, err := tx.Prepare(`INSERT INTO "tag_counts" ("tag", "count", "removed") VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer counts.Close()
	for _, tc := range part.Kept {
		if _, err := counts.Exec(tc.Tag, tc.Count, 0); err != nil {
			return err
		}
	}
	for _, tc := range part.Removed {
		if _, err := counts.Exec(tc.Tag, tc.Count, 1); err != nil {
			return err
		}
	}

	removed := part.RemovedSet()
	rt, err := tx.Prepare(`INSERT INTO "record_tags" ("record_id", "position", "tag", "removed") VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer rt.Close()
	for _, rec := range records {
		for i, tag := range rec.Tags {
			_, drop := removed[tag.Name]
			if _, err := rt.Exec(rec.ID, i, tag.Name, boolInt(drop)); err != nil {
				return err
			}
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

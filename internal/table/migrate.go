package table

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Migrate upgrades a table file written under an older header to the
// current schema. It is idempotent: when the file is absent, or its
// header already contains every marker field, Migrate returns without
// further I/O.
//
// Otherwise the file is first moved to "<path>.backup" (or
// "<path>.backup.<unix-seconds>" when that backup already exists, so a
// prior backup is never overwritten), re-read under its own old header,
// and rewritten to the canonical path under the current header. Rows
// lacking a parseable integer id are assigned sequential ids starting
// at 1 in file order; every field the old schema lacked defaults to "".
//
// If the backup rename fails, Migrate aborts before any write to the
// canonical path.
func (t *Table) Migrate(ctx context.Context, markers []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	migrated, err := t.headerCurrent(markers)
	if err != nil || migrated {
		return err
	}

	backup := t.path + ".backup"
	if _, err := os.Stat(backup); err == nil {
		backup = t.path + ".backup." + strconv.FormatInt(time.Now().Unix(), 10)
	}
	if err := os.Rename(t.path, backup); err != nil {
		return fmt.Errorf("back up %s: %w", t.path, err)
	}

	rows, err := readFile(backup)
	if err != nil {
		return fmt.Errorf("read backup %s: %w", backup, err)
	}

	for i, row := range rows {
		if _, err := strconv.Atoi(row["id"]); err != nil {
			row["id"] = strconv.Itoa(i + 1)
		}
	}

	if err := t.rewrite(rows); err != nil {
		return fmt.Errorf("migrate %s: %w", t.path, err)
	}
	return nil
}

// headerCurrent reports whether the file's header row already carries
// every marker field. A missing file counts as current.
func (t *Table) headerCurrent(markers []string) (bool, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("open %s: %w", t.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		// An empty or unreadable header means there is nothing to
		// migrate in place; leave the file for the next write.
		return true, nil
	}

	fields := make(map[string]bool, len(header))
	for _, field := range header {
		fields[field] = true
	}
	for _, marker := range markers {
		if !fields[marker] {
			return false, nil
		}
	}
	return true, nil
}

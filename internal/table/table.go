// Package table implements the flat-file record store: one CSV file per
// table, header row first, one row per record. Values are quoted per
// RFC 4180, so embedded delimiters, newlines and large base64 image
// payloads round-trip safely.
package table

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Row maps a field name to its string value. Fields absent from the
// underlying file read as the empty string.
type Row map[string]string

// Get returns the value for field name, or "" when the field is absent.
func (r Row) Get(name string) string {
	return r[name]
}

// Table is a handle to one CSV-backed table. All operations are
// whole-file passes serialized by a per-table mutex; there is no
// in-place row patch at this layer.
type Table struct {
	path   string
	header []string
	mu     sync.Mutex
}

// New returns a table bound to path with the current schema header.
// The file is not touched until the first operation.
func New(path string, header []string) *Table {
	return &Table{path: path, header: header}
}

// Path returns the file path backing the table.
func (t *Table) Path() string {
	return t.path
}

// Header returns the current schema header.
func (t *Table) Header() []string {
	return t.header
}

// EnsureInitialized creates the file with the header row if it does not
// exist. It is a no-op for an existing file, whatever its header.
func (t *Table) EnsureInitialized(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.ensureInitialized()
}

func (t *Table) ensureInitialized() error {
	if _, err := os.Stat(t.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", t.path, err)
	}

	f, err := os.Create(t.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", t.path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(t.header); err != nil {
		f.Close()
		return fmt.Errorf("write header %s: %w", t.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush header %s: %w", t.path, err)
	}
	return f.Close()
}

// ReadAll returns every row in file order. A missing file reads as an
// empty table. Field mapping follows the header stored in the file, so
// files written under an older, shorter schema still read cleanly with
// the newer fields defaulting to "".
func (t *Table) ReadAll(ctx context.Context) ([]Row, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return readFile(t.path)
}

func readFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Rows written under older schemas may be shorter than the header.
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(header))
		for i, field := range header {
			if i < len(record) {
				row[field] = record[i]
			} else {
				row[field] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Append adds a single trailing row, initializing the file with the
// header first if it does not exist yet.
func (t *Table) Append(ctx context.Context, row Row) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := t.ensureInitialized(); err != nil {
		return err
	}

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", t.path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(t.record(row)); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", t.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", t.path, err)
	}
	return f.Close()
}

// Rewrite replaces the entire file contents with the current header
// followed by rows, in order. The new contents are written to a
// temporary file in the same directory and moved into place, so a
// failed write never leaves the table truncated.
func (t *Table) Rewrite(ctx context.Context, rows []Row) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.rewrite(rows)
}

func (t *Table) rewrite(rows []Row) error {
	dir := filepath.Dir(t.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(t.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", t.path, err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.Write(t.header)
	for _, row := range rows {
		if writeErr != nil {
			break
		}
		writeErr = w.Write(t.record(row))
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rewrite %s: %w", t.path, writeErr)
	}

	if err := os.Rename(tmpName, t.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", t.path, err)
	}
	return nil
}

// record flattens a row into field values in header order. Fields the
// row does not carry are written as "".
func (t *Table) record(row Row) []string {
	record := make([]string, len(t.header))
	for i, field := range t.header {
		record[i] = row[field]
	}
	return record
}

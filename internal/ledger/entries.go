package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const entryColumns = `destination, identifier, sidecar, thumbnail, source_file, size_bytes,
    run_id, restore_status, restore_error, exif_taken_at, exif_model, created_at, updated_at`

// Record inserts an entry for a freshly copied destination, replacing any
// previous entry for the same path, its EXIF summary included.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	status := entry.RestoreStatus
	if status == "" {
		status = RestorePending
	}
	err := s.exec(ctx,
		`INSERT INTO items (`+entryColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(destination) DO UPDATE SET
            identifier = excluded.identifier,
            sidecar = excluded.sidecar,
            thumbnail = excluded.thumbnail,
            source_file = excluded.source_file,
            size_bytes = excluded.size_bytes,
            run_id = excluded.run_id,
            restore_status = excluded.restore_status,
            restore_error = excluded.restore_error,
            exif_taken_at = excluded.exif_taken_at,
            exif_model = excluded.exif_model,
            updated_at = excluded.updated_at`,
		entry.Destination,
		entry.Identifier,
		entry.Sidecar,
		entry.Thumbnail,
		entry.SourceFile,
		entry.SizeBytes,
		entry.RunID,
		string(status),
		nullableString(entry.RestoreError),
		nullableTime(entry.ExifTakenAt),
		nullableString(entry.ExifModel),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", entry.Destination, err)
	}
	return nil
}

// RestoreResult is the outcome of one restoration attempt.
type RestoreResult struct {
	Status      RestoreStatus
	Error       string
	ExifTakenAt time.Time
	ExifModel   string
}

// SetRestoreResult stores the restoration outcome for destination.
func (s *Store) SetRestoreResult(ctx context.Context, destination string, result RestoreResult) error {
	err := s.exec(ctx,
		`UPDATE items SET restore_status = ?, restore_error = ?,
            exif_taken_at = COALESCE(?, exif_taken_at), exif_model = COALESCE(?, exif_model),
            updated_at = ?
        WHERE destination = ?`,
		string(result.Status),
		nullableString(result.Error),
		nullableTime(result.ExifTakenAt),
		nullableString(result.ExifModel),
		time.Now().UTC().Format(time.RFC3339Nano),
		destination,
	)
	if err != nil {
		return fmt.Errorf("update restore result for %s: %w", destination, err)
	}
	return nil
}

// Lookup returns the entry for destination. The boolean is false when no
// entry exists.
func (s *Store) Lookup(ctx context.Context, destination string) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM items WHERE destination = ?`, destination)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("lookup %s: %w", destination, err)
	}
	return entry, true, nil
}

// NeedingRestore lists entries whose restoration failed or never completed,
// oldest first.
func (s *Store) NeedingRestore(ctx context.Context) ([]Entry, error) {
	return s.query(ctx,
		`SELECT `+entryColumns+` FROM items WHERE restore_status IN (?, ?) ORDER BY created_at, destination`,
		string(RestoreFailed), string(RestorePending),
	)
}

// Recent lists the most recently updated entries. A non-positive limit
// returns every entry.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.query(ctx, `SELECT `+entryColumns+` FROM items ORDER BY updated_at DESC, destination LIMIT ?`, limit)
}

// Counts returns the number of entries per restore status.
func (s *Store) Counts(ctx context.Context) (map[RestoreStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT restore_status, COUNT(1) FROM items GROUP BY restore_status`)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[RestoreStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[RestoreStatus(status)] = n
	}
	return counts, rows.Err()
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		entry        Entry
		status       string
		restoreError sql.NullString
		takenAt      sql.NullString
		model        sql.NullString
		createdAt    string
		updatedAt    string
	)
	if err := row.Scan(
		&entry.Destination,
		&entry.Identifier,
		&entry.Sidecar,
		&entry.Thumbnail,
		&entry.SourceFile,
		&entry.SizeBytes,
		&entry.RunID,
		&status,
		&restoreError,
		&takenAt,
		&model,
		&createdAt,
		&updatedAt,
	); err != nil {
		return Entry{}, err
	}
	entry.RestoreStatus = RestoreStatus(status)
	entry.RestoreError = restoreError.String
	entry.ExifModel = model.String
	entry.ExifTakenAt = parseTime(takenAt.String)
	entry.CreatedAt = parseTime(createdAt)
	entry.UpdatedAt = parseTime(updatedAt)
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

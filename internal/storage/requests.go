package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RequestRecord is one row of the request log.
type RequestRecord struct {
	ID        int64
	Method    string
	Path      string
	Status    int
	RequestID string
	Duration  time.Duration
	CreatedAt time.Time
}

// InsertRequest appends a record and returns its row id.
func (db *DB) InsertRequest(ctx context.Context, rec RequestRecord) (int64, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO requests (method, path, status, request_id, duration_us, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.Method, rec.Path, rec.Status, rec.RequestID, rec.Duration.Microseconds(), rec.CreatedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to insert request: %w", err)
	}
	return res.LastInsertId()
}

// RecentRequests returns up to limit records, newest first.
func (db *DB) RecentRequests(ctx context.Context, limit int) ([]RequestRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, method, path, status, request_id, duration_us, created_at
		FROM requests
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var out []RequestRecord
	for rows.Next() {
		var (
			rec        RequestRecord
			durationUS int64
			createdMS  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Method, &rec.Path, &rec.Status, &rec.RequestID, &durationUS, &createdMS); err != nil {
			return nil, err
		}
		rec.Duration = time.Duration(durationUS) * time.Microsecond
		rec.CreatedAt = time.UnixMilli(createdMS)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountByStatus returns the number of logged requests per status code.
func (db *DB) CountByStatus(ctx context.Context) (map[int]int, error) {
	counts := make(map[int]int)
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, "SELECT status, COUNT(*) FROM requests GROUP BY status")
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var status, n int
			if err := rows.Scan(&status, &n); err != nil {
				return err
			}
			counts[status] = n
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}
	return counts, nil
}

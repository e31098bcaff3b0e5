package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/model"
)

// GetLeaves returns every leave/closure record.
func (db *DB) GetLeaves(ctx context.Context) ([]model.LeaveRange, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, scope, worker_id, start_date, end_date, COALESCE(note, ''), created_at
		FROM leaves ORDER BY start_date`)
	if err != nil {
		return nil, fmt.Errorf("query leaves: %w", err)
	}
	defer rows.Close()

	var leaves []model.LeaveRange
	for rows.Next() {
		var l model.LeaveRange
		var start, end string
		if err := rows.Scan(&l.ID, &l.Scope, &l.WorkerID, &start, &end, &l.Note, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan leave row: %w", err)
		}
		if l.StartDate, err = time.Parse(model.DateFormat, start); err != nil {
			return nil, fmt.Errorf("leave %s: bad start date %q: %w", l.ID, start, err)
		}
		if l.EndDate, err = time.Parse(model.DateFormat, end); err != nil {
			return nil, fmt.Errorf("leave %s: bad end date %q: %w", l.ID, end, err)
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

// CreateLeave validates and inserts a leave range, assigning it an id.
func (db *DB) CreateLeave(ctx context.Context, l model.LeaveRange) (model.LeaveRange, error) {
	if err := l.Validate(); err != nil {
		return model.LeaveRange{}, err
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	l.CreatedAt = time.Now()

	_, err := db.ExecContext(ctx, `
		INSERT INTO leaves (id, scope, worker_id, start_date, end_date, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Scope, l.WorkerID,
		l.StartDate.Format(model.DateFormat), l.EndDate.Format(model.DateFormat),
		l.Note, l.CreatedAt,
	)
	if err != nil {
		return model.LeaveRange{}, fmt.Errorf("insert leave: %w", err)
	}
	return l, nil
}

// DeleteLeave removes a leave range. Deleting an unknown id is not an error.
func (db *DB) DeleteLeave(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM leaves WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete leave: %w", err)
	}
	return nil
}

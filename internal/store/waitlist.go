package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/model"
)

func waitlistCacheKey(date time.Time) string {
	return "agenda:waitlist:" + model.DateOnly(date).Format(model.DateFormat)
}

// GetWaitlistCounts returns waiting demand for one date, aggregated per
// desired worker. worker_id 0 is "any worker" demand.
func (db *DB) GetWaitlistCounts(ctx context.Context, date time.Time) ([]model.WaitlistCount, error) {
	key := waitlistCacheKey(date)
	var cached []model.WaitlistCount
	if db.readCache(ctx, key, &cached) {
		return cached, nil
	}

	day := model.DateOnly(date)
	rows, err := db.QueryContext(ctx, `
		SELECT worker_id, COUNT(*) FROM waitlist_requests
		WHERE date = ? GROUP BY worker_id ORDER BY worker_id`,
		day.Format(model.DateFormat))
	if err != nil {
		return nil, fmt.Errorf("query waitlist counts: %w", err)
	}
	defer rows.Close()

	var counts []model.WaitlistCount
	for rows.Next() {
		c := model.WaitlistCount{Date: day}
		if err := rows.Scan(&c.WorkerID, &c.Count); err != nil {
			return nil, fmt.Errorf("scan waitlist count row: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	db.writeCache(ctx, key, counts)
	return counts, nil
}

// GetWaitlistRequests returns one date's individual waiting clients.
func (db *DB) GetWaitlistRequests(ctx context.Context, date time.Time) ([]model.WaitlistRequest, error) {
	day := model.DateOnly(date)
	rows, err := db.QueryContext(ctx, `
		SELECT id, worker_id, client_name, COALESCE(phone, ''), COALESCE(service, ''), created_at
		FROM waitlist_requests WHERE date = ? ORDER BY created_at`,
		day.Format(model.DateFormat))
	if err != nil {
		return nil, fmt.Errorf("query waitlist requests: %w", err)
	}
	defer rows.Close()

	var requests []model.WaitlistRequest
	for rows.Next() {
		r := model.WaitlistRequest{Date: day}
		if err := rows.Scan(&r.ID, &r.WorkerID, &r.ClientName, &r.Phone, &r.Service, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan waitlist request row: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// CreateWaitlistRequest inserts a waiting client, assigning it an id.
func (db *DB) CreateWaitlistRequest(ctx context.Context, r model.WaitlistRequest) (model.WaitlistRequest, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.CreatedAt = time.Now()

	_, err := db.ExecContext(ctx, `
		INSERT INTO waitlist_requests (id, date, worker_id, client_name, phone, service, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, model.DateOnly(r.Date).Format(model.DateFormat), r.WorkerID,
		r.ClientName, r.Phone, r.Service, r.CreatedAt)
	if err != nil {
		return model.WaitlistRequest{}, fmt.Errorf("insert waitlist request: %w", err)
	}
	db.invalidateCache(ctx, waitlistCacheKey(r.Date))
	return r, nil
}

// DeleteWaitlistRequest removes a waiting client.
func (db *DB) DeleteWaitlistRequest(ctx context.Context, id string) error {
	var date string
	err := db.QueryRowContext(ctx,
		"SELECT date FROM waitlist_requests WHERE id = ?", id).Scan(&date)
	if err == nil {
		if day, perr := time.Parse(model.DateFormat, date); perr == nil {
			db.invalidateCache(ctx, waitlistCacheKey(day))
		}
	}

	_, err = db.ExecContext(ctx, "DELETE FROM waitlist_requests WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete waitlist request: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/model"
)

// GetWorkers returns all workers in registry order.
func (db *DB) GetWorkers(ctx context.Context) ([]model.Worker, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, name, days_off FROM workers ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query workers: %w", err)
	}
	defer rows.Close()

	var workers []model.Worker
	for rows.Next() {
		var w model.Worker
		var daysOff string
		if err := rows.Scan(&w.ID, &w.Name, &daysOff); err != nil {
			return nil, fmt.Errorf("scan worker row: %w", err)
		}
		if w.DaysOff, err = parseDaysOff(daysOff); err != nil {
			return nil, fmt.Errorf("worker %d: %w", w.ID, err)
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

// CreateWorker inserts a worker and returns it with its assigned id.
func (db *DB) CreateWorker(ctx context.Context, w model.Worker) (model.Worker, error) {
	daysOff, err := formatDaysOff(w.DaysOff)
	if err != nil {
		return model.Worker{}, err
	}
	res, err := db.ExecContext(ctx,
		"INSERT INTO workers (name, days_off) VALUES (?, ?)", w.Name, daysOff)
	if err != nil {
		return model.Worker{}, fmt.Errorf("insert worker: %w", err)
	}
	if w.ID, err = res.LastInsertId(); err != nil {
		return model.Worker{}, err
	}
	return w, nil
}

// UpdateWorker replaces a worker's name and days off.
func (db *DB) UpdateWorker(ctx context.Context, w model.Worker) error {
	daysOff, err := formatDaysOff(w.DaysOff)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		"UPDATE workers SET name = ?, days_off = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		w.Name, daysOff, w.ID)
	if err != nil {
		return fmt.Errorf("update worker: %w", err)
	}
	return nil
}

// DeleteWorker removes a worker. Their appointments keep the old worker id
// and fall into the unassigned group at aggregation time.
func (db *DB) DeleteWorker(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx, "DELETE FROM workers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}
	return nil
}

// parseDaysOff decodes the "1,3" storage form of a days-off set.
func parseDaysOff(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad days_off entry %q: %w", p, err)
		}
		if !model.ValidWeekday(n) {
			return nil, fmt.Errorf("days_off weekday %d out of range", n)
		}
		days = append(days, n)
	}
	sort.Ints(days)
	return days, nil
}

func formatDaysOff(days []int) (string, error) {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		if !model.ValidWeekday(d) {
			return "", fmt.Errorf("days_off weekday %d out of range", d)
		}
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ","), nil
}

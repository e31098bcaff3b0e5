package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/model"
)

// GetAppointments returns all appointments, or one worker's when workerID is
// not model.UnassignedWorker. Rows come back in insertion order within a day
// so the aggregator's stable sort preserves fetch order for equal times.
func (db *DB) GetAppointments(ctx context.Context, workerID int64) ([]model.Appointment, error) {
	query := `
		SELECT id, date, time, worker_id, status, client_name,
		       COALESCE(phone, ''), COALESCE(email, ''), service, created_at, updated_at
		FROM appointments`
	args := []any{}
	if workerID != model.UnassignedWorker {
		query += " WHERE worker_id = ?"
		args = append(args, workerID)
	}
	query += " ORDER BY date, created_at"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// GetAppointmentsByDate returns one day's appointments.
func (db *DB) GetAppointmentsByDate(ctx context.Context, date time.Time) ([]model.Appointment, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, date, time, worker_id, status, client_name,
		       COALESCE(phone, ''), COALESCE(email, ''), service, created_at, updated_at
		FROM appointments WHERE date = ? ORDER BY created_at`,
		model.DateOnly(date).Format(model.DateFormat))
	if err != nil {
		return nil, fmt.Errorf("query appointments by date: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func scanAppointments(rows *sql.Rows) ([]model.Appointment, error) {
	var appointments []model.Appointment
	for rows.Next() {
		var a model.Appointment
		var date string
		err := rows.Scan(&a.ID, &date, &a.Time, &a.WorkerID, &a.Status, &a.ClientName,
			&a.Phone, &a.Email, &a.Service, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan appointment row: %w", err)
		}
		if a.Date, err = time.Parse(model.DateFormat, date); err != nil {
			return nil, fmt.Errorf("appointment %s: bad date %q: %w", a.ID, date, err)
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

// CreateAppointment validates and inserts an appointment, assigning it an id.
func (db *DB) CreateAppointment(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	clock, err := model.ParseClock(a.Time)
	if err != nil {
		return model.Appointment{}, err
	}
	a.Time = clock
	if a.Status == "" {
		a.Status = model.AppointmentConfirmed
	}
	if a.Status != model.AppointmentConfirmed && a.Status != model.AppointmentHold {
		return model.Appointment{}, fmt.Errorf("unknown appointment status %q", a.Status)
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now

	_, err = db.ExecContext(ctx, `
		INSERT INTO appointments (id, date, time, worker_id, status, client_name, phone, email, service, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, model.DateOnly(a.Date).Format(model.DateFormat), a.Time, a.WorkerID,
		a.Status, a.ClientName, a.Phone, a.Email, a.Service, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}
	return a, nil
}

// UpdateAppointmentStatus flips a booking between hold and confirmed.
func (db *DB) UpdateAppointmentStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	if status != model.AppointmentConfirmed && status != model.AppointmentHold {
		return fmt.Errorf("unknown appointment status %q", status)
	}
	_, err := db.ExecContext(ctx,
		"UPDATE appointments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	return nil
}

// DeleteAppointment removes a booking.
func (db *DB) DeleteAppointment(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM appointments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

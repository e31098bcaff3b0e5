package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/model"
)

const scheduleCacheKey = "agenda:schedule"

// DefaultScheduleConfig provides opening hours used to seed an empty database:
// closed Sunday and Monday, open the rest of the week with a midday break.
var DefaultScheduleConfig = struct {
	OpenTime   string
	CloseTime  string
	BreakStart string
	BreakEnd   string
	ClosedDays []int
}{
	OpenTime:   "09:00",
	CloseTime:  "19:00",
	BreakStart: "12:30",
	BreakEnd:   "14:00",
	ClosedDays: []int{0, 1},
}

// GetSchedule returns the 7-entry weekly schedule.
func (db *DB) GetSchedule(ctx context.Context) (model.WeeklySchedule, error) {
	var cached model.WeeklySchedule
	if db.readCache(ctx, scheduleCacheKey, &cached) {
		return cached, nil
	}

	rows, err := db.QueryContext(ctx, `
		SELECT weekday, is_open, open_time, close_time, break_start, break_end
		FROM weekly_schedule ORDER BY weekday`)
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	defer rows.Close()

	var schedule model.WeeklySchedule
	for rows.Next() {
		var d model.DaySchedule
		var breakStart, breakEnd sql.NullString
		if err := rows.Scan(&d.Weekday, &d.IsOpen, &d.OpenTime, &d.CloseTime, &breakStart, &breakEnd); err != nil {
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		d.BreakStart = breakStart.String
		d.BreakEnd = breakEnd.String
		schedule = append(schedule, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	db.writeCache(ctx, scheduleCacheKey, schedule)
	return schedule, nil
}

// UpsertScheduleEntry replaces one weekday's opening hours.
func (db *DB) UpsertScheduleEntry(ctx context.Context, d model.DaySchedule) error {
	if !model.ValidWeekday(d.Weekday) {
		return fmt.Errorf("invalid weekday %d", d.Weekday)
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO weekly_schedule (weekday, is_open, open_time, close_time, break_start, break_end, updated_at)
		VALUES (?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), CURRENT_TIMESTAMP)
		ON CONFLICT(weekday) DO UPDATE SET
			is_open = excluded.is_open,
			open_time = excluded.open_time,
			close_time = excluded.close_time,
			break_start = excluded.break_start,
			break_end = excluded.break_end,
			updated_at = CURRENT_TIMESTAMP`,
		d.Weekday, d.IsOpen, d.OpenTime, d.CloseTime, d.BreakStart, d.BreakEnd,
	)
	if err != nil {
		return fmt.Errorf("upsert schedule entry: %w", err)
	}
	db.invalidateCache(ctx, scheduleCacheKey)
	return nil
}

// EnsureDefaultSchedule seeds the weekly schedule for weekdays that have no
// entry yet.
func (db *DB) EnsureDefaultSchedule(ctx context.Context) error {
	closed := make(map[int]bool, len(DefaultScheduleConfig.ClosedDays))
	for _, d := range DefaultScheduleConfig.ClosedDays {
		closed[d] = true
	}

	for weekday := 0; weekday <= 6; weekday++ {
		var count int
		err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM weekly_schedule WHERE weekday = ?", weekday,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("check schedule day %d: %w", weekday, err)
		}
		if count > 0 {
			continue
		}

		entry := model.DaySchedule{
			Weekday:    weekday,
			IsOpen:     !closed[weekday],
			OpenTime:   DefaultScheduleConfig.OpenTime,
			CloseTime:  DefaultScheduleConfig.CloseTime,
			BreakStart: DefaultScheduleConfig.BreakStart,
			BreakEnd:   DefaultScheduleConfig.BreakEnd,
		}
		if err := db.UpsertScheduleEntry(ctx, entry); err != nil {
			return fmt.Errorf("seed schedule day %d: %w", weekday, err)
		}
	}
	return nil
}

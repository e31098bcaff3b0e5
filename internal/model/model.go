package model

import (
	"fmt"
	"time"
)

// UnassignedWorker is the canonical id for "no worker": salon-assigned
// appointments and "any worker" waitlist demand. Real worker ids are positive.
const UnassignedWorker int64 = 0

// UnassignedDisplayName labels the trailing group for salon-assigned bookings.
const UnassignedDisplayName = "Non assigné"

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// ClockFormat is the wire format for times of day.
const ClockFormat = "15:04"

// DayStatus classifies a calendar day for the agenda.
type DayStatus string

const (
	StatusOpen            DayStatus = "open"
	StatusClosedRegular   DayStatus = "closed_regular"
	StatusClosedException DayStatus = "closed_exception"
	StatusOnLeave         DayStatus = "on_leave"
	StatusWeeklyOff       DayStatus = "weekly_off"
)

// DaySchedule is one weekday's opening hours. Weekday follows time.Weekday
// numbering: 0 = Sunday .. 6 = Saturday.
type DaySchedule struct {
	Weekday    int    `json:"weekday"`
	IsOpen     bool   `json:"is_open"`
	OpenTime   string `json:"open_time"`  // "09:00"
	CloseTime  string `json:"close_time"` // "19:00"
	BreakStart string `json:"break_start,omitempty"`
	BreakEnd   string `json:"break_end,omitempty"`
}

// Break returns the effective midday break. A break whose end is not strictly
// before closing time is void and reported as absent.
func (d DaySchedule) Break() (start, end string, ok bool) {
	if d.BreakStart == "" || d.BreakEnd == "" {
		return "", "", false
	}
	if d.BreakStart >= d.BreakEnd {
		return "", "", false
	}
	if d.CloseTime <= d.BreakEnd {
		return "", "", false
	}
	return d.BreakStart, d.BreakEnd, true
}

// WeeklySchedule holds one entry per weekday.
type WeeklySchedule []DaySchedule

// ForWeekday returns the entry for a weekday. Missing or malformed entries
// fall back to an open day so a broken schedule never blanks the agenda.
func (w WeeklySchedule) ForWeekday(weekday int) DaySchedule {
	for _, d := range w {
		if d.Weekday == weekday {
			return d
		}
	}
	return DaySchedule{Weekday: weekday, IsOpen: true}
}

// LeaveScope distinguishes salon-wide closures from one worker's leave.
type LeaveScope string

const (
	LeaveScopeGlobal LeaveScope = "global"
	LeaveScopeWorker LeaveScope = "worker"
)

// LeaveRange is an inclusive date-range closure.
type LeaveRange struct {
	ID        string     `json:"id"`
	Scope     LeaveScope `json:"scope"`
	WorkerID  int64      `json:"worker_id,omitempty"` // UnassignedWorker when global
	StartDate time.Time  `json:"start_date"`
	EndDate   time.Time  `json:"end_date"`
	Note      string     `json:"note,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Covers reports whether the range includes the given day. Both endpoints are
// inclusive and comparison is at day granularity.
func (l LeaveRange) Covers(day time.Time) bool {
	d := DateOnly(day)
	return !d.Before(DateOnly(l.StartDate)) && !d.After(DateOnly(l.EndDate))
}

// Validate checks the range invariants before it reaches storage.
func (l LeaveRange) Validate() error {
	if DateOnly(l.EndDate).Before(DateOnly(l.StartDate)) {
		return fmt.Errorf("leave range: end date %s before start date %s",
			l.EndDate.Format(DateFormat), l.StartDate.Format(DateFormat))
	}
	if l.Scope == LeaveScopeWorker && l.WorkerID == UnassignedWorker {
		return fmt.Errorf("leave range: worker scope requires a worker id")
	}
	if l.Scope != LeaveScopeGlobal && l.Scope != LeaveScopeWorker {
		return fmt.Errorf("leave range: unknown scope %q", l.Scope)
	}
	return nil
}

// Worker is a salon staff member.
type Worker struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	DaysOff []int  `json:"days_off"` // weekdays 0-6, may be empty
}

// HasDayOff reports whether the weekday is a recurring day off.
func (w Worker) HasDayOff(weekday int) bool {
	for _, d := range w.DaysOff {
		if d == weekday {
			return true
		}
	}
	return false
}

// AppointmentStatus is the booking state.
type AppointmentStatus string

const (
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentHold      AppointmentStatus = "hold"
)

// Appointment is one booked slot.
type Appointment struct {
	ID         string            `json:"id"`
	Date       time.Time         `json:"date"`
	Time       string            `json:"time"` // "HH:MM", zero-padded
	WorkerID   int64             `json:"worker_id"` // UnassignedWorker when salon-assigned
	Status     AppointmentStatus `json:"status"`
	ClientName string            `json:"client_name"`
	Phone      string            `json:"phone,omitempty"`
	Email      string            `json:"email,omitempty"`
	Service    string            `json:"service"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// WaitlistCount is aggregated waiting demand for one date and desired worker.
// WorkerID == UnassignedWorker means "any worker".
type WaitlistCount struct {
	Date     time.Time `json:"date"`
	WorkerID int64     `json:"worker_id"`
	Count    int       `json:"count"`
}

// WaitlistRequest is one waiting client, used by the detail view.
type WaitlistRequest struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	WorkerID   int64     `json:"worker_id"` // UnassignedWorker = any worker
	ClientName string    `json:"client_name"`
	Phone      string    `json:"phone,omitempty"`
	Service    string    `json:"service,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ViewContext selects salon-wide or worker-scoped resolution.
type ViewContext struct {
	WorkerID int64
}

// SalonWide is the context with no worker filter.
func SalonWide() ViewContext { return ViewContext{WorkerID: UnassignedWorker} }

// ForWorker is the context filtered to one worker.
func ForWorker(id int64) ViewContext { return ViewContext{WorkerID: id} }

// IsWorkerScoped reports whether a worker filter applies.
func (v ViewContext) IsWorkerScoped() bool { return v.WorkerID != UnassignedWorker }

// Visibility holds the display toggles. A disabled toggle suppresses its rule
// during resolution; it never reorders the remaining rules.
type Visibility struct {
	ShowClosures  bool `json:"show_closures"`
	ShowLeaves    bool `json:"show_leaves"`
	ShowWeeklyOff bool `json:"show_weekly_off"`
}

// AllVisible enables every rule.
func AllVisible() Visibility {
	return Visibility{ShowClosures: true, ShowLeaves: true, ShowWeeklyOff: true}
}

// DateOnly truncates a timestamp to its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// ValidWeekday reports whether n is a valid weekday index.
func ValidWeekday(n int) bool { return n >= 0 && n <= 6 }

// ParseClock validates an "HH:MM" time of day and returns it zero-padded.
func ParseClock(s string) (string, error) {
	t, err := time.Parse(ClockFormat, s)
	if err != nil {
		return "", fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Format(ClockFormat), nil
}

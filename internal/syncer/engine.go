package syncer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/agenda"
	"github.com/AdrienClement38/hair-salon-website-sub001/internal/metrics"
	"github.com/AdrienClement38/hair-salon-website-sub001/internal/model"
)

// DataSource is the collaborator data layer the engine polls. Every call is a
// suspension point; everything else the engine does is synchronous computation
// over already-fetched snapshots.
type DataSource interface {
	GetSchedule(ctx context.Context) (model.WeeklySchedule, error)
	GetLeaves(ctx context.Context) ([]model.LeaveRange, error)
	GetWorkers(ctx context.Context) ([]model.Worker, error)
	// GetAppointments returns all appointments, or one worker's when
	// workerID is not model.UnassignedWorker.
	GetAppointments(ctx context.Context, workerID int64) ([]model.Appointment, error)
	GetWaitlistCounts(ctx context.Context, date time.Time) ([]model.WaitlistCount, error)
}

// Config holds the two refresh cadences.
type Config struct {
	// GridInterval is the coarse full-snapshot refresh period. Default: 60s.
	GridInterval time.Duration
	// DetailInterval is the fine-grained waitlist refresh period while a
	// day's detail view is open. Default: 10s.
	DetailInterval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		GridInterval:   60 * time.Second,
		DetailInterval: 10 * time.Second,
	}
}

// Engine keeps the agenda fresh against a moving backend. A coarse timer
// replaces the whole snapshot (the grid has no per-cell state to preserve);
// a fine timer, alive only while a day's detail view is open, re-polls the
// waitlist for that date and merges only changed groups into the rendered
// view. A failed cycle keeps the previous snapshot and is retried on the next
// scheduled tick, never immediately.
type Engine struct {
	cfg    Config
	src    DataSource
	logger *zerolog.Logger

	mu           sync.RWMutex
	snap         *agenda.Snapshot
	appointments []model.Appointment
	view         *agenda.DayView
	viewDate     time.Time
	viewCtx      model.ViewContext

	// generation orders detail refreshes: a response is applied only if no
	// newer refresh has started since it did (last-fetch-started wins).
	generation atomic.Uint64

	detailCancel context.CancelFunc

	runMu   sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New creates an engine. The snapshot starts empty until the first grid
// refresh succeeds.
func New(cfg Config, src DataSource, logger *zerolog.Logger) *Engine {
	if cfg.GridInterval <= 0 {
		cfg.GridInterval = DefaultConfig().GridInterval
	}
	if cfg.DetailInterval <= 0 {
		cfg.DetailInterval = DefaultConfig().DetailInterval
	}
	return &Engine{
		cfg:    cfg,
		src:    src,
		logger: logger,
		snap:   &agenda.Snapshot{},
		stopCh: make(chan struct{}),
	}
}

// Start begins the grid refresh loop. It runs one refresh immediately so the
// agenda is usable before the first tick.
func (e *Engine) Start(ctx context.Context) {
	e.runMu.Lock()
	if e.running {
		e.runMu.Unlock()
		return
	}
	e.running = true
	e.runMu.Unlock()

	e.wg.Add(1)
	go e.gridLoop(ctx)

	e.logger.Info().
		Dur("grid_interval", e.cfg.GridInterval).
		Dur("detail_interval", e.cfg.DetailInterval).
		Msg("sync engine started")
}

// Stop cancels both timers and waits for in-flight loops to exit.
func (e *Engine) Stop() {
	e.runMu.Lock()
	if !e.running {
		e.runMu.Unlock()
		return
	}
	e.running = false
	close(e.stopCh)
	e.runMu.Unlock()

	e.CloseDay()
	e.wg.Wait()
	e.logger.Info().Msg("sync engine stopped")
}

func (e *Engine) gridLoop(ctx context.Context) {
	defer e.wg.Done()

	if err := e.RefreshGrid(ctx); err != nil {
		e.logger.Error().Err(err).Msg("initial grid refresh failed")
	}

	ticker := time.NewTicker(e.cfg.GridInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stopCh:
			return
		case <-ticker.C:
			if err := e.RefreshGrid(ctx); err != nil {
				e.logger.Error().Err(err).Msg("grid refresh failed, keeping previous snapshot")
			}
		}
	}
}

// RefreshGrid re-fetches schedule, leaves, workers and the full appointment
// set, then replaces the snapshot wholesale. On any fetch error the previous
// snapshot stays untouched.
func (e *Engine) RefreshGrid(ctx context.Context) error {
	schedule, err := e.src.GetSchedule(ctx)
	if err != nil {
		metrics.IncRefreshCycle("grid", "error")
		return fmt.Errorf("fetch schedule: %w", err)
	}
	leaves, err := e.src.GetLeaves(ctx)
	if err != nil {
		metrics.IncRefreshCycle("grid", "error")
		return fmt.Errorf("fetch leaves: %w", err)
	}
	workers, err := e.src.GetWorkers(ctx)
	if err != nil {
		metrics.IncRefreshCycle("grid", "error")
		return fmt.Errorf("fetch workers: %w", err)
	}
	appointments, err := e.src.GetAppointments(ctx, model.UnassignedWorker)
	if err != nil {
		metrics.IncRefreshCycle("grid", "error")
		return fmt.Errorf("fetch appointments: %w", err)
	}

	snap := &agenda.Snapshot{
		Schedule:  schedule,
		Leaves:    leaves,
		Workers:   workers,
		FetchedAt: time.Now(),
	}

	e.mu.Lock()
	e.snap = snap
	e.appointments = appointments
	e.mu.Unlock()

	metrics.IncRefreshCycle("grid", "ok")
	return nil
}

// Snapshot returns the current schedule/leaves/workers snapshot.
func (e *Engine) Snapshot() *agenda.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// AppointmentsOn returns the cached appointments for one day, optionally
// filtered to the context's worker.
func (e *Engine) AppointmentsOn(day time.Time, vctx model.ViewContext) []model.Appointment {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []model.Appointment
	for _, a := range e.appointments {
		if !model.SameDay(a.Date, day) {
			continue
		}
		if vctx.IsWorkerScoped() && a.WorkerID != vctx.WorkerID {
			continue
		}
		out = append(out, a)
	}
	return out
}

// GridDay is one month-grid cell: the day's status plus badge counts.
type GridDay struct {
	Date         time.Time       `json:"date"`
	Status       model.DayStatus `json:"status"`
	Appointments int             `json:"appointments"`
	Holds        int             `json:"holds"`
}

// Grid classifies every day in [start, end] and counts its bookings. Both
// endpoints are inclusive; the caller validates the range size.
func (e *Engine) Grid(start, end time.Time, vctx model.ViewContext, vis model.Visibility) []GridDay {
	e.mu.RLock()
	snap := e.snap
	appointments := e.appointments
	e.mu.RUnlock()

	byDay := make(map[string][]model.Appointment)
	for _, a := range appointments {
		if vctx.IsWorkerScoped() && a.WorkerID != vctx.WorkerID {
			continue
		}
		key := model.DateOnly(a.Date).Format(model.DateFormat)
		byDay[key] = append(byDay[key], a)
	}

	var days []GridDay
	for d := model.DateOnly(start); !d.After(model.DateOnly(end)); d = d.AddDate(0, 0, 1) {
		cell := GridDay{
			Date:   d,
			Status: agenda.Resolve(d, vctx, snap, vis),
		}
		for _, a := range byDay[d.Format(model.DateFormat)] {
			cell.Appointments++
			if a.Status == model.AppointmentHold {
				cell.Holds++
			}
		}
		days = append(days, cell)
	}
	return days
}

// OpenDay builds the detail view for one day and starts the detail refresh
// timer for it. Opening a different day cancels the previous timer first.
func (e *Engine) OpenDay(ctx context.Context, day time.Time, vctx model.ViewContext) (agenda.DayView, error) {
	counts, err := e.src.GetWaitlistCounts(ctx, model.DateOnly(day))
	if err != nil {
		return agenda.DayView{}, fmt.Errorf("fetch waitlist counts: %w", err)
	}

	appointments := e.AppointmentsOn(day, vctx)
	snap := e.Snapshot()
	view := agenda.Aggregate(day, appointments, counts, snap.Workers, vctx)

	e.closeDetail()

	detailCtx, cancel := context.WithCancel(context.Background())

	e.mu.Lock()
	e.view = &view
	e.viewDate = model.DateOnly(day)
	e.viewCtx = vctx
	e.detailCancel = cancel
	e.mu.Unlock()

	e.wg.Add(1)
	go e.detailLoop(detailCtx, model.DateOnly(day))

	return copyView(view), nil
}

// CloseDay cancels the detail refresh timer and drops the rendered view.
func (e *Engine) CloseDay() {
	e.closeDetail()
}

func (e *Engine) closeDetail() {
	e.mu.Lock()
	cancel := e.detailCancel
	e.detailCancel = nil
	e.view = nil
	// Cancellation alone does not stop a fetch already in flight; advancing
	// the generation makes any cycle begun against the old view stale.
	e.generation.Add(1)
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// DayView returns a copy of the currently rendered detail view.
func (e *Engine) DayView() (agenda.DayView, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.view == nil {
		return agenda.DayView{}, false
	}
	return copyView(*e.view), true
}

func (e *Engine) detailLoop(ctx context.Context, day time.Time) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.cfg.DetailInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stopCh:
			return
		case <-ticker.C:
			gen := e.BeginDetailRefresh()
			counts, err := e.src.GetWaitlistCounts(ctx, day)
			if err != nil {
				metrics.IncRefreshCycle("detail", "error")
				e.logger.Error().Err(err).Str("date", day.Format(model.DateFormat)).
					Msg("detail refresh failed, retrying on next tick")
				continue
			}
			e.CompleteDetailRefresh(gen, counts)
		}
	}
}

// BeginDetailRefresh marks the start of a detail refresh cycle and returns
// its generation id.
func (e *Engine) BeginDetailRefresh() uint64 {
	return e.generation.Add(1)
}

// CompleteDetailRefresh merges a finished cycle's waitlist snapshot into the
// rendered view. The result is discarded when a newer cycle has started since
// this one began, or when the view was closed meanwhile. It reports whether
// the snapshot was applied.
func (e *Engine) CompleteDetailRefresh(gen uint64, counts []model.WaitlistCount) bool {
	if gen != e.generation.Load() {
		metrics.IncStaleDropped()
		e.logger.Debug().Uint64("generation", gen).Msg("stale detail response dropped")
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.view == nil {
		return false
	}

	changes := agenda.MergeWaitlist(e.view, counts)
	metrics.IncRefreshCycle("detail", "ok")
	metrics.AddGroupUpdates(len(changes))

	if len(changes) > 0 {
		e.logger.Debug().Int("groups_changed", len(changes)).
			Str("date", e.viewDate.Format(model.DateFormat)).
			Msg("day view merged")
	}
	return true
}

func copyView(v agenda.DayView) agenda.DayView {
	out := v
	out.Groups = make([]agenda.WorkerGroup, len(v.Groups))
	copy(out.Groups, v.Groups)
	return out
}

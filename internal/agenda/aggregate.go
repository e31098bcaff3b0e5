package agenda

import (
	"fmt"
	"sort"
	"time"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/model"
)

// WorkerGroup is one display section of a day: a worker's appointments plus
// the waiting demand for that worker. WorkerID is model.UnassignedWorker for
// the trailing salon-assigned group.
type WorkerGroup struct {
	WorkerID     int64               `json:"worker_id"`
	DisplayName  string              `json:"display_name"`
	Appointments []model.Appointment `json:"appointments"`
	WaitingCount int                 `json:"waiting_count"`
}

// DayView is the aggregated detail view of one day.
type DayView struct {
	Date      time.Time     `json:"date"`
	SalonWide bool          `json:"salon_wide"`
	Groups    []WorkerGroup `json:"groups"`
}

// Empty reports whether the day has nothing to show. This is the explicit
// empty state, distinct from a fetch failure.
func (v DayView) Empty() bool { return len(v.Groups) == 0 }

// Group returns the group for a worker id.
func (v *DayView) Group(workerID int64) (*WorkerGroup, bool) {
	for i := range v.Groups {
		if v.Groups[i].WorkerID == workerID {
			return &v.Groups[i], true
		}
	}
	return nil, false
}

// Aggregate builds the display-ready view of one day from already-fetched
// snapshots. It is a pure transformation: inputs are not mutated.
//
// Salon-wide: one group per registry worker that has at least one appointment
// or waiting demand, in registry order, then a trailing unassigned group.
// Appointments whose worker is no longer in the registry fold into the
// unassigned group so none are dropped.
//
// Worker-scoped: a single group for the filtered worker; the caller passes
// appointments already filtered to that worker.
func Aggregate(day time.Time, appointments []model.Appointment, counts []model.WaitlistCount, workers []model.Worker, vctx model.ViewContext) DayView {
	view := DayView{Date: model.DateOnly(day), SalonWide: !vctx.IsWorkerScoped()}

	waiting := make(map[int64]int, len(counts))
	for _, c := range counts {
		waiting[c.WorkerID] += c.Count
	}

	if vctx.IsWorkerScoped() {
		group := WorkerGroup{
			WorkerID:     vctx.WorkerID,
			Appointments: sortByTime(appointments),
			WaitingCount: waiting[vctx.WorkerID],
		}
		for _, w := range workers {
			if w.ID == vctx.WorkerID {
				group.DisplayName = w.Name
				break
			}
		}
		if group.DisplayName == "" {
			// The filtered worker may have been deleted from the registry;
			// an id-derived label keeps them distinct from the unassigned group.
			group.DisplayName = fmt.Sprintf("Intervenant %d", vctx.WorkerID)
		}
		if len(group.Appointments) > 0 || group.WaitingCount > 0 {
			view.Groups = append(view.Groups, group)
		}
		return view
	}

	known := make(map[int64]bool, len(workers))
	for _, w := range workers {
		known[w.ID] = true
	}

	buckets := make(map[int64][]model.Appointment)
	for _, a := range appointments {
		id := a.WorkerID
		if !known[id] {
			id = model.UnassignedWorker
		}
		buckets[id] = append(buckets[id], a)
	}

	for _, w := range workers {
		appts := buckets[w.ID]
		wait := waiting[w.ID]
		if len(appts) == 0 && wait == 0 {
			continue
		}
		view.Groups = append(view.Groups, WorkerGroup{
			WorkerID:     w.ID,
			DisplayName:  w.Name,
			Appointments: sortByTime(appts),
			WaitingCount: wait,
		})
	}

	unassigned := buckets[model.UnassignedWorker]
	anyWait := waiting[model.UnassignedWorker]
	if len(unassigned) > 0 || anyWait > 0 {
		view.Groups = append(view.Groups, WorkerGroup{
			WorkerID:     model.UnassignedWorker,
			DisplayName:  model.UnassignedDisplayName,
			Appointments: sortByTime(unassigned),
			WaitingCount: anyWait,
		})
	}

	return view
}

// sortByTime orders appointments by "HH:MM" ascending. Zero-padded clock
// strings compare correctly as strings, and the stable sort keeps the original
// fetch order for equal times.
func sortByTime(appointments []model.Appointment) []model.Appointment {
	out := make([]model.Appointment, len(appointments))
	copy(out, appointments)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

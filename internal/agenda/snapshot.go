package agenda

import (
	"time"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/model"
)

// Snapshot is an immutable view of schedule, leaves and workers taken from the
// data layer. Resolution and aggregation only ever read a snapshot; refreshes
// replace it wholesale, never mutate it in place.
type Snapshot struct {
	Schedule  model.WeeklySchedule
	Leaves    []model.LeaveRange
	Workers   []model.Worker
	FetchedAt time.Time
}

// Worker looks up a worker by id.
func (s *Snapshot) Worker(id int64) (model.Worker, bool) {
	for _, w := range s.Workers {
		if w.ID == id {
			return w, true
		}
	}
	return model.Worker{}, false
}

// GlobalLeaveFor returns the first salon-wide closure covering the day.
func (s *Snapshot) GlobalLeaveFor(day time.Time) (model.LeaveRange, bool) {
	for _, l := range s.Leaves {
		if l.Scope == model.LeaveScopeGlobal && l.Covers(day) {
			return l, true
		}
	}
	return model.LeaveRange{}, false
}

// WorkerLeaveFor returns the first leave of the given worker covering the day.
func (s *Snapshot) WorkerLeaveFor(workerID int64, day time.Time) (model.LeaveRange, bool) {
	for _, l := range s.Leaves {
		if l.Scope == model.LeaveScopeWorker && l.WorkerID == workerID && l.Covers(day) {
			return l, true
		}
	}
	return model.LeaveRange{}, false
}

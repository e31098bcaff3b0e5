package agenda

import "github.com/AdrienClement38/hair-salon-website-sub001/internal/model"

// GroupChange records one group whose waiting badge changed during a merge.
type GroupChange struct {
	WorkerID int64
	OldCount int
	NewCount int
}

// MergeWaitlist folds a freshly fetched waitlist snapshot into an already
// rendered view and returns the groups that actually changed. Groups are
// matched by worker identity, not position, and groups whose count is
// unchanged are left untouched so the caller can re-render only what moved.
// A snapshot identical to the previous one yields no changes at all.
func MergeWaitlist(view *DayView, counts []model.WaitlistCount) []GroupChange {
	waiting := make(map[int64]int, len(counts))
	for _, c := range counts {
		waiting[c.WorkerID] += c.Count
	}

	var changes []GroupChange
	for i := range view.Groups {
		g := &view.Groups[i]
		next := waiting[g.WorkerID]
		if next == g.WaitingCount {
			continue
		}
		changes = append(changes, GroupChange{
			WorkerID: g.WorkerID,
			OldCount: g.WaitingCount,
			NewCount: next,
		})
		g.WaitingCount = next
	}
	return changes
}

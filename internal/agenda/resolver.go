package agenda

import (
	"time"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/model"
)

// Resolve classifies one calendar day. Rules are checked in a fixed order and
// the first match wins:
//
//  1. salon-wide closure covering the day
//  2. weekday closed in the weekly schedule
//  3. worker-scoped context only: personal leave, then weekly day off
//  4. open
//
// A visibility toggle suppresses its rule as if the condition were false; the
// remaining rules still apply in order, so hiding closures can never promote a
// day past the schedule check straight to open.
//
// Resolve never fails: missing schedule entries fall back to an open day, and
// weekday validation is the caller's job.
func Resolve(day time.Time, vctx model.ViewContext, snap *Snapshot, vis model.Visibility) model.DayStatus {
	if vis.ShowClosures {
		if _, ok := snap.GlobalLeaveFor(day); ok {
			return model.StatusClosedException
		}
	}

	weekday := int(day.Weekday())
	if !snap.Schedule.ForWeekday(weekday).IsOpen {
		return model.StatusClosedRegular
	}

	if vctx.IsWorkerScoped() {
		if vis.ShowLeaves {
			if _, ok := snap.WorkerLeaveFor(vctx.WorkerID, day); ok {
				return model.StatusOnLeave
			}
		}
		if vis.ShowWeeklyOff {
			if w, ok := snap.Worker(vctx.WorkerID); ok && w.HasDayOff(weekday) {
				return model.StatusWeeklyOff
			}
		}
	}

	return model.StatusOpen
}

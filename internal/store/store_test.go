package store

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(model.DateFormat, s)
	require.NoError(t, err)
	return d
}

func TestEnsureDefaultSchedule(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.EnsureDefaultSchedule(ctx))

	schedule, err := db.GetSchedule(ctx)
	require.NoError(t, err)
	require.Len(t, schedule, 7)

	assert.False(t, schedule.ForWeekday(0).IsOpen, "Sunday closed by default")
	assert.False(t, schedule.ForWeekday(1).IsOpen, "Monday closed by default")
	for wd := 2; wd <= 6; wd++ {
		day := schedule.ForWeekday(wd)
		assert.True(t, day.IsOpen)
		assert.Equal(t, "09:00", day.OpenTime)
		assert.Equal(t, "19:00", day.CloseTime)
		start, end, ok := day.Break()
		require.True(t, ok)
		assert.Equal(t, "12:30", start)
		assert.Equal(t, "14:00", end)
	}

	// Seeding again must not overwrite a customized entry.
	custom := schedule.ForWeekday(2)
	custom.OpenTime = "10:00"
	require.NoError(t, db.UpsertScheduleEntry(ctx, custom))
	require.NoError(t, db.EnsureDefaultSchedule(ctx))

	schedule, err = db.GetSchedule(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10:00", schedule.ForWeekday(2).OpenTime)
}

func TestUpsertScheduleEntryVoidBreak(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	entry := model.DaySchedule{
		Weekday: 4, IsOpen: true,
		OpenTime: "09:00", CloseTime: "13:00",
		BreakStart: "12:30", BreakEnd: "14:00",
	}
	require.NoError(t, db.UpsertScheduleEntry(ctx, entry))

	schedule, err := db.GetSchedule(ctx)
	require.NoError(t, err)
	_, _, ok := schedule.ForWeekday(4).Break()
	assert.False(t, ok, "break past closing time is void")

	err = db.UpsertScheduleEntry(ctx, model.DaySchedule{Weekday: 7})
	assert.Error(t, err)
}

func TestLeaveRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	created, err := db.CreateLeave(ctx, model.LeaveRange{
		Scope:     model.LeaveScopeGlobal,
		StartDate: mustDate(t, "2025-08-10"),
		EndDate:   mustDate(t, "2025-08-15"),
		Note:      "fermeture annuelle",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = db.CreateLeave(ctx, model.LeaveRange{
		Scope:     model.LeaveScopeWorker,
		StartDate: mustDate(t, "2025-08-20"),
		EndDate:   mustDate(t, "2025-08-19"),
		WorkerID:  3,
	})
	assert.Error(t, err, "end before start must be rejected")

	_, err = db.CreateLeave(ctx, model.LeaveRange{
		Scope:     model.LeaveScopeWorker,
		StartDate: mustDate(t, "2025-08-20"),
		EndDate:   mustDate(t, "2025-08-20"),
	})
	assert.Error(t, err, "worker scope without a worker id must be rejected")

	leaves, err := db.GetLeaves(ctx)
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, created.ID, leaves[0].ID)
	assert.Equal(t, "fermeture annuelle", leaves[0].Note)
	assert.True(t, leaves[0].Covers(mustDate(t, "2025-08-10")))
	assert.True(t, leaves[0].Covers(mustDate(t, "2025-08-15")))
	assert.False(t, leaves[0].Covers(mustDate(t, "2025-08-16")))

	require.NoError(t, db.DeleteLeave(ctx, created.ID))
	leaves, err = db.GetLeaves(ctx)
	require.NoError(t, err)
	assert.Empty(t, leaves)

	// Unknown id is not an error.
	assert.NoError(t, db.DeleteLeave(ctx, "missing"))
}

func TestWorkerDaysOffRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	w, err := db.CreateWorker(ctx, model.Worker{Name: "Camille", DaysOff: []int{3, 1}})
	require.NoError(t, err)
	require.NotZero(t, w.ID)

	_, err = db.CreateWorker(ctx, model.Worker{Name: "Broken", DaysOff: []int{9}})
	assert.Error(t, err)

	workers, err := db.GetWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.Equal(t, "Camille", workers[0].Name)
	assert.Equal(t, []int{1, 3}, workers[0].DaysOff, "days off come back sorted")

	w.Name = "Camille B."
	w.DaysOff = nil
	require.NoError(t, db.UpdateWorker(ctx, w))

	workers, err = db.GetWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.Equal(t, "Camille B.", workers[0].Name)
	assert.Empty(t, workers[0].DaysOff)
}

func TestAppointmentLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	day := mustDate(t, "2025-07-10")

	w, err := db.CreateWorker(ctx, model.Worker{Name: "Alex"})
	require.NoError(t, err)

	a1, err := db.CreateAppointment(ctx, model.Appointment{
		Date: day, Time: "10:00", WorkerID: w.ID,
		ClientName: "Mme Durand", Service: "Coupe",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentConfirmed, a1.Status, "status defaults to confirmed")

	_, err = db.CreateAppointment(ctx, model.Appointment{
		Date: day, Time: "9:30", WorkerID: model.UnassignedWorker,
		Status: model.AppointmentHold, ClientName: "M. Petit", Service: "Barbe",
	})
	require.NoError(t, err)

	_, err = db.CreateAppointment(ctx, model.Appointment{
		Date: day, Time: "25:00", ClientName: "X", Service: "Y",
	})
	assert.Error(t, err, "invalid clock time must be rejected")

	_, err = db.CreateAppointment(ctx, model.Appointment{
		Date: day, Time: "10:00", Status: "cancelled", ClientName: "X", Service: "Y",
	})
	assert.Error(t, err, "unknown status must be rejected")

	all, err := db.GetAppointments(ctx, model.UnassignedWorker)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "09:30", all[1].Time, "clock times are normalized to zero-padded form")

	mine, err := db.GetAppointments(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a1.ID, mine[0].ID)

	byDate, err := db.GetAppointmentsByDate(ctx, day)
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	require.NoError(t, db.UpdateAppointmentStatus(ctx, a1.ID, model.AppointmentHold))
	assert.Error(t, db.UpdateAppointmentStatus(ctx, a1.ID, "done"))

	mine, err = db.GetAppointments(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentHold, mine[0].Status)

	require.NoError(t, db.DeleteAppointment(ctx, a1.ID))
	all, err = db.GetAppointments(ctx, model.UnassignedWorker)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWaitlistCountsGrouping(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	day := mustDate(t, "2025-07-10")
	otherDay := mustDate(t, "2025-07-11")

	for i := 0; i < 2; i++ {
		_, err := db.CreateWaitlistRequest(ctx, model.WaitlistRequest{
			Date: day, WorkerID: 7, ClientName: "En attente",
		})
		require.NoError(t, err)
	}
	anyWorker, err := db.CreateWaitlistRequest(ctx, model.WaitlistRequest{
		Date: day, WorkerID: model.UnassignedWorker, ClientName: "Sans préférence",
	})
	require.NoError(t, err)
	_, err = db.CreateWaitlistRequest(ctx, model.WaitlistRequest{
		Date: otherDay, WorkerID: 7, ClientName: "Autre jour",
	})
	require.NoError(t, err)

	counts, err := db.GetWaitlistCounts(ctx, day)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, model.UnassignedWorker, counts[0].WorkerID)
	assert.Equal(t, 1, counts[0].Count)
	assert.Equal(t, int64(7), counts[1].WorkerID)
	assert.Equal(t, 2, counts[1].Count)

	requests, err := db.GetWaitlistRequests(ctx, day)
	require.NoError(t, err)
	assert.Len(t, requests, 3)

	require.NoError(t, db.DeleteWaitlistRequest(ctx, anyWorker.ID))
	counts, err = db.GetWaitlistCounts(ctx, day)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, int64(7), counts[0].WorkerID)
}

func TestDataSourceSnapshotReads(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.EnsureDefaultSchedule(ctx))
	_, err := db.CreateWorker(ctx, model.Worker{Name: "Camille"})
	require.NoError(t, err)

	schedule, err := db.GetSchedule(ctx)
	require.NoError(t, err)
	assert.Len(t, schedule, 7)

	leaves, err := db.GetLeaves(ctx)
	require.NoError(t, err)
	assert.Empty(t, leaves)

	workers, err := db.GetWorkers(ctx)
	require.NoError(t, err)
	assert.Len(t, workers, 1)
}

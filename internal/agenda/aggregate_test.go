package agenda

import (
	"testing"
	"time"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/model"
)

var aggDay = time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)

func fixtureWorkers() []model.Worker {
	return []model.Worker{
		{ID: 7, Name: "Camille"},
		{ID: 9, Name: "Alex"},
	}
}

func appt(id string, workerID int64, clock string) model.Appointment {
	return model.Appointment{
		ID:         id,
		Date:       aggDay,
		Time:       clock,
		WorkerID:   workerID,
		Status:     model.AppointmentConfirmed,
		ClientName: "Client " + id,
		Service:    "Coupe",
	}
}

func TestAggregateSalonWide(t *testing.T) {
	appointments := []model.Appointment{
		appt("a1", 7, "14:00"),
		appt("a2", 7, "10:30"),
		appt("a3", model.UnassignedWorker, "11:00"),
	}
	counts := []model.WaitlistCount{
		{Date: aggDay, WorkerID: 7, Count: 2},
		{Date: aggDay, WorkerID: model.UnassignedWorker, Count: 1},
	}

	view := Aggregate(aggDay, appointments, counts, fixtureWorkers(), model.SalonWide())

	if !view.SalonWide {
		t.Error("expected salon-wide view")
	}
	if len(view.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(view.Groups))
	}

	camille := view.Groups[0]
	if camille.WorkerID != 7 || len(camille.Appointments) != 2 || camille.WaitingCount != 2 {
		t.Errorf("unexpected worker group: %+v", camille)
	}
	if camille.Appointments[0].Time != "10:30" || camille.Appointments[1].Time != "14:00" {
		t.Error("appointments should be sorted by time ascending")
	}

	unassigned := view.Groups[1]
	if unassigned.WorkerID != model.UnassignedWorker {
		t.Error("trailing group should be the unassigned bucket")
	}
	if unassigned.DisplayName != model.UnassignedDisplayName {
		t.Errorf("unexpected display name %q", unassigned.DisplayName)
	}
	if len(unassigned.Appointments) != 1 || unassigned.WaitingCount != 1 {
		t.Errorf("unexpected unassigned group: %+v", unassigned)
	}
}

func TestAggregateCompleteness(t *testing.T) {
	appointments := []model.Appointment{
		appt("a1", 7, "10:00"),
		appt("a2", 9, "10:00"),
		appt("a3", model.UnassignedWorker, "12:00"),
		appt("a4", 55, "09:00"), // worker no longer in registry
	}

	view := Aggregate(aggDay, appointments, nil, fixtureWorkers(), model.SalonWide())

	total := 0
	seen := map[string]bool{}
	for _, g := range view.Groups {
		for _, a := range g.Appointments {
			total++
			if seen[a.ID] {
				t.Errorf("appointment %s duplicated across groups", a.ID)
			}
			seen[a.ID] = true
		}
	}
	if total != len(appointments) {
		t.Errorf("expected %d appointments across groups, got %d", len(appointments), total)
	}

	// The orphaned booking folds into the unassigned group.
	unassigned := view.Groups[len(view.Groups)-1]
	if unassigned.WorkerID != model.UnassignedWorker || len(unassigned.Appointments) != 2 {
		t.Errorf("orphaned appointment should fold into unassigned group: %+v", unassigned)
	}
}

func TestAggregateSortStability(t *testing.T) {
	// Equal times keep their fetch order.
	appointments := []model.Appointment{
		appt("first", 7, "10:00"),
		appt("second", 7, "10:00"),
		appt("third", 7, "09:00"),
	}

	view := Aggregate(aggDay, appointments, nil, fixtureWorkers(), model.SalonWide())

	got := view.Groups[0].Appointments
	if got[0].ID != "third" || got[1].ID != "first" || got[2].ID != "second" {
		t.Errorf("unexpected order: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestAggregateWaitingOnlyGroup(t *testing.T) {
	// A worker with no appointments but waiting demand still gets a group.
	counts := []model.WaitlistCount{{Date: aggDay, WorkerID: 9, Count: 3}}

	view := Aggregate(aggDay, nil, counts, fixtureWorkers(), model.SalonWide())

	if len(view.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(view.Groups))
	}
	if view.Groups[0].WorkerID != 9 || view.Groups[0].WaitingCount != 3 {
		t.Errorf("unexpected group: %+v", view.Groups[0])
	}
}

func TestAggregateEmptyState(t *testing.T) {
	view := Aggregate(aggDay, nil, nil, fixtureWorkers(), model.SalonWide())

	if !view.Empty() {
		t.Error("expected explicit empty state")
	}
	if len(view.Groups) != 0 {
		t.Errorf("expected no groups, got %d", len(view.Groups))
	}
}

func TestAggregateWorkerScoped(t *testing.T) {
	appointments := []model.Appointment{
		appt("a1", 7, "16:00"),
		appt("a2", 7, "09:30"),
	}
	counts := []model.WaitlistCount{
		{Date: aggDay, WorkerID: 7, Count: 1},
		{Date: aggDay, WorkerID: model.UnassignedWorker, Count: 4},
	}

	view := Aggregate(aggDay, appointments, counts, fixtureWorkers(), model.ForWorker(7))

	if view.SalonWide {
		t.Error("expected worker-scoped view")
	}
	if len(view.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(view.Groups))
	}
	g := view.Groups[0]
	if g.WorkerID != 7 || g.DisplayName != "Camille" {
		t.Errorf("unexpected group identity: %+v", g)
	}
	if g.WaitingCount != 1 {
		t.Errorf("waiting count should be the worker's own, got %d", g.WaitingCount)
	}
	if g.Appointments[0].ID != "a2" {
		t.Error("appointments should be sorted by time")
	}
}

func TestAggregateWorkerScopedUnknownWorker(t *testing.T) {
	appointments := []model.Appointment{
		appt("a1", 42, "10:00"),
	}

	view := Aggregate(aggDay, appointments, nil, fixtureWorkers(), model.ForWorker(42))

	if len(view.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(view.Groups))
	}
	g := view.Groups[0]
	if g.WorkerID != 42 {
		t.Errorf("group must keep the filtered worker id, got %d", g.WorkerID)
	}
	if g.DisplayName == model.UnassignedDisplayName {
		t.Error("deleted worker must not be labeled as the unassigned group")
	}
	if g.DisplayName != "Intervenant 42" {
		t.Errorf("expected id-derived label, got %q", g.DisplayName)
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	appointments := []model.Appointment{
		appt("a1", 7, "14:00"),
		appt("a2", 7, "10:00"),
	}

	Aggregate(aggDay, appointments, nil, fixtureWorkers(), model.SalonWide())

	if appointments[0].ID != "a1" || appointments[1].ID != "a2" {
		t.Error("input slice order must not change")
	}
}

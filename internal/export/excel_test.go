package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/agenda"
	"github.com/AdrienClement38/hair-salon-website-sub001/internal/model"
)

func fixtureView() agenda.DayView {
	return agenda.DayView{
		Date:      time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC),
		SalonWide: true,
		Groups: []agenda.WorkerGroup{
			{
				WorkerID:    7,
				DisplayName: "Camille",
				Appointments: []model.Appointment{
					{Time: "10:00", ClientName: "Mme Durand", Service: "Coupe", Status: model.AppointmentConfirmed, Phone: "0600000001"},
					{Time: "11:30", ClientName: "M. Petit", Service: "Couleur", Status: model.AppointmentHold},
				},
				WaitingCount: 2,
			},
			{
				WorkerID:    model.UnassignedWorker,
				DisplayName: model.UnassignedDisplayName,
				Appointments: []model.Appointment{
					{Time: "09:00", ClientName: "Mme Leroy", Service: "Brushing", Status: model.AppointmentConfirmed},
				},
			},
		},
	}
}

func TestAddDayLayout(t *testing.T) {
	w := NewDaySheetWriter()
	defer w.Close()

	require.NoError(t, w.AddDay(fixtureView()))

	f := w.File()
	sheet := "2025-07-10"
	require.Contains(t, f.GetSheetList(), sheet)

	cell := func(ref string) string {
		v, err := f.GetCellValue(sheet, ref)
		require.NoError(t, err)
		return v
	}

	// First group: title, header, two appointments, waiting row.
	assert.Equal(t, "Camille", cell("A1"))
	assert.Equal(t, "Heure", cell("A2"))
	assert.Equal(t, "Téléphone", cell("E2"))
	assert.Equal(t, "10:00", cell("A3"))
	assert.Equal(t, "Mme Durand", cell("B3"))
	assert.Equal(t, "Confirmé", cell("D3"))
	assert.Equal(t, "0600000001", cell("E3"))
	assert.Equal(t, "11:30", cell("A4"))
	assert.Equal(t, "Option", cell("D4"))
	assert.Equal(t, "En attente : 2", cell("A5"))

	// Blank line, then the unassigned group.
	assert.Equal(t, "", cell("A6"))
	assert.Equal(t, model.UnassignedDisplayName, cell("A7"))
	assert.Equal(t, "09:00", cell("A9"))
	assert.Equal(t, "Mme Leroy", cell("B9"))
}

func TestAddDayEmptyState(t *testing.T) {
	w := NewDaySheetWriter()
	defer w.Close()

	view := agenda.DayView{Date: time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC), SalonWide: true}
	require.NoError(t, w.AddDay(view))

	v, err := w.File().GetCellValue("2025-07-13", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Aucun rendez-vous", v)
}

func TestAddMultipleDays(t *testing.T) {
	w := NewDaySheetWriter()
	defer w.Close()

	first := fixtureView()
	second := fixtureView()
	second.Date = first.Date.AddDate(0, 0, 1)

	require.NoError(t, w.AddDay(first))
	require.NoError(t, w.AddDay(second))

	sheets := w.File().GetSheetList()
	assert.Contains(t, sheets, "2025-07-10")
	assert.Contains(t, sheets, "2025-07-11")

	v, err := w.File().GetCellValue("2025-07-11", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Camille", v)
}

func TestSaveProducesWorkbook(t *testing.T) {
	w := NewDaySheetWriter()
	defer w.Close()
	require.NoError(t, w.AddDay(fixtureView()))

	var buf bytes.Buffer
	require.NoError(t, w.Save(&buf))
	// xlsx files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, buf.Bytes()[:2])
}

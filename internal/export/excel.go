package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/agenda"
	"github.com/AdrienClement38/hair-salon-website-sub001/internal/model"
)

var daySheetColumns = []string{"Heure", "Client", "Prestation", "Statut", "Téléphone"}

// DaySheetWriter renders a DayView as an Excel workbook, one sheet per day.
type DaySheetWriter struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

// NewDaySheetWriter creates an empty workbook.
func NewDaySheetWriter() *DaySheetWriter {
	return &DaySheetWriter{file: excelize.NewFile()}
}

// AddDay writes one day view as a sheet: a section per worker group with its
// appointments and waiting count.
func (w *DaySheetWriter) AddDay(view agenda.DayView) error {
	if err := w.addSheet(view.Date.Format(model.DateFormat)); err != nil {
		return err
	}

	if view.Empty() {
		return w.writeRow([]interface{}{"Aucun rendez-vous"})
	}

	for _, group := range view.Groups {
		if err := w.writeGroupTitle(group); err != nil {
			return err
		}
		if err := w.writeHeader(daySheetColumns); err != nil {
			return err
		}
		for _, a := range group.Appointments {
			row := []interface{}{a.Time, a.ClientName, a.Service, statusLabel(a.Status), a.Phone}
			if err := w.writeRow(row); err != nil {
				return err
			}
		}
		if group.WaitingCount > 0 {
			if err := w.writeRow([]interface{}{fmt.Sprintf("En attente : %d", group.WaitingCount)}); err != nil {
				return err
			}
		}
		w.currentRow++ // blank line between groups
	}
	return nil
}

func (w *DaySheetWriter) addSheet(name string) error {
	// Excel limits sheet names to 31 chars.
	if len(name) > 31 {
		name = name[:31]
	}

	if w.currentSheet == "" {
		w.file.SetSheetName("Sheet1", name)
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	w.currentSheet = name
	w.currentRow = 1
	return nil
}

func (w *DaySheetWriter) writeGroupTitle(group agenda.WorkerGroup) error {
	cell, err := excelize.CoordinatesToCellName(1, w.currentRow)
	if err != nil {
		return err
	}
	if err := w.file.SetCellValue(w.currentSheet, cell, group.DisplayName); err != nil {
		return err
	}

	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err == nil {
		_ = w.file.SetCellStyle(w.currentSheet, cell, cell, style)
	}

	w.currentRow++
	return nil
}

func (w *DaySheetWriter) writeHeader(columns []string) error {
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, col); err != nil {
			return err
		}
	}

	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, w.currentRow)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), w.currentRow)
		_ = w.file.SetCellStyle(w.currentSheet, startCell, endCell, style)
	}

	w.currentRow++
	return nil
}

func (w *DaySheetWriter) writeRow(row []interface{}) error {
	for i, val := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, val); err != nil {
			return err
		}
	}
	w.currentRow++
	return nil
}

// Save writes the workbook to wr.
func (w *DaySheetWriter) Save(wr io.Writer) error {
	return w.file.Write(wr)
}

// Close releases resources.
func (w *DaySheetWriter) Close() error {
	return w.file.Close()
}

// File exposes the underlying workbook for inspection.
func (w *DaySheetWriter) File() *excelize.File {
	return w.file
}

func statusLabel(s model.AppointmentStatus) string {
	switch s {
	case model.AppointmentHold:
		return "Option"
	default:
		return "Confirmé"
	}
}

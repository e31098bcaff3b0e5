package api

import (
	"fmt"
	"net/http"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/agenda"
	"github.com/AdrienClement38/hair-salon-website-sub001/internal/export"
	"github.com/AdrienClement38/hair-salon-website-sub001/internal/metrics"
	"github.com/AdrienClement38/hair-salon-website-sub001/internal/model"
)

// handleDayExport streams one day's agenda as an Excel workbook. The view is
// built straight from the store so the export never disturbs the open detail
// view or its refresh timer.
// GET /api/agenda/day/export?date=YYYY-MM-DD[&worker_id=N]
func (s *Server) handleDayExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("agenda_day_export")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	day, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vctx, err := parseViewContext(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	appointments, err := s.db.GetAppointmentsByDate(ctx, day)
	if err != nil {
		s.logger.Error().Err(err).Msg("export: fetch appointments failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if vctx.IsWorkerScoped() {
		filtered := appointments[:0]
		for _, a := range appointments {
			if a.WorkerID == vctx.WorkerID {
				filtered = append(filtered, a)
			}
		}
		appointments = filtered
	}
	counts, err := s.db.GetWaitlistCounts(ctx, day)
	if err != nil {
		s.logger.Error().Err(err).Msg("export: fetch waitlist counts failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	workers, err := s.db.GetWorkers(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("export: fetch workers failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	view := agenda.Aggregate(day, appointments, counts, workers, vctx)

	writer := export.NewDaySheetWriter()
	defer writer.Close()
	if err := writer.AddDay(view); err != nil {
		s.logger.Error().Err(err).Msg("export: build day sheet failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	filename := fmt.Sprintf("agenda-%s.xlsx", day.Format(model.DateFormat))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := writer.Save(w); err != nil {
		s.logger.Error().Err(err).Msg("export: write workbook failed")
	}
}

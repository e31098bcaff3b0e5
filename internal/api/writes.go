package api

import (
	"encoding/json"
	"net/http"

	"github.com/AdrienClement38/hair-salon-website-sub001/internal/metrics"
	"github.com/AdrienClement38/hair-salon-website-sub001/internal/model"
)

// Write endpoints mutate the collaborator store only. The engine picks the
// change up on its next grid refresh; the handlers never patch the in-memory
// snapshot themselves.

// LeaveRequest is the request body for POST /api/leaves.
type LeaveRequest struct {
	Scope     string `json:"scope"` // "global" or "worker"
	WorkerID  int64  `json:"worker_id,omitempty"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	Note      string `json:"note,omitempty"`
}

// handleLeaves creates (POST) or deletes (DELETE ?id=) a closure.
func (s *Server) handleLeaves(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("leaves")

	switch r.Method {
	case http.MethodPost:
		var req LeaveRequest
		if !decodeBody(w, r, &req) {
			return
		}
		start, err := parseDate(req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date; expected YYYY-MM-DD")
			return
		}
		end, err := parseDate(req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_date; expected YYYY-MM-DD")
			return
		}

		leave, err := s.db.CreateLeave(r.Context(), model.LeaveRange{
			Scope:     model.LeaveScope(req.Scope),
			WorkerID:  req.WorkerID,
			StartDate: start,
			EndDate:   end,
			Note:      req.Note,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, leave)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "id is required")
			return
		}
		if err := s.db.DeleteLeave(r.Context(), id); err != nil {
			s.logger.Error().Err(err).Str("id", id).Msg("delete leave failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST or DELETE")
	}
}

// AppointmentRequest is the request body for POST /api/appointments.
type AppointmentRequest struct {
	Date       string `json:"date"` // YYYY-MM-DD
	Time       string `json:"time"` // HH:MM
	WorkerID   int64  `json:"worker_id,omitempty"`
	Status     string `json:"status,omitempty"` // "confirmed" (default) or "hold"
	ClientName string `json:"client_name"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Service    string `json:"service"`
}

// handleAppointments creates (POST) or deletes (DELETE ?id=) a booking.
func (s *Server) handleAppointments(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("appointments")

	switch r.Method {
	case http.MethodPost:
		var req AppointmentRequest
		if !decodeBody(w, r, &req) {
			return
		}
		day, err := parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date; expected YYYY-MM-DD")
			return
		}
		if req.ClientName == "" || req.Service == "" {
			writeError(w, http.StatusBadRequest, "client_name and service are required")
			return
		}

		appt, err := s.db.CreateAppointment(r.Context(), model.Appointment{
			Date:       day,
			Time:       req.Time,
			WorkerID:   req.WorkerID,
			Status:     model.AppointmentStatus(req.Status),
			ClientName: req.ClientName,
			Phone:      req.Phone,
			Email:      req.Email,
			Service:    req.Service,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, appt)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "id is required")
			return
		}
		if err := s.db.DeleteAppointment(r.Context(), id); err != nil {
			s.logger.Error().Err(err).Str("id", id).Msg("delete appointment failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST or DELETE")
	}
}

// WaitlistRequestBody is the request body for POST /api/waitlist.
type WaitlistRequestBody struct {
	Date       string `json:"date"` // YYYY-MM-DD
	WorkerID   int64  `json:"worker_id,omitempty"`
	ClientName string `json:"client_name"`
	Phone      string `json:"phone,omitempty"`
	Service    string `json:"service,omitempty"`
}

// handleWaitlist creates (POST) or deletes (DELETE ?id=) a waiting client.
func (s *Server) handleWaitlist(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("waitlist")

	switch r.Method {
	case http.MethodPost:
		var req WaitlistRequestBody
		if !decodeBody(w, r, &req) {
			return
		}
		day, err := parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date; expected YYYY-MM-DD")
			return
		}
		if req.ClientName == "" {
			writeError(w, http.StatusBadRequest, "client_name is required")
			return
		}

		entry, err := s.db.CreateWaitlistRequest(r.Context(), model.WaitlistRequest{
			Date:       day,
			WorkerID:   req.WorkerID,
			ClientName: req.ClientName,
			Phone:      req.Phone,
			Service:    req.Service,
		})
		if err != nil {
			s.logger.Error().Err(err).Msg("create waitlist request failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, entry)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "id is required")
			return
		}
		if err := s.db.DeleteWaitlistRequest(r.Context(), id); err != nil {
			s.logger.Error().Err(err).Str("id", id).Msg("delete waitlist request failed")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST or DELETE")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

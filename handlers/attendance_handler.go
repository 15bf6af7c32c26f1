package handlers

import (
	"errors"
	"net/http"

	"github.com/harjotgill/sports-office/middleware"
	"github.com/harjotgill/sports-office/services"
)

type AttendanceHandler struct {
	attendanceService services.AttendanceService
}

func NewAttendanceHandler(attendanceService services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	markerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.MarkAttendanceInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	records, err := h.attendanceService.Mark(r.Context(), markerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"records": records}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AttendanceHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	sport := r.URL.Query().Get("sport")
	if sport == "" {
		badRequestResponse(w, r, errors.New("sport query parameter is required"))
		return
	}

	records, err := h.attendanceService.GetByDate(r.Context(), sport, queryInt(r, "session_id"), r.URL.Query().Get("date"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"records": records}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AttendanceHandler) GetByStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	attendance, err := h.attendanceService.GetByStudent(r.Context(), studentID, queryInt(r, "session_id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"attendance": attendance}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

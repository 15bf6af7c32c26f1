package handlers

import (
	"errors"
	"net/http"

	"github.com/harjotgill/sports-office/middleware"
	"github.com/harjotgill/sports-office/services"
)

type GymSwimmingHandler struct {
	gymService     services.GymSwimmingService
	sessionService services.SessionService
}

func NewGymSwimmingHandler(gymService services.GymSwimmingService, sessionService services.SessionService) *GymSwimmingHandler {
	return &GymSwimmingHandler{
		gymService:     gymService,
		sessionService: sessionService,
	}
}

func (h *GymSwimmingHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.GymSwimmingInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	student, err := h.gymService.Enroll(r.Context(), adminID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"student": student}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GymSwimmingHandler) List(w http.ResponseWriter, r *http.Request) {
	sport := r.URL.Query().Get("sport")
	if sport == "" {
		badRequestResponse(w, r, errors.New("sport query parameter is required"))
		return
	}

	session, err := h.sessionService.Resolve(r.Context(), queryInt(r, "session_id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	students, err := h.gymService.ListBySport(r.Context(), sport, session.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"students": students}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GymSwimmingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	student, err := h.gymService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"student": student}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GymSwimmingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GymSwimmingInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	student, err := h.gymService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"student": student}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GymSwimmingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.gymService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "student removed"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

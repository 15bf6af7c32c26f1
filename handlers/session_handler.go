package handlers

import (
	"net/http"

	"github.com/harjotgill/sports-office/middleware"
	"github.com/harjotgill/sports-office/models"
	"github.com/harjotgill/sports-office/services"
)

type SessionHandler struct {
	sessionService  services.SessionService
	activityService services.ActivityService
}

func NewSessionHandler(sessionService services.SessionService, activityService services.ActivityService) *SessionHandler {
	return &SessionHandler{
		sessionService:  sessionService,
		activityService: activityService,
	}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateSessionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.sessionService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if adminID, idErr := middleware.GetUserIDFromContext(r.Context()); idErr == nil {
		h.activityService.Log(r.Context(), adminID, models.ActionSessionCreated, "Session", &session.ID,
			"Created session "+session.Label)
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessionService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"sessions": sessions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SessionHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.GetActive(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SessionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.sessionService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SessionHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.sessionService.SetActive(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if adminID, idErr := middleware.GetUserIDFromContext(r.Context()); idErr == nil {
		h.activityService.Log(r.Context(), adminID, models.ActionSessionActivated, "Session", &session.ID,
			"Activated session "+session.Label)
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.sessionService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if adminID, idErr := middleware.GetUserIDFromContext(r.Context()); idErr == nil {
		h.activityService.Log(r.Context(), adminID, models.ActionSessionDeleted, "Session", &id, "Deleted session")
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "session deleted"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

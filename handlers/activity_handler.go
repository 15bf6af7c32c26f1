package handlers

import (
	"net/http"

	"github.com/harjotgill/sports-office/middleware"
	"github.com/harjotgill/sports-office/services"
)

type ActivityHandler struct {
	activityService services.ActivityService
}

func NewActivityHandler(activityService services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.RecordActivityInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	activity, err := h.activityService.Record(r.Context(), adminID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"activity": activity}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ActivityHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activityService.ListRecent(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"activities": activities}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	activity, err := h.activityService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"activity": activity}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

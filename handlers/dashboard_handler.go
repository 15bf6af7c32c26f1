package handlers

import (
	"net/http"

	"github.com/harjotgill/sports-office/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
	sessionService   services.SessionService
}

func NewDashboardHandler(dashboardService services.DashboardService, sessionService services.SessionService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		sessionService:   sessionService,
	}
}

func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.Resolve(r.Context(), queryInt(r, "session_id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	stats, err := h.dashboardService.GetStats(r.Context(), session.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

package handlers

import (
	"net/http"

	"github.com/harjotgill/sports-office/middleware"
	"github.com/harjotgill/sports-office/models"
	"github.com/harjotgill/sports-office/services"
)

type CaptainHandler struct {
	teamService        services.TeamService
	certificateService services.CertificateService
	sessionService     services.SessionService
}

func NewCaptainHandler(
	teamService services.TeamService,
	certificateService services.CertificateService,
	sessionService services.SessionService,
) *CaptainHandler {
	return &CaptainHandler{
		teamService:        teamService,
		certificateService: certificateService,
		sessionService:     sessionService,
	}
}

func (h *CaptainHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.resolve(w, r)
	if !ok {
		return
	}

	captain, err := h.teamService.GetMyCaptain(r.Context(), userID, sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"captain":          captain,
		"profile_complete": captain.Phone != "",
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CaptainHandler) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var input struct {
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	captain, err := h.teamService.CompleteCaptainProfile(r.Context(), userID, sessionID, input.Email, input.Phone)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"captain": captain}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CaptainHandler) SubmitTeam(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var input struct {
		Members []models.TeamMember `json:"members"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.SubmitTeam(r.Context(), userID, sessionID, input.Members)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CaptainHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var input models.TeamMember
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.AddMember(r.Context(), userID, sessionID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CaptainHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.resolve(w, r)
	if !ok {
		return
	}

	team, err := h.teamService.GetMyTeam(r.Context(), userID, sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CaptainHandler) GetCertificates(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.resolve(w, r)
	if !ok {
		return
	}

	certificates, err := h.certificateService.MyTeamCertificates(r.Context(), userID, sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"certificates": certificates}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CaptainHandler) resolve(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return 0, 0, false
	}

	session, err := h.sessionService.Resolve(r.Context(), queryInt(r, "session_id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return 0, 0, false
	}
	return userID, session.ID, true
}

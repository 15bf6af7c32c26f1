package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/harjotgill/sports-office/middleware"
	"github.com/harjotgill/sports-office/models"
	"github.com/harjotgill/sports-office/repositories"
	"github.com/harjotgill/sports-office/services"
)

type AdminHandler struct {
	adminService       services.AdminService
	teamService        services.TeamService
	certificateService services.CertificateService
	sessionService     services.SessionService
}

func NewAdminHandler(
	adminService services.AdminService,
	teamService services.TeamService,
	certificateService services.CertificateService,
	sessionService services.SessionService,
) *AdminHandler {
	return &AdminHandler{
		adminService:       adminService,
		teamService:        teamService,
		certificateService: certificateService,
		sessionService:     sessionService,
	}
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.adminID(w, r)
	if !ok {
		return
	}

	var input services.CreateUserInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.adminService.CreateUser(r.Context(), adminID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListPendingProfiles(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	pending, err := h.adminService.ListPendingProfiles(r.Context(), session)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"pending": pending}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ApproveProfile(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.adminService.ApproveProfile)
}

func (h *AdminHandler) RejectProfile(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.adminService.RejectProfile)
}

func (h *AdminHandler) AssignStudentPosition(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.adminID(w, r)
	if !ok {
		return
	}
	profileID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Sport    string `json:"sport"`
		Position string `json:"position"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Sport == "" {
		badRequestResponse(w, r, errors.New("sport is required"))
		return
	}

	profile, err := h.adminService.AssignStudentPosition(r.Context(), adminID, profileID, input.Sport, input.Position)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	filter := repositories.ProfileFilter{
		Sport:  r.URL.Query().Get("sport"),
		Branch: r.URL.Query().Get("branch"),
		Year:   queryInt(r, "year"),
	}

	students, err := h.adminService.ListStudents(r.Context(), session, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"students": students}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	profileID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.adminService.GetStudent(r.Context(), profileID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.adminID(w, r)
	if !ok {
		return
	}
	profileID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ProfileInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.adminService.UpdateStudent(r.Context(), adminID, profileID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.adminID(w, r)
	if !ok {
		return
	}
	profileID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.DeleteStudent(r.Context(), adminID, profileID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "student deleted"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) StudentHistory(w http.ResponseWriter, r *http.Request) {
	urn := chi.URLParam(r, "urn")
	if urn == "" {
		badRequestResponse(w, r, errors.New("urn is required"))
		return
	}

	history, err := h.adminService.StudentHistory(r.Context(), urn)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"history": history}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListCaptains(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	captains, err := h.adminService.ListCaptains(r.Context(), session)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"captains": captains}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) UpdateCaptain(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.adminID(w, r)
	if !ok {
		return
	}
	captainID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CaptainInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	captain, err := h.adminService.UpdateCaptain(r.Context(), adminID, captainID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"captain": captain}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) DeleteCaptain(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.adminID(w, r)
	if !ok {
		return
	}
	captainID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.DeleteCaptain(r.Context(), adminID, captainID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "captain deleted"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	pendingOnly := r.URL.Query().Get("status") == "pending"
	teams, err := h.teamService.ListTeams(r.Context(), session, pendingOnly)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ApproveTeam(w http.ResponseWriter, r *http.Request) {
	h.teamDecision(w, r, h.teamService.ApproveTeam)
}

func (h *AdminHandler) RejectTeam(w http.ResponseWriter, r *http.Request) {
	h.teamDecision(w, r, h.teamService.RejectTeam)
}

func (h *AdminHandler) AssignTeamPosition(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.adminID(w, r)
	if !ok {
		return
	}
	teamID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Position string `json:"position"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.AssignTeamPosition(r.Context(), adminID, teamID, input.Position)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) UpdateTeamMember(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.adminID(w, r)
	if !ok {
		return
	}
	teamID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	index, err := idParamAllowZero(r, "index")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input models.TeamMember
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.UpdateMember(r.Context(), adminID, teamID, index, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.adminID(w, r)
	if !ok {
		return
	}
	teamID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	index, err := idParamAllowZero(r, "index")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.RemoveMember(r.Context(), adminID, teamID, index)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListEligibleCertificates(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	captains, err := h.certificateService.ListEligible(r.Context(), session)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"eligible": captains}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) SendCertificates(w http.ResponseWriter, r *http.Request) {
	adminID, ok := h.adminID(w, r)
	if !ok {
		return
	}
	captainID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	captain, err := h.certificateService.MarkSent(r.Context(), adminID, captainID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"captain": captain}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// review handles both approve and reject; the category comes from the
// `type` query parameter (personal or sports).
func (h *AdminHandler) review(w http.ResponseWriter, r *http.Request, decide func(ctx context.Context, adminID, profileID int, reviewType string) (*models.StudentProfile, error)) {
	adminID, ok := h.adminID(w, r)
	if !ok {
		return
	}
	profileID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reviewType := r.URL.Query().Get("type")
	profile, err := decide(r.Context(), adminID, profileID, reviewType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) teamDecision(w http.ResponseWriter, r *http.Request, decide func(ctx context.Context, adminID, teamID int) (*models.Team, error)) {
	adminID, ok := h.adminID(w, r)
	if !ok {
		return
	}
	teamID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := decide(r.Context(), adminID, teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) adminID(w http.ResponseWriter, r *http.Request) (int, bool) {
	adminID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return 0, false
	}
	return adminID, true
}

// session resolves the target session id from the query, defaulting to
// the active session.
func (h *AdminHandler) session(w http.ResponseWriter, r *http.Request) (int, bool) {
	session, err := h.sessionService.Resolve(r.Context(), queryInt(r, "session_id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return 0, false
	}
	return session.ID, true
}

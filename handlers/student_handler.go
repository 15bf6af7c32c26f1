package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/harjotgill/sports-office/middleware"
	"github.com/harjotgill/sports-office/models"
	"github.com/harjotgill/sports-office/services"
)

type StudentHandler struct {
	profileService services.ProfileService
	sessionService services.SessionService
}

func NewStudentHandler(profileService services.ProfileService, sessionService services.SessionService) *StudentHandler {
	return &StudentHandler{
		profileService: profileService,
		sessionService: sessionService,
	}
}

// maxUploadSize caps photo and signature uploads at 5MB.
const maxUploadSize = 5 << 20

func (h *StudentHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, session, ok := h.resolve(w, r)
	if !ok {
		return
	}

	profile, err := h.profileService.GetOrClone(r.Context(), userID, session.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StudentHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, session, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var input services.ProfileInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.profileService.Update(r.Context(), userID, session.ID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StudentHandler) SubmitProfile(w http.ResponseWriter, r *http.Request) {
	userID, session, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var input services.ProfileInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.profileService.Submit(r.Context(), userID, session.ID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadPhoto accepts multipart form uploads under the "file" field;
// the {kind} URL parameter selects photo or signature.
func (h *StudentHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, session, ok := h.resolve(w, r)
	if !ok {
		return
	}

	kind := chi.URLParam(r, "kind")
	if kind != services.PhotoKindProfile && kind != services.PhotoKindSignature {
		badRequestResponse(w, r, errors.New("upload kind must be photo or signature"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing or invalid file upload"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	profile, err := h.profileService.UploadPhoto(r.Context(), userID, session.ID, kind, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StudentHandler) MarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID, session, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var input struct {
		Indexes []int `json:"indexes"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.profileService.MarkNotificationsRead(r.Context(), userID, session.ID, input.Indexes)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"notifications": profile.Notifications}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StudentHandler) MySessions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	activeSessionID := 0
	if active, err := h.sessionService.GetActive(r.Context()); err == nil {
		activeSessionID = active.ID
	}

	profiles, err := h.profileService.MySessions(r.Context(), userID, activeSessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profiles": profiles}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// resolve pulls the authenticated user and the target session (explicit
// session_id query param, else the active session).
func (h *StudentHandler) resolve(w http.ResponseWriter, r *http.Request) (int, *models.Session, bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return 0, nil, false
	}

	session, err := h.sessionService.Resolve(r.Context(), queryInt(r, "session_id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return 0, nil, false
	}

	return userID, session, true
}

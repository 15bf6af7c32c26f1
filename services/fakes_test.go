package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/harjotgill/sports-office/models"
	"github.com/harjotgill/sports-office/repositories"
	"github.com/harjotgill/sports-office/storage"
)

// In-memory repository fakes. Getters return copies so a test only sees
// a mutation after the service persisted it through Update.

type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByCaptainCode(_ context.Context, code string) (*models.User, error) {
	for _, u := range r.users {
		if u.CaptainCode != nil && *u.CaptainCode == code {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role models.UserRole) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if u.HasRole(role) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context, role models.UserRole) (int, error) {
	n := 0
	for _, u := range r.users {
		if u.HasRole(role) {
			n++
		}
	}
	return n, nil
}

type fakeSessionRepo struct {
	sessions map[int]*models.Session
	nextID   int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[int]*models.Session), nextID: 1}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *models.Session) error {
	for _, s := range r.sessions {
		if s.Label == session.Label {
			return repositories.ErrSessionLabelConflict
		}
	}
	session.ID = r.nextID
	r.nextID++
	session.CreatedAt = time.Now()
	clone := *session
	r.sessions[session.ID] = &clone
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id int) (*models.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, repositories.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *fakeSessionRepo) GetActive(_ context.Context) (*models.Session, error) {
	for _, s := range r.sessions {
		if s.IsActive {
			clone := *s
			return &clone, nil
		}
	}
	return nil, repositories.ErrNoActiveSession
}

func (r *fakeSessionRepo) List(_ context.Context) ([]models.Session, error) {
	out := make([]models.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSessionRepo) SetActive(_ context.Context, id int) error {
	if _, ok := r.sessions[id]; !ok {
		return repositories.ErrSessionNotFound
	}
	for _, s := range r.sessions {
		s.IsActive = s.ID == id
	}
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.sessions[id]; !ok {
		return repositories.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

type fakeProfileRepo struct {
	profiles map[int]*models.StudentProfile
	nextID   int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[int]*models.StudentProfile), nextID: 1}
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *models.StudentProfile) error {
	for _, p := range r.profiles {
		if p.UserID == profile.UserID && p.SessionID == profile.SessionID {
			return repositories.ErrProfileExists
		}
	}
	profile.ID = r.nextID
	r.nextID++
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt
	clone := *profile
	r.profiles[profile.ID] = &clone
	return nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id int) (*models.StudentProfile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProfileRepo) GetByUserAndSession(_ context.Context, userID, sessionID int) (*models.StudentProfile, error) {
	for _, p := range r.profiles {
		if p.UserID == userID && p.SessionID == sessionID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

// GetLatestByUserBefore treats higher session ids as newer, which is
// how the tests create their sessions.
func (r *fakeProfileRepo) GetLatestByUserBefore(_ context.Context, userID, excludeSessionID int) (*models.StudentProfile, error) {
	var latest *models.StudentProfile
	for _, p := range r.profiles {
		if p.UserID != userID || p.SessionID == excludeSessionID {
			continue
		}
		if latest == nil || p.SessionID > latest.SessionID {
			latest = p
		}
	}
	if latest == nil {
		return nil, repositories.ErrProfileNotFound
	}
	clone := *latest
	return &clone, nil
}

func (r *fakeProfileRepo) ListByUser(_ context.Context, userID int) ([]models.StudentProfile, error) {
	var out []models.StudentProfile
	for _, p := range r.profiles {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID > out[j].SessionID })
	return out, nil
}

func (r *fakeProfileRepo) ListByURN(_ context.Context, urn string) ([]models.StudentProfile, error) {
	var out []models.StudentProfile
	for _, p := range r.profiles {
		if p.URN == urn {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) ListBySession(_ context.Context, sessionID int, filter repositories.ProfileFilter) ([]models.StudentProfile, error) {
	var out []models.StudentProfile
	for _, p := range r.profiles {
		if p.SessionID != sessionID {
			continue
		}
		if filter.Branch != "" && p.Branch != filter.Branch {
			continue
		}
		if filter.Year != 0 && (p.Year == nil || *p.Year != filter.Year) {
			continue
		}
		if filter.Sport != "" {
			declared := false
			for _, sport := range p.Sports {
				if sport == filter.Sport {
					declared = true
					break
				}
			}
			if !declared {
				continue
			}
		}
		if filter.PendingOnly &&
			p.Status.Personal != models.StatusPending && p.Status.Sports != models.StatusPending {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *models.StudentProfile) error {
	if _, ok := r.profiles[profile.ID]; !ok {
		return repositories.ErrProfileNotFound
	}
	profile.UpdatedAt = time.Now()
	clone := *profile
	r.profiles[profile.ID] = &clone
	return nil
}

func (r *fakeProfileRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.profiles[id]; !ok {
		return repositories.ErrProfileNotFound
	}
	delete(r.profiles, id)
	return nil
}

func (r *fakeProfileRepo) CountBySession(_ context.Context, sessionID int) (int, error) {
	n := 0
	for _, p := range r.profiles {
		if p.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (r *fakeProfileRepo) CountPendingBySession(_ context.Context, sessionID int) (int, error) {
	n := 0
	for _, p := range r.profiles {
		if p.SessionID == sessionID &&
			(p.Status.Personal == models.StatusPending || p.Status.Sports == models.StatusPending) {
			n++
		}
	}
	return n, nil
}

type fakeCaptainRepo struct {
	captains map[int]*models.Captain
	nextID   int
}

func newFakeCaptainRepo() *fakeCaptainRepo {
	return &fakeCaptainRepo{captains: make(map[int]*models.Captain), nextID: 1}
}

func (r *fakeCaptainRepo) Create(_ context.Context, captain *models.Captain) error {
	for _, c := range r.captains {
		if c.CaptainCode == captain.CaptainCode && c.SessionID == captain.SessionID {
			return repositories.ErrCaptainCodeConflict
		}
	}
	captain.ID = r.nextID
	r.nextID++
	captain.CreatedAt = time.Now()
	clone := *captain
	r.captains[captain.ID] = &clone
	return nil
}

func (r *fakeCaptainRepo) GetByID(_ context.Context, id int) (*models.Captain, error) {
	c, ok := r.captains[id]
	if !ok {
		return nil, repositories.ErrCaptainNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCaptainRepo) GetByCode(_ context.Context, code string, sessionID int) (*models.Captain, error) {
	for _, c := range r.captains {
		if c.CaptainCode == code && c.SessionID == sessionID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, repositories.ErrCaptainNotFound
}

func (r *fakeCaptainRepo) GetByUserAndSession(_ context.Context, userID, sessionID int) (*models.Captain, error) {
	for _, c := range r.captains {
		if c.UserID == userID && c.SessionID == sessionID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, repositories.ErrCaptainNotFound
}

func (r *fakeCaptainRepo) ListBySession(_ context.Context, sessionID int) ([]models.Captain, error) {
	var out []models.Captain
	for _, c := range r.captains {
		if c.SessionID == sessionID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCaptainRepo) ListByUser(_ context.Context, userID int) ([]models.Captain, error) {
	var out []models.Captain
	for _, c := range r.captains {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCaptainRepo) ListByURN(_ context.Context, urn string) ([]models.Captain, error) {
	var out []models.Captain
	for _, c := range r.captains {
		if c.URN == urn {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCaptainRepo) Update(_ context.Context, captain *models.Captain) error {
	if _, ok := r.captains[captain.ID]; !ok {
		return repositories.ErrCaptainNotFound
	}
	clone := *captain
	r.captains[captain.ID] = &clone
	return nil
}

func (r *fakeCaptainRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.captains[id]; !ok {
		return repositories.ErrCaptainNotFound
	}
	delete(r.captains, id)
	return nil
}

func (r *fakeCaptainRepo) CountBySession(_ context.Context, sessionID int) (int, error) {
	out, _ := r.ListBySession(context.Background(), sessionID)
	return len(out), nil
}

type fakeTeamRepo struct {
	teams  map[int]*models.Team
	nextID int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team), nextID: 1}
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	for _, t := range r.teams {
		if t.CaptainCode == team.CaptainCode && t.SessionID == team.SessionID {
			return repositories.ErrTeamExists
		}
	}
	team.ID = r.nextID
	r.nextID++
	team.CreatedAt = time.Now()
	team.UpdatedAt = team.CreatedAt
	clone := *team
	r.teams[team.ID] = &clone
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTeamRepo) GetByCaptainCode(_ context.Context, code string, sessionID int) (*models.Team, error) {
	for _, t := range r.teams {
		if t.CaptainCode == code && t.SessionID == sessionID {
			clone := *t
			return &clone, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) ListBySession(_ context.Context, sessionID int) ([]models.Team, error) {
	var out []models.Team
	for _, t := range r.teams {
		if t.SessionID == sessionID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) ListPendingBySession(_ context.Context, sessionID int) ([]models.Team, error) {
	var out []models.Team
	for _, t := range r.teams {
		if t.SessionID == sessionID && t.Status == models.TeamPending {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) ListByMemberURN(_ context.Context, urn string) ([]models.Team, error) {
	var out []models.Team
	for _, t := range r.teams {
		for _, m := range t.Members {
			if m.URN == urn {
				out = append(out, *t)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) DeleteByCaptainCode(_ context.Context, code string, sessionID int) error {
	for id, t := range r.teams {
		if t.CaptainCode == code && t.SessionID == sessionID {
			delete(r.teams, id)
		}
	}
	return nil
}

func (r *fakeTeamRepo) Update(_ context.Context, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	team.UpdatedAt = time.Now()
	clone := *team
	r.teams[team.ID] = &clone
	return nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

func (r *fakeTeamRepo) CountBySession(_ context.Context, sessionID int) (int, error) {
	out, _ := r.ListBySession(context.Background(), sessionID)
	return len(out), nil
}

type fakeCertificateRepo struct {
	certs  map[int]*models.Certificate
	nextID int
}

func newFakeCertificateRepo() *fakeCertificateRepo {
	return &fakeCertificateRepo{certs: make(map[int]*models.Certificate), nextID: 1}
}

func (r *fakeCertificateRepo) Create(_ context.Context, cert *models.Certificate) error {
	for _, c := range r.certs {
		if c.RecipientType == cert.RecipientType && c.CaptainID == cert.CaptainID &&
			c.SessionID == cert.SessionID && c.Sport == cert.Sport &&
			sameMember(c.MemberInfo, cert.MemberInfo) {
			return repositories.ErrCertificateExists
		}
	}
	cert.ID = r.nextID
	r.nextID++
	cert.IssuedAt = time.Now()
	clone := *cert
	r.certs[cert.ID] = &clone
	return nil
}

func sameMember(a, b *models.CertificateMember) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name && a.URN == b.URN
}

func (r *fakeCertificateRepo) GetByID(_ context.Context, id int) (*models.Certificate, error) {
	c, ok := r.certs[id]
	if !ok {
		return nil, repositories.ErrCertificateNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCertificateRepo) ListByCaptainAndSession(_ context.Context, captainID, sessionID int) ([]models.Certificate, error) {
	var out []models.Certificate
	for _, c := range r.certs {
		if c.CaptainID == captainID && c.SessionID == sessionID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCertificateRepo) ListBySession(_ context.Context, sessionID int) ([]models.Certificate, error) {
	var out []models.Certificate
	for _, c := range r.certs {
		if c.SessionID == sessionID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCertificateRepo) UpdateStatus(_ context.Context, id int, status models.CertificateStatus) error {
	c, ok := r.certs[id]
	if !ok {
		return repositories.ErrCertificateNotFound
	}
	c.Status = status
	return nil
}

func (r *fakeCertificateRepo) CountBySession(_ context.Context, sessionID int) (int, error) {
	out, _ := r.ListBySession(context.Background(), sessionID)
	return len(out), nil
}

type fakeGymRepo struct {
	students map[int]*models.GymSwimmingStudent
	nextID   int
}

func newFakeGymRepo() *fakeGymRepo {
	return &fakeGymRepo{students: make(map[int]*models.GymSwimmingStudent), nextID: 1}
}

func (r *fakeGymRepo) Create(_ context.Context, student *models.GymSwimmingStudent) error {
	for _, s := range r.students {
		if s.URN == student.URN && s.Sport == student.Sport {
			return repositories.ErrGymSwimmingURNConflict
		}
	}
	student.ID = r.nextID
	r.nextID++
	student.CreatedAt = time.Now()
	clone := *student
	r.students[student.ID] = &clone
	return nil
}

func (r *fakeGymRepo) GetByID(_ context.Context, id int) (*models.GymSwimmingStudent, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, repositories.ErrGymSwimmingNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *fakeGymRepo) GetByURNAndSport(_ context.Context, urn, sport string) (*models.GymSwimmingStudent, error) {
	for _, s := range r.students {
		if s.URN == urn && s.Sport == sport {
			clone := *s
			return &clone, nil
		}
	}
	return nil, repositories.ErrGymSwimmingNotFound
}

func (r *fakeGymRepo) ListBySport(_ context.Context, sport string, sessionID int) ([]models.GymSwimmingStudent, error) {
	var out []models.GymSwimmingStudent
	for _, s := range r.students {
		if s.Sport == sport && s.SessionID == sessionID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGymRepo) Update(_ context.Context, student *models.GymSwimmingStudent) error {
	if _, ok := r.students[student.ID]; !ok {
		return repositories.ErrGymSwimmingNotFound
	}
	clone := *student
	r.students[student.ID] = &clone
	return nil
}

func (r *fakeGymRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.students[id]; !ok {
		return repositories.ErrGymSwimmingNotFound
	}
	delete(r.students, id)
	return nil
}

type fakeAttendanceRepo struct {
	records map[int]*models.AttendanceRecord
	nextID  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[int]*models.AttendanceRecord), nextID: 1}
}

func (r *fakeAttendanceRepo) Upsert(_ context.Context, record *models.AttendanceRecord) error {
	for _, existing := range r.records {
		if existing.StudentID == record.StudentID && existing.SessionID == record.SessionID &&
			existing.AttendedOn.Equal(record.AttendedOn) {
			existing.Status = record.Status
			existing.MarkedBy = record.MarkedBy
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
			return nil
		}
	}
	record.ID = r.nextID
	r.nextID++
	record.CreatedAt = time.Now()
	clone := *record
	r.records[record.ID] = &clone
	return nil
}

func (r *fakeAttendanceRepo) ListByStudent(_ context.Context, studentID, sessionID int) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	for _, rec := range r.records {
		if rec.StudentID == studentID && rec.SessionID == sessionID {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttendedOn.Before(out[j].AttendedOn) })
	return out, nil
}

func (r *fakeAttendanceRepo) ListByDate(_ context.Context, _ string, sessionID int, day time.Time) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	for _, rec := range r.records {
		if rec.SessionID == sessionID && rec.AttendedOn.Equal(day) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) CountPresentByStudent(_ context.Context, studentID, sessionID int) (int, error) {
	n := 0
	for _, rec := range r.records {
		if rec.StudentID == studentID && rec.SessionID == sessionID && rec.Status == models.AttendancePresent {
			n++
		}
	}
	return n, nil
}

type fakeActivityRepo struct {
	entries []models.Activity
}

func (r *fakeActivityRepo) Create(_ context.Context, activity *models.Activity) error {
	activity.ID = len(r.entries) + 1
	activity.CreatedAt = time.Now()
	r.entries = append(r.entries, *activity)
	return nil
}

func (r *fakeActivityRepo) ListRecent(_ context.Context, limit, offset int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	out := make([]models.Activity, 0, limit)
	for i := len(r.entries) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func (r *fakeActivityRepo) GetByID(_ context.Context, id int) (*models.Activity, error) {
	for _, entry := range r.entries {
		if entry.ID == id {
			clone := entry
			return &clone, nil
		}
	}
	return nil, repositories.ErrActivityNotFound
}

type fakeUploader struct {
	uploads []string
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (*storage.UploadResult, error) {
	u.uploads = append(u.uploads, key)
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (u *fakeUploader) Delete(_ context.Context, _ string) error { return nil }

func (u *fakeUploader) GetPublicURL(key string) string { return "https://cdn.example.com/" + key }

func testActivityService() ActivityService {
	return NewActivityService(&fakeActivityRepo{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

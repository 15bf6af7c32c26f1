package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harjotgill/sports-office/models"
)

var (
	ErrProfileNotFound    = errors.New("student profile not found")
	ErrProfileExists      = errors.New("student profile already exists for this session")
	ErrProfileSessionGone = errors.New("student profile references a missing session or user")
)

// ProfileFilter narrows ListBySession. Zero values mean "any".
type ProfileFilter struct {
	Sport  string
	Branch string
	Year   int
	// PendingOnly keeps profiles with at least one section under review.
	PendingOnly bool
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.StudentProfile) error
	GetByID(ctx context.Context, id int) (*models.StudentProfile, error)
	GetByUserAndSession(ctx context.Context, userID, sessionID int) (*models.StudentProfile, error)
	// GetLatestByUserBefore returns the user's most recent profile from
	// any session other than the given one, newest session first.
	GetLatestByUserBefore(ctx context.Context, userID, excludeSessionID int) (*models.StudentProfile, error)
	ListByUser(ctx context.Context, userID int) ([]models.StudentProfile, error)
	ListByURN(ctx context.Context, urn string) ([]models.StudentProfile, error)
	ListBySession(ctx context.Context, sessionID int, filter ProfileFilter) ([]models.StudentProfile, error)
	Update(ctx context.Context, profile *models.StudentProfile) error
	Delete(ctx context.Context, id int) error
	CountBySession(ctx context.Context, sessionID int) (int, error)
	CountPendingBySession(ctx context.Context, sessionID int) (int, error)
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

const profileColumns = `
	p.id, p.user_id, p.session_id,
	p.name, p.urn, p.crn, p.branch, p.year, p.dob, p.gender, p.contact, p.address,
	p.father_name, p.year_of_passing_matric, p.year_of_passing_plus_two,
	p.first_admission_date, p.last_exam_name, p.last_exam_year, p.years_of_participation,
	p.inter_college_graduate_course, p.inter_college_pg_course,
	p.photo, p.signature_photo,
	p.sports, p.sports_details, p.positions,
	p.status, p.notifications,
	p.locked_personal, p.locked_sports, p.is_cloned,
	p.created_at, p.updated_at`

func (r *postgresProfileRepository) Create(ctx context.Context, profile *models.StudentProfile) error {
	query := `
		INSERT INTO student_profiles (
			user_id, session_id,
			name, urn, crn, branch, year, dob, gender, contact, address,
			father_name, year_of_passing_matric, year_of_passing_plus_two,
			first_admission_date, last_exam_name, last_exam_year, years_of_participation,
			inter_college_graduate_course, inter_college_pg_course,
			photo, signature_photo,
			sports, sports_details, positions,
			status, notifications,
			locked_personal, locked_sports, is_cloned
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30
		)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		profile.UserID, profile.SessionID,
		profile.Name, profile.URN, profile.CRN, profile.Branch, profile.Year,
		profile.DOB, profile.Gender, profile.Contact, profile.Address,
		profile.FatherName, profile.YearOfPassingMatric, profile.YearOfPassingPlusTwo,
		profile.FirstAdmissionDate, profile.LastExamName, profile.LastExamYear, profile.YearsOfParticipation,
		profile.InterCollegeGraduateCourse, profile.InterCollegePgCourse,
		profile.Photo, profile.SignaturePhoto,
		profile.Sports, profile.SportsDetails, profile.Positions,
		profile.Status, profile.Notifications,
		profile.LockedPersonal, profile.LockedSports, profile.IsCloned,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "student_profiles_user_id_session_id_key") {
			return ErrProfileExists
		}
		if isForeignKeyViolation(err, "") {
			return ErrProfileSessionGone
		}
		return err
	}
	return nil
}

func (r *postgresProfileRepository) GetByID(ctx context.Context, id int) (*models.StudentProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_profiles p WHERE p.id = $1`, profileColumns)
	return r.scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresProfileRepository) GetByUserAndSession(ctx context.Context, userID, sessionID int) (*models.StudentProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM student_profiles p
		WHERE p.user_id = $1 AND p.session_id = $2`, profileColumns)
	return r.scanProfile(r.db.QueryRowContext(ctx, query, userID, sessionID))
}

func (r *postgresProfileRepository) GetLatestByUserBefore(ctx context.Context, userID, excludeSessionID int) (*models.StudentProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM student_profiles p
		JOIN sessions s ON p.session_id = s.id
		WHERE p.user_id = $1 AND p.session_id <> $2
		ORDER BY s.start_date DESC
		LIMIT 1`, profileColumns)
	return r.scanProfile(r.db.QueryRowContext(ctx, query, userID, excludeSessionID))
}

func (r *postgresProfileRepository) ListByUser(ctx context.Context, userID int) ([]models.StudentProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			s.id, s.label, s.start_date, s.end_date, s.is_active, s.created_at
		FROM student_profiles p
		JOIN sessions s ON p.session_id = s.id
		WHERE p.user_id = $1
		ORDER BY s.start_date DESC`, profileColumns)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectProfilesWithSession(rows)
}

func (r *postgresProfileRepository) ListByURN(ctx context.Context, urn string) ([]models.StudentProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			s.id, s.label, s.start_date, s.end_date, s.is_active, s.created_at
		FROM student_profiles p
		JOIN sessions s ON p.session_id = s.id
		WHERE p.urn = $1
		ORDER BY s.start_date DESC`, profileColumns)

	rows, err := r.db.QueryContext(ctx, query, urn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectProfilesWithSession(rows)
}

func (r *postgresProfileRepository) ListBySession(ctx context.Context, sessionID int, filter ProfileFilter) ([]models.StudentProfile, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `
		SELECT %s,
			s.id, s.label, s.start_date, s.end_date, s.is_active, s.created_at
		FROM student_profiles p
		JOIN sessions s ON p.session_id = s.id
		WHERE p.session_id = $1`, profileColumns)

	args := []interface{}{sessionID}
	if filter.Sport != "" {
		args = append(args, filter.Sport)
		fmt.Fprintf(&sb, ` AND p.sports @> jsonb_build_array($%d::text)`, len(args))
	}
	if filter.Branch != "" {
		args = append(args, filter.Branch)
		fmt.Fprintf(&sb, ` AND p.branch = $%d`, len(args))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		fmt.Fprintf(&sb, ` AND p.year = $%d`, len(args))
	}
	if filter.PendingOnly {
		sb.WriteString(` AND (p.status->>'personal' = 'pending' OR p.status->>'sports' = 'pending')`)
	}
	sb.WriteString(` ORDER BY p.name ASC`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectProfilesWithSession(rows)
}

func (r *postgresProfileRepository) Update(ctx context.Context, profile *models.StudentProfile) error {
	query := `
		UPDATE student_profiles SET
			name = $1, urn = $2, crn = $3, branch = $4, year = $5, dob = $6,
			gender = $7, contact = $8, address = $9,
			father_name = $10, year_of_passing_matric = $11, year_of_passing_plus_two = $12,
			first_admission_date = $13, last_exam_name = $14, last_exam_year = $15,
			years_of_participation = $16,
			inter_college_graduate_course = $17, inter_college_pg_course = $18,
			photo = $19, signature_photo = $20,
			sports = $21, sports_details = $22, positions = $23,
			status = $24, notifications = $25,
			locked_personal = $26, locked_sports = $27, is_cloned = $28,
			updated_at = NOW()
		WHERE id = $29`

	result, err := r.db.ExecContext(ctx, query,
		profile.Name, profile.URN, profile.CRN, profile.Branch, profile.Year, profile.DOB,
		profile.Gender, profile.Contact, profile.Address,
		profile.FatherName, profile.YearOfPassingMatric, profile.YearOfPassingPlusTwo,
		profile.FirstAdmissionDate, profile.LastExamName, profile.LastExamYear,
		profile.YearsOfParticipation,
		profile.InterCollegeGraduateCourse, profile.InterCollegePgCourse,
		profile.Photo, profile.SignaturePhoto,
		profile.Sports, profile.SportsDetails, profile.Positions,
		profile.Status, profile.Notifications,
		profile.LockedPersonal, profile.LockedSports, profile.IsCloned,
		profile.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM student_profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) CountBySession(ctx context.Context, sessionID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM student_profiles WHERE session_id = $1`, sessionID,
	).Scan(&count)
	return count, err
}

func (r *postgresProfileRepository) CountPendingBySession(ctx context.Context, sessionID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM student_profiles
		WHERE session_id = $1
		  AND (status->>'personal' = 'pending' OR status->>'sports' = 'pending')`,
		sessionID,
	).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfileFields(row rowScanner, p *models.StudentProfile, extra ...interface{}) error {
	dest := []interface{}{
		&p.ID, &p.UserID, &p.SessionID,
		&p.Name, &p.URN, &p.CRN, &p.Branch, &p.Year, &p.DOB, &p.Gender, &p.Contact, &p.Address,
		&p.FatherName, &p.YearOfPassingMatric, &p.YearOfPassingPlusTwo,
		&p.FirstAdmissionDate, &p.LastExamName, &p.LastExamYear, &p.YearsOfParticipation,
		&p.InterCollegeGraduateCourse, &p.InterCollegePgCourse,
		&p.Photo, &p.SignaturePhoto,
		&p.Sports, &p.SportsDetails, &p.Positions,
		&p.Status, &p.Notifications,
		&p.LockedPersonal, &p.LockedSports, &p.IsCloned,
		&p.CreatedAt, &p.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

func (r *postgresProfileRepository) scanProfile(row *sql.Row) (*models.StudentProfile, error) {
	profile := &models.StudentProfile{}
	if err := scanProfileFields(row, profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (r *postgresProfileRepository) collectProfilesWithSession(rows *sql.Rows) ([]models.StudentProfile, error) {
	profiles := make([]models.StudentProfile, 0)
	for rows.Next() {
		var p models.StudentProfile
		var s models.Session
		if err := scanProfileFields(rows, &p,
			&s.ID, &s.Label, &s.StartDate, &s.EndDate, &s.IsActive, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		p.Session = &s
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harjotgill/sports-office/models"
)

var (
	ErrGymSwimmingNotFound    = errors.New("gym/swimming student not found")
	ErrGymSwimmingURNConflict = errors.New("urn already enrolled for this sport")
)

type GymSwimmingRepository interface {
	Create(ctx context.Context, student *models.GymSwimmingStudent) error
	GetByID(ctx context.Context, id int) (*models.GymSwimmingStudent, error)
	GetByURNAndSport(ctx context.Context, urn, sport string) (*models.GymSwimmingStudent, error)
	ListBySport(ctx context.Context, sport string, sessionID int) ([]models.GymSwimmingStudent, error)
	Update(ctx context.Context, student *models.GymSwimmingStudent) error
	Delete(ctx context.Context, id int) error
}

type postgresGymSwimmingRepository struct {
	db *sql.DB
}

func NewPostgresGymSwimmingRepository(db *sql.DB) GymSwimmingRepository {
	return &postgresGymSwimmingRepository{db: db}
}

const gymSwimmingColumns = `g.id, g.name, g.branch, g.urn, g.crn, g.year, g.sport, g.email, g.phone, g.session_id, g.created_by, g.created_at`

func (r *postgresGymSwimmingRepository) Create(ctx context.Context, student *models.GymSwimmingStudent) error {
	query := `
		INSERT INTO gym_swimming_students (name, branch, urn, crn, year, sport, email, phone, session_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		student.Name, student.Branch, student.URN, student.CRN, student.Year,
		student.Sport, student.Email, student.Phone, student.SessionID, student.CreatedBy,
	).Scan(&student.ID, &student.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "gym_swimming_students_urn_sport_key") {
			return ErrGymSwimmingURNConflict
		}
		return err
	}
	return nil
}

func (r *postgresGymSwimmingRepository) GetByID(ctx context.Context, id int) (*models.GymSwimmingStudent, error) {
	query := fmt.Sprintf(`SELECT %s FROM gym_swimming_students g WHERE g.id = $1`, gymSwimmingColumns)
	return r.scanStudent(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresGymSwimmingRepository) GetByURNAndSport(ctx context.Context, urn, sport string) (*models.GymSwimmingStudent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM gym_swimming_students g
		WHERE g.urn = $1 AND g.sport = $2`, gymSwimmingColumns)
	return r.scanStudent(r.db.QueryRowContext(ctx, query, urn, sport))
}

func (r *postgresGymSwimmingRepository) ListBySport(ctx context.Context, sport string, sessionID int) ([]models.GymSwimmingStudent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM gym_swimming_students g
		WHERE g.sport = $1 AND g.session_id = $2
		ORDER BY g.name ASC`, gymSwimmingColumns)

	rows, err := r.db.QueryContext(ctx, query, sport, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := make([]models.GymSwimmingStudent, 0)
	for rows.Next() {
		var s models.GymSwimmingStudent
		if scanErr := rows.Scan(
			&s.ID, &s.Name, &s.Branch, &s.URN, &s.CRN, &s.Year, &s.Sport,
			&s.Email, &s.Phone, &s.SessionID, &s.CreatedBy, &s.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		students = append(students, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *postgresGymSwimmingRepository) Update(ctx context.Context, student *models.GymSwimmingStudent) error {
	query := `
		UPDATE gym_swimming_students SET
			name = $1, branch = $2, urn = $3, crn = $4, year = $5,
			sport = $6, email = $7, phone = $8
		WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		student.Name, student.Branch, student.URN, student.CRN, student.Year,
		student.Sport, student.Email, student.Phone,
		student.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "gym_swimming_students_urn_sport_key") {
			return ErrGymSwimmingURNConflict
		}
		return err
	}
	return checkAffectedRows(result, ErrGymSwimmingNotFound)
}

func (r *postgresGymSwimmingRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM gym_swimming_students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGymSwimmingNotFound)
}

func (r *postgresGymSwimmingRepository) scanStudent(row *sql.Row) (*models.GymSwimmingStudent, error) {
	student := &models.GymSwimmingStudent{}
	err := row.Scan(
		&student.ID, &student.Name, &student.Branch, &student.URN, &student.CRN,
		&student.Year, &student.Sport, &student.Email, &student.Phone,
		&student.SessionID, &student.CreatedBy, &student.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGymSwimmingNotFound
		}
		return nil, err
	}
	return student, nil
}

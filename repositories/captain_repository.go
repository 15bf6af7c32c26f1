package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harjotgill/sports-office/models"
)

var (
	ErrCaptainNotFound     = errors.New("captain not found")
	ErrCaptainCodeConflict = errors.New("captain code already exists for this session")
)

type CaptainRepository interface {
	Create(ctx context.Context, captain *models.Captain) error
	GetByID(ctx context.Context, id int) (*models.Captain, error)
	GetByCode(ctx context.Context, code string, sessionID int) (*models.Captain, error)
	GetByUserAndSession(ctx context.Context, userID, sessionID int) (*models.Captain, error)
	ListBySession(ctx context.Context, sessionID int) ([]models.Captain, error)
	ListByUser(ctx context.Context, userID int) ([]models.Captain, error)
	ListByURN(ctx context.Context, urn string) ([]models.Captain, error)
	Update(ctx context.Context, captain *models.Captain) error
	Delete(ctx context.Context, id int) error
	CountBySession(ctx context.Context, sessionID int) (int, error)
}

type postgresCaptainRepository struct {
	db *sql.DB
}

func NewPostgresCaptainRepository(db *sql.DB) CaptainRepository {
	return &postgresCaptainRepository{db: db}
}

const captainColumns = `
	c.id, c.captain_code, c.user_id, c.session_id,
	c.name, c.branch, c.urn, c.year, c.sport, c.team_member_count,
	c.email, c.phone, c.position, c.team_members, c.certificate_available,
	c.created_by, c.created_at`

func (r *postgresCaptainRepository) Create(ctx context.Context, captain *models.Captain) error {
	query := `
		INSERT INTO captains (
			captain_code, user_id, session_id,
			name, branch, urn, year, sport, team_member_count,
			email, phone, position, team_members, certificate_available, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		captain.CaptainCode, captain.UserID, captain.SessionID,
		captain.Name, captain.Branch, captain.URN, captain.Year, captain.Sport, captain.TeamMemberCount,
		captain.Email, captain.Phone, captain.Position, captain.TeamMembers, captain.CertificateAvailable,
		captain.CreatedBy,
	).Scan(&captain.ID, &captain.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "captains_captain_code_session_id_key") {
			return ErrCaptainCodeConflict
		}
		return err
	}
	return nil
}

func (r *postgresCaptainRepository) GetByID(ctx context.Context, id int) (*models.Captain, error) {
	query := fmt.Sprintf(`SELECT %s FROM captains c WHERE c.id = $1`, captainColumns)
	return r.scanCaptain(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresCaptainRepository) GetByCode(ctx context.Context, code string, sessionID int) (*models.Captain, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM captains c
		WHERE c.captain_code = $1 AND c.session_id = $2`, captainColumns)
	return r.scanCaptain(r.db.QueryRowContext(ctx, query, code, sessionID))
}

func (r *postgresCaptainRepository) GetByUserAndSession(ctx context.Context, userID, sessionID int) (*models.Captain, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM captains c
		WHERE c.user_id = $1 AND c.session_id = $2`, captainColumns)
	return r.scanCaptain(r.db.QueryRowContext(ctx, query, userID, sessionID))
}

func (r *postgresCaptainRepository) ListBySession(ctx context.Context, sessionID int) ([]models.Captain, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM captains c
		WHERE c.session_id = $1
		ORDER BY c.name ASC`, captainColumns)
	return r.listCaptains(ctx, query, sessionID)
}

func (r *postgresCaptainRepository) ListByUser(ctx context.Context, userID int) ([]models.Captain, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM captains c
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC`, captainColumns)
	return r.listCaptains(ctx, query, userID)
}

func (r *postgresCaptainRepository) ListByURN(ctx context.Context, urn string) ([]models.Captain, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM captains c
		WHERE c.urn = $1
		ORDER BY c.created_at DESC`, captainColumns)
	return r.listCaptains(ctx, query, urn)
}

func (r *postgresCaptainRepository) Update(ctx context.Context, captain *models.Captain) error {
	query := `
		UPDATE captains SET
			name = $1, branch = $2, urn = $3, year = $4, sport = $5,
			team_member_count = $6, email = $7, phone = $8, position = $9,
			team_members = $10, certificate_available = $11
		WHERE id = $12`

	result, err := r.db.ExecContext(ctx, query,
		captain.Name, captain.Branch, captain.URN, captain.Year, captain.Sport,
		captain.TeamMemberCount, captain.Email, captain.Phone, captain.Position,
		captain.TeamMembers, captain.CertificateAvailable,
		captain.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCaptainNotFound)
}

func (r *postgresCaptainRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM captains WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCaptainNotFound)
}

func (r *postgresCaptainRepository) CountBySession(ctx context.Context, sessionID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM captains WHERE session_id = $1`, sessionID,
	).Scan(&count)
	return count, err
}

func (r *postgresCaptainRepository) scanCaptain(row *sql.Row) (*models.Captain, error) {
	captain := &models.Captain{}
	err := row.Scan(
		&captain.ID, &captain.CaptainCode, &captain.UserID, &captain.SessionID,
		&captain.Name, &captain.Branch, &captain.URN, &captain.Year, &captain.Sport, &captain.TeamMemberCount,
		&captain.Email, &captain.Phone, &captain.Position, &captain.TeamMembers, &captain.CertificateAvailable,
		&captain.CreatedBy, &captain.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCaptainNotFound
		}
		return nil, err
	}
	return captain, nil
}

func (r *postgresCaptainRepository) listCaptains(ctx context.Context, query string, args ...interface{}) ([]models.Captain, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	captains := make([]models.Captain, 0)
	for rows.Next() {
		var c models.Captain
		if scanErr := rows.Scan(
			&c.ID, &c.CaptainCode, &c.UserID, &c.SessionID,
			&c.Name, &c.Branch, &c.URN, &c.Year, &c.Sport, &c.TeamMemberCount,
			&c.Email, &c.Phone, &c.Position, &c.TeamMembers, &c.CertificateAvailable,
			&c.CreatedBy, &c.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		captains = append(captains, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return captains, nil
}

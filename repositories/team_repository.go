package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harjotgill/sports-office/models"
)

var (
	ErrTeamNotFound = errors.New("team not found")
	ErrTeamExists   = errors.New("team already exists for this captain and session")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByCaptainCode(ctx context.Context, code string, sessionID int) (*models.Team, error)
	ListBySession(ctx context.Context, sessionID int) ([]models.Team, error)
	ListPendingBySession(ctx context.Context, sessionID int) ([]models.Team, error)
	// ListByMemberURN finds teams whose embedded roster contains a
	// member with the given urn.
	ListByMemberURN(ctx context.Context, urn string) ([]models.Team, error)
	DeleteByCaptainCode(ctx context.Context, code string, sessionID int) error
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id int) error
	CountBySession(ctx context.Context, sessionID int) (int, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `t.id, t.captain_code, t.session_id, t.members, t.position, t.status, t.created_at, t.updated_at`

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (captain_code, session_id, members, position, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		team.CaptainCode,
		team.SessionID,
		team.Members,
		team.Position,
		team.Status,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "teams_captain_code_session_id_key") {
			return ErrTeamExists
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams t WHERE t.id = $1`, teamColumns)
	return r.scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) GetByCaptainCode(ctx context.Context, code string, sessionID int) (*models.Team, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM teams t
		WHERE t.captain_code = $1 AND t.session_id = $2`, teamColumns)
	return r.scanTeam(r.db.QueryRowContext(ctx, query, code, sessionID))
}

func (r *postgresTeamRepository) ListBySession(ctx context.Context, sessionID int) ([]models.Team, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM teams t
		WHERE t.session_id = $1
		ORDER BY t.created_at DESC`, teamColumns)
	return r.listTeams(ctx, query, sessionID)
}

func (r *postgresTeamRepository) ListPendingBySession(ctx context.Context, sessionID int) ([]models.Team, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM teams t
		WHERE t.session_id = $1 AND t.status = 'pending'
		ORDER BY t.created_at ASC`, teamColumns)
	return r.listTeams(ctx, query, sessionID)
}

func (r *postgresTeamRepository) ListByMemberURN(ctx context.Context, urn string) ([]models.Team, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM teams t
		WHERE t.members @> jsonb_build_array(jsonb_build_object('urn', $1::text))
		ORDER BY t.created_at DESC`, teamColumns)
	return r.listTeams(ctx, query, urn)
}

func (r *postgresTeamRepository) DeleteByCaptainCode(ctx context.Context, code string, sessionID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM teams WHERE captain_code = $1 AND session_id = $2`, code, sessionID)
	return err
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			members = $1,
			position = $2,
			status = $3,
			updated_at = NOW()
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query,
		team.Members,
		team.Position,
		team.Status,
		team.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) CountBySession(ctx context.Context, sessionID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM teams WHERE session_id = $1`, sessionID,
	).Scan(&count)
	return count, err
}

func (r *postgresTeamRepository) scanTeam(row *sql.Row) (*models.Team, error) {
	team := &models.Team{}
	err := row.Scan(
		&team.ID, &team.CaptainCode, &team.SessionID,
		&team.Members, &team.Position, &team.Status,
		&team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) listTeams(ctx context.Context, query string, args ...interface{}) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if scanErr := rows.Scan(
			&t.ID, &t.CaptainCode, &t.SessionID,
			&t.Members, &t.Position, &t.Status,
			&t.CreatedAt, &t.UpdatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

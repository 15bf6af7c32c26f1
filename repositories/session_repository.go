package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harjotgill/sports-office/models"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionLabelConflict = errors.New("session label conflict")
	ErrNoActiveSession      = errors.New("no active session")
	ErrSessionInUse         = errors.New("session has dependent records")
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id int) (*models.Session, error)
	GetActive(ctx context.Context) (*models.Session, error)
	List(ctx context.Context) ([]models.Session, error)
	// SetActive activates one session and deactivates every other one
	// in a single transaction.
	SetActive(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}

type postgresSessionRepository struct {
	db *sql.DB
}

func NewPostgresSessionRepository(db *sql.DB) SessionRepository {
	return &postgresSessionRepository{db: db}
}

const sessionColumns = `id, label, start_date, end_date, is_active, created_at`

func (r *postgresSessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (label, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		session.Label,
		session.StartDate,
		session.EndDate,
		session.IsActive,
	).Scan(&session.ID, &session.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "sessions_label_key") {
			return ErrSessionLabelConflict
		}
		return err
	}
	return nil
}

func (r *postgresSessionRepository) GetByID(ctx context.Context, id int) (*models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE id = $1`, sessionColumns)
	return r.scanSession(ctx, query, id)
}

func (r *postgresSessionRepository) GetActive(ctx context.Context) (*models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE is_active = TRUE LIMIT 1`, sessionColumns)
	session, err := r.scanSession(ctx, query)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, ErrNoActiveSession
	}
	return session, err
}

func (r *postgresSessionRepository) List(ctx context.Context) ([]models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions ORDER BY start_date DESC`, sessionColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		var s models.Session
		if scanErr := rows.Scan(&s.ID, &s.Label, &s.StartDate, &s.EndDate, &s.IsActive, &s.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		sessions = append(sessions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *postgresSessionRepository) SetActive(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `UPDATE sessions SET is_active = FALSE WHERE is_active = TRUE`); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `UPDATE sessions SET is_active = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if err = checkAffectedRows(result, ErrSessionNotFound); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresSessionRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err, "") {
			return ErrSessionInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrSessionNotFound)
}

func (r *postgresSessionRepository) scanSession(ctx context.Context, query string, args ...interface{}) (*models.Session, error) {
	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&session.ID,
		&session.Label,
		&session.StartDate,
		&session.EndDate,
		&session.IsActive,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

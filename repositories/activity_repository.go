package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/harjotgill/sports-office/models"
)

var ErrActivityNotFound = errors.New("activity not found")

type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	// ListRecent returns the newest entries with the admin's name joined
	// in, capped at limit and skipping offset rows.
	ListRecent(ctx context.Context, limit, offset int) ([]models.Activity, error)
	GetByID(ctx context.Context, id int) (*models.Activity, error)
}

type postgresActivityRepository struct {
	db *sql.DB
}

func NewPostgresActivityRepository(db *sql.DB) ActivityRepository {
	return &postgresActivityRepository{db: db}
}

func (r *postgresActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	query := `
		INSERT INTO activities (admin_id, action, target_model, target_id, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		activity.AdminID,
		activity.Action,
		activity.TargetModel,
		activity.TargetID,
		activity.Description,
	).Scan(&activity.ID, &activity.CreatedAt)
}

func (r *postgresActivityRepository) ListRecent(ctx context.Context, limit, offset int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT a.id, a.admin_id, a.action, a.target_model, a.target_id, a.description, a.created_at,
			u.id, u.name, u.email
		FROM activities a
		JOIN users u ON a.admin_id = u.id
		ORDER BY a.created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]models.Activity, 0)
	for rows.Next() {
		var act models.Activity
		var admin models.User
		if scanErr := rows.Scan(
			&act.ID, &act.AdminID, &act.Action, &act.TargetModel, &act.TargetID,
			&act.Description, &act.CreatedAt,
			&admin.ID, &admin.Name, &admin.Email,
		); scanErr != nil {
			return nil, scanErr
		}
		act.Admin = &admin
		activities = append(activities, act)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *postgresActivityRepository) GetByID(ctx context.Context, id int) (*models.Activity, error) {
	query := `
		SELECT a.id, a.admin_id, a.action, a.target_model, a.target_id, a.description, a.created_at,
			u.id, u.name, u.email
		FROM activities a
		JOIN users u ON a.admin_id = u.id
		WHERE a.id = $1`

	var act models.Activity
	var admin models.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&act.ID, &act.AdminID, &act.Action, &act.TargetModel, &act.TargetID,
		&act.Description, &act.CreatedAt,
		&admin.ID, &admin.Name, &admin.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	act.Admin = &admin
	return &act, nil
}

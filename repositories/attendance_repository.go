package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/harjotgill/sports-office/models"
)

var ErrAttendanceNotFound = errors.New("attendance record not found")

type AttendanceRepository interface {
	// Upsert writes one student's mark for one day. Re-marking the same
	// day replaces the earlier status.
	Upsert(ctx context.Context, record *models.AttendanceRecord) error
	ListByStudent(ctx context.Context, studentID, sessionID int) ([]models.AttendanceRecord, error)
	// ListByDate returns the marks for every student of a sport on one
	// day; students without a row that day are absent from the result.
	ListByDate(ctx context.Context, sport string, sessionID int, day time.Time) ([]models.AttendanceRecord, error)
	CountPresentByStudent(ctx context.Context, studentID, sessionID int) (int, error)
}

type postgresAttendanceRepository struct {
	db *sql.DB
}

func NewPostgresAttendanceRepository(db *sql.DB) AttendanceRepository {
	return &postgresAttendanceRepository{db: db}
}

func (r *postgresAttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) error {
	query := `
		INSERT INTO attendance (student_id, session_id, attended_on, status, marked_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (student_id, session_id, attended_on)
		DO UPDATE SET status = EXCLUDED.status, marked_by = EXCLUDED.marked_by
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		record.StudentID,
		record.SessionID,
		record.AttendedOn,
		record.Status,
		record.MarkedBy,
	).Scan(&record.ID, &record.CreatedAt)
}

func (r *postgresAttendanceRepository) ListByStudent(ctx context.Context, studentID, sessionID int) ([]models.AttendanceRecord, error) {
	query := `
		SELECT id, student_id, session_id, attended_on, status, marked_by, created_at
		FROM attendance
		WHERE student_id = $1 AND session_id = $2
		ORDER BY attended_on DESC`
	return r.listRecords(ctx, query, studentID, sessionID)
}

func (r *postgresAttendanceRepository) ListByDate(ctx context.Context, sport string, sessionID int, day time.Time) ([]models.AttendanceRecord, error) {
	query := `
		SELECT a.id, a.student_id, a.session_id, a.attended_on, a.status, a.marked_by, a.created_at
		FROM attendance a
		JOIN gym_swimming_students g ON a.student_id = g.id
		WHERE g.sport = $1 AND a.session_id = $2 AND a.attended_on = $3
		ORDER BY g.name ASC`
	return r.listRecords(ctx, query, sport, sessionID, day)
}

func (r *postgresAttendanceRepository) CountPresentByStudent(ctx context.Context, studentID, sessionID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM attendance
		WHERE student_id = $1 AND session_id = $2 AND status = 'Present'`,
		studentID, sessionID,
	).Scan(&count)
	return count, err
}

func (r *postgresAttendanceRepository) listRecords(ctx context.Context, query string, args ...interface{}) ([]models.AttendanceRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.AttendanceRecord, 0)
	for rows.Next() {
		var rec models.AttendanceRecord
		if scanErr := rows.Scan(
			&rec.ID, &rec.StudentID, &rec.SessionID, &rec.AttendedOn,
			&rec.Status, &rec.MarkedBy, &rec.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

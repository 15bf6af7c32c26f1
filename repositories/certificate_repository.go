package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harjotgill/sports-office/models"
)

var (
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrCertificateExists   = errors.New("certificate already issued")
)

type CertificateRepository interface {
	// Create inserts one certificate; ErrCertificateExists means the
	// exact same certificate was already issued, which callers treat as
	// success.
	Create(ctx context.Context, cert *models.Certificate) error
	GetByID(ctx context.Context, id int) (*models.Certificate, error)
	ListByCaptainAndSession(ctx context.Context, captainID, sessionID int) ([]models.Certificate, error)
	ListBySession(ctx context.Context, sessionID int) ([]models.Certificate, error)
	UpdateStatus(ctx context.Context, id int, status models.CertificateStatus) error
	CountBySession(ctx context.Context, sessionID int) (int, error)
}

type postgresCertificateRepository struct {
	db *sql.DB
}

func NewPostgresCertificateRepository(db *sql.DB) CertificateRepository {
	return &postgresCertificateRepository{db: db}
}

const certificateColumns = `c.id, c.recipient_type, c.captain_id, c.member_info, c.session_id, c.sport, c.position, c.status, c.issued_at`

// memberInfoScanner scans a nullable member_info column into the
// certificate's pointer field, leaving it nil for captain rows.
type memberInfoScanner struct {
	dst **models.CertificateMember
}

func (s memberInfoScanner) Scan(src interface{}) error {
	if src == nil {
		*s.dst = nil
		return nil
	}
	member := &models.CertificateMember{}
	if err := member.Scan(src); err != nil {
		return err
	}
	*s.dst = member
	return nil
}

func (r *postgresCertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	query := `
		INSERT INTO certificates (recipient_type, captain_id, member_info, session_id, sport, position, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, issued_at`

	err := r.db.QueryRowContext(ctx, query,
		cert.RecipientType,
		cert.CaptainID,
		cert.MemberInfo,
		cert.SessionID,
		cert.Sport,
		cert.Position,
		cert.Status,
	).Scan(&cert.ID, &cert.IssuedAt)

	if err != nil {
		if isUniqueViolation(err, "certificates_identity_key") {
			return ErrCertificateExists
		}
		return err
	}
	return nil
}

func (r *postgresCertificateRepository) GetByID(ctx context.Context, id int) (*models.Certificate, error) {
	query := fmt.Sprintf(`SELECT %s FROM certificates c WHERE c.id = $1`, certificateColumns)

	cert := &models.Certificate{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&cert.ID, &cert.RecipientType, &cert.CaptainID, memberInfoScanner{&cert.MemberInfo},
		&cert.SessionID, &cert.Sport, &cert.Position, &cert.Status, &cert.IssuedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return cert, nil
}

func (r *postgresCertificateRepository) ListByCaptainAndSession(ctx context.Context, captainID, sessionID int) ([]models.Certificate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM certificates c
		WHERE c.captain_id = $1 AND c.session_id = $2
		ORDER BY c.recipient_type ASC, c.id ASC`, certificateColumns)
	return r.listCertificates(ctx, query, captainID, sessionID)
}

func (r *postgresCertificateRepository) ListBySession(ctx context.Context, sessionID int) ([]models.Certificate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM certificates c
		WHERE c.session_id = $1
		ORDER BY c.issued_at DESC`, certificateColumns)
	return r.listCertificates(ctx, query, sessionID)
}

func (r *postgresCertificateRepository) UpdateStatus(ctx context.Context, id int, status models.CertificateStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE certificates SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCertificateNotFound)
}

func (r *postgresCertificateRepository) CountBySession(ctx context.Context, sessionID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM certificates WHERE session_id = $1`, sessionID,
	).Scan(&count)
	return count, err
}

func (r *postgresCertificateRepository) listCertificates(ctx context.Context, query string, args ...interface{}) ([]models.Certificate, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	certs := make([]models.Certificate, 0)
	for rows.Next() {
		var c models.Certificate
		if scanErr := rows.Scan(
			&c.ID, &c.RecipientType, &c.CaptainID, memberInfoScanner{&c.MemberInfo},
			&c.SessionID, &c.Sport, &c.Position, &c.Status, &c.IssuedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		certs = append(certs, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return certs, nil
}

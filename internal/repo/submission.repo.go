package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"contest-entry/internal/domain"

	"github.com/google/uuid"
)

type SubmissionRepo interface {
	// Save validates and inserts a new submission, assigning ID and SubmittedAt when unset.
	Save(ctx context.Context, s *domain.Submission) (*domain.Submission, error)
	// FindById returns nil, nil when the submission does not exist.
	FindById(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	// List returns every submission, newest first.
	List(ctx context.Context) ([]domain.Submission, error)
	ReferencesFile(ctx context.Context, key string) (bool, error)
}

type submissionRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewSubmissionRepo(db *sql.DB) SubmissionRepo {
	return &submissionRepo{db: db, now: time.Now}
}

const submissionColumns = `id, name, email, phone, address, category, file_name, file_location,
	file_key, file_mime_type, submitted_at, payment_id, order_id, payment_status`

func (r *submissionRepo) Save(ctx context.Context, s *domain.Submission) (*domain.Submission, error) {
	rec := *s
	rec.Email = strings.ToLower(strings.TrimSpace(rec.Email))
	if rec.PaymentStatus == "" {
		rec.PaymentStatus = domain.PaymentPending
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = r.now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO submissions (`+submissionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		rec.ID, rec.Name, rec.Email, rec.Phone, rec.Address, rec.Category, rec.FileName, rec.FileLocation,
		rec.FileKey, nullString(rec.FileMimeType), rec.SubmittedAt, nullString(rec.PaymentID), nullString(rec.OrderID), rec.PaymentStatus,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert submission: %v", domain.ErrPersistence, err)
	}
	return &rec, nil
}

func (r *submissionRepo) FindById(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id)
	s, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find submission: %v", domain.ErrPersistence, err)
	}
	return s, nil
}

func (r *submissionRepo) List(ctx context.Context) ([]domain.Submission, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+submissionColumns+` FROM submissions ORDER BY submitted_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: list submissions: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	out := []domain.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan submission: %v", domain.ErrPersistence, err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list submissions: %v", domain.ErrPersistence, err)
	}
	return out, nil
}

func (r *submissionRepo) ReferencesFile(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM submissions WHERE file_key = $1)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: lookup file key: %v", domain.ErrPersistence, err)
	}
	return exists, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (*domain.Submission, error) {
	var s domain.Submission
	var mime, paymentID, orderID sql.NullString
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Email,
		&s.Phone,
		&s.Address,
		&s.Category,
		&s.FileName,
		&s.FileLocation,
		&s.FileKey,
		&mime,
		&s.SubmittedAt,
		&paymentID,
		&orderID,
		&s.PaymentStatus,
	); err != nil {
		return nil, err
	}
	s.FileMimeType = mime.String
	s.PaymentID = paymentID.String
	s.OrderID = orderID.String
	return &s, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"banjara-intake-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the slice of *pgxpool.Pool the repository uses.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type submissionRepo struct {
	db querier
}

func NewSubmissionRepository(db *pgxpool.Pool) domain.SubmissionRepository {
	return newSubmissionRepository(db)
}

func newSubmissionRepository(db querier) *submissionRepo {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) CreateJobSeeker(ctx context.Context, s *domain.JobSeekerSubmission) error {
	photoBucket, photoKey, photoURL := refColumns(s.Photo)
	query := `INSERT INTO job_seekers (full_name, age, location, job_profile, experience_years, phone,
			last_salary, expected_salary, photo_bucket, photo_key, photo_url,
			resume_bucket, resume_key, resume_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id::text, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		s.FullName, s.Age, s.Location, s.JobProfile, s.ExperienceYears, s.Phone,
		s.LastSalary, s.ExpectedSalary, photoBucket, photoKey, photoURL,
		s.Resume.Bucket, s.Resume.Key, s.Resume.URL, string(s.Status),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *submissionRepo) CreateBusiness(ctx context.Context, s *domain.BusinessSubmission) error {
	logoBucket, logoKey, logoURL := refColumns(s.Logo)
	query := `INSERT INTO businesses (business_type, hotel_name, location, owner_name, contact_number,
			logo_bucket, logo_key, logo_url, document_bucket, document_key, document_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id::text, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		string(s.BusinessType), s.HotelName, s.Location, s.OwnerName, s.ContactNumber,
		logoBucket, logoKey, logoURL, s.Document.Bucket, s.Document.Key, s.Document.URL, string(s.Status),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *submissionRepo) List(ctx context.Context, kind domain.Kind, filter domain.ListFilter) ([]domain.Submission, error) {
	cat, err := category(kind)
	if err != nil {
		return nil, err
	}

	query, args := listQuery(cat, filter)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.Submission{}
	for rows.Next() {
		item, err := scanSubmission(cat, rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *submissionRepo) GetByID(ctx context.Context, kind domain.Kind, id string) (*domain.Submission, error) {
	cat, err := category(kind)
	if err != nil {
		return nil, err
	}
	// Ids are uuids; anything else cannot resolve
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}

	query, args := getQuery(cat, id)
	item, err := scanSubmission(cat, r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateStatus locks the row, writes the new status and appends the history
// entry in one transaction.
func (r *submissionRepo) UpdateStatus(ctx context.Context, change *domain.StatusChange) error {
	cat, err := category(change.Kind)
	if err != nil {
		return err
	}
	if _, err := uuid.Parse(change.SubmissionID); err != nil {
		return domain.ErrNotFound
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	lock, args := lockQuery(cat, change.SubmissionID)
	var old string
	err = tx.QueryRow(ctx, lock, args...).Scan(&old)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}

	update, args := updateStatusQuery(cat, change.SubmissionID, change.NewStatus)
	tag, err := tx.Exec(ctx, update, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	err = tx.QueryRow(ctx, `INSERT INTO submission_status_history (collection, submission_id, old_status, new_status, changed_by)
		VALUES ($1, $2, $3, $4, $5) RETURNING changed_at`,
		cat.Collection, change.SubmissionID, old, string(change.NewStatus), change.ChangedBy,
	).Scan(&change.ChangedAt)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	change.OldStatus = domain.Status(old)
	return nil
}

func (r *submissionRepo) ListStatusHistory(ctx context.Context, kind domain.Kind, id string) ([]domain.StatusChange, error) {
	cat, err := category(kind)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}

	rows, err := r.db.Query(ctx, `SELECT old_status, new_status, changed_by, changed_at
		FROM submission_status_history
		WHERE collection = $1 AND submission_id = $2
		ORDER BY changed_at ASC, id ASC`, cat.Collection, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := []domain.StatusChange{}
	for rows.Next() {
		var oldStatus, newStatus string
		c := domain.StatusChange{Kind: kind, SubmissionID: id}
		if err := rows.Scan(&oldStatus, &newStatus, &c.ChangedBy, &c.ChangedAt); err != nil {
			return nil, err
		}
		c.OldStatus, c.NewStatus = domain.Status(oldStatus), domain.Status(newStatus)
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

func (r *submissionRepo) CountByKind(ctx context.Context, tr domain.TimeRange) (map[domain.Kind]int64, error) {
	query, args := countQuery(tr)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Kind]int64)
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[domain.Kind(kind)] += n
	}
	return counts, rows.Err()
}

func category(kind domain.Kind) (domain.Category, error) {
	cat, ok := domain.CategoryFor(kind)
	if !ok {
		return domain.Category{}, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
	return cat, nil
}

func refColumns(ref *domain.AttachmentRef) (bucket, key, url *string) {
	if ref == nil {
		return nil, nil, nil
	}
	return &ref.Bucket, &ref.Key, &ref.URL
}

func refFrom(bucket, key, url *string) *domain.AttachmentRef {
	if key == nil {
		return nil
	}
	ref := &domain.AttachmentRef{Key: *key}
	if bucket != nil {
		ref.Bucket = *bucket
	}
	if url != nil {
		ref.URL = *url
	}
	return ref
}

func scanSubmission(cat domain.Category, row pgx.Row) (*domain.Submission, error) {
	var status string
	var attBucket, attKey, attURL *string

	if cat.IsBusiness {
		var b domain.BusinessSubmission
		var businessType string
		err := row.Scan(&b.ID, &businessType, &b.HotelName, &b.Location, &b.OwnerName, &b.ContactNumber,
			&attBucket, &attKey, &attURL, &b.Document.Bucket, &b.Document.Key, &b.Document.URL,
			&status, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}
		b.BusinessType = domain.Kind(businessType)
		b.Logo = refFrom(attBucket, attKey, attURL)
		b.Status = domain.Status(status)
		return &domain.Submission{Kind: b.BusinessType, Business: &b}, nil
	}

	var js domain.JobSeekerSubmission
	err := row.Scan(&js.ID, &js.FullName, &js.Age, &js.Location, &js.JobProfile, &js.ExperienceYears, &js.Phone,
		&js.LastSalary, &js.ExpectedSalary, &attBucket, &attKey, &attURL,
		&js.Resume.Bucket, &js.Resume.Key, &js.Resume.URL, &status, &js.CreatedAt, &js.UpdatedAt)
	if err != nil {
		return nil, err
	}
	js.Photo = refFrom(attBucket, attKey, attURL)
	js.Status = domain.Status(status)
	return &domain.Submission{Kind: domain.KindJobSeeker, JobSeeker: &js}, nil
}

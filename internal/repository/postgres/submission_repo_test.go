package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"banjara-intake-backend/internal/domain"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jobSeekerRowColumns = []string{
	"id", "full_name", "age", "location", "job_profile", "experience_years", "phone",
	"last_salary", "expected_salary", "photo_bucket", "photo_key", "photo_url",
	"resume_bucket", "resume_key", "resume_url", "status", "created_at", "updated_at",
}

var businessRowColumns = []string{
	"id", "business_type", "hotel_name", "location", "owner_name", "contact_number",
	"logo_bucket", "logo_key", "logo_url", "document_bucket", "document_key", "document_url",
	"status", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*submissionRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return newSubmissionRepository(mock), mock
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int { return &n }

func addJobSeekerRow(rows *pgxmock.Rows, js domain.JobSeekerSubmission) *pgxmock.Rows {
	var photoBucket, photoKey, photoURL *string
	if js.Photo != nil {
		photoBucket, photoKey, photoURL = &js.Photo.Bucket, &js.Photo.Key, &js.Photo.URL
	}
	return rows.AddRow(js.ID, js.FullName, js.Age, js.Location, js.JobProfile, js.ExperienceYears, js.Phone,
		js.LastSalary, js.ExpectedSalary, photoBucket, photoKey, photoURL,
		js.Resume.Bucket, js.Resume.Key, js.Resume.URL, string(js.Status), js.CreatedAt, js.UpdatedAt)
}

func TestSubmissionRepoList(t *testing.T) {
	ctx := context.Background()
	newer := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	older := newer.Add(-48 * time.Hour)

	t.Run("Should AND the search with the status and keep newest first", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		rows := pgxmock.NewRows(jobSeekerRowColumns)
		addJobSeekerRow(rows, domain.JobSeekerSubmission{ID: "js-new", FullName: "Ravi", Location: strPtr("MUMBAI"),
			JobProfile: "Cook", Phone: "98", Resume: domain.AttachmentRef{Key: "a.pdf"},
			Status: domain.StatusProcessing, CreatedAt: newer, UpdatedAt: newer})
		addJobSeekerRow(rows, domain.JobSeekerSubmission{ID: "js-old", FullName: "Mumbai Singh",
			JobProfile: "Driver", Phone: "97", Resume: domain.AttachmentRef{Key: "b.pdf"},
			Status: domain.StatusProcessing, CreatedAt: older, UpdatedAt: older})

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE (full_name ILIKE $1 ESCAPE '\' OR COALESCE(location, '') ILIKE $1 ESCAPE '\') AND status = $2 ORDER BY created_at DESC, id DESC`)).
			WithArgs("%mumbai%", "Processing").
			WillReturnRows(rows)

		items, err := repo.List(ctx, domain.KindJobSeeker, domain.ListFilter{Search: "mumbai", Status: domain.StatusProcessing})

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, []string{"js-new", "js-old"}, []string{items[0].ID(), items[1].ID()})
		assert.Equal(t, "MUMBAI", items[0].Location())
		assert.Equal(t, "", items[1].Location())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should scope a business listing to its type", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		rows := pgxmock.NewRows(businessRowColumns).
			AddRow("b-1", "ccg", "Lotus Inn", strPtr("Pune"), "Meera", "020 555",
				nil, nil, nil, "documents", "d.pdf", "https://files.example.com/documents/d.pdf",
				"New", newer, newer)
		mock.ExpectQuery(regexp.QuoteMeta(`FROM "businesses" WHERE business_type = $1 ORDER BY created_at DESC`)).
			WithArgs("ccg").
			WillReturnRows(rows)

		items, err := repo.List(ctx, domain.KindCCG, domain.ListFilter{})

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, domain.KindCCG, items[0].Kind)
		assert.Nil(t, items[0].Business.Logo)
		assert.Equal(t, "d.pdf", items[0].Business.Document.Key)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should return an empty slice when nothing matches", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT").WillReturnRows(pgxmock.NewRows(jobSeekerRowColumns))

		items, err := repo.List(ctx, domain.KindJobSeeker, domain.ListFilter{Search: "nobody"})

		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("Should reject an unknown kind without a query", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		_, err := repo.List(ctx, domain.Kind("spa"), domain.ListFilter{})

		assert.ErrorIs(t, err, domain.ErrUnknownKind)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSubmissionRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepo(t)
	const id = "6f1c0f5e-6c1b-4c55-9a57-3f0d9a1d2a11"
	created := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)

	in := &domain.JobSeekerSubmission{
		FullName:        "Asha Rao",
		Age:             intPtr(25),
		Location:        strPtr("Pune"),
		JobProfile:      "Chef",
		ExperienceYears: intPtr(3),
		Phone:           "call after 6pm",
		ExpectedSalary:  strPtr("30000"),
		Photo:           &domain.AttachmentRef{Bucket: "photos", Key: "p.png", URL: "https://files.example.com/photos/p.png"},
		Resume:          domain.AttachmentRef{Bucket: "resumes", Key: "r.pdf", URL: "https://files.example.com/resumes/r.pdf"},
		Status:          domain.StatusNew,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_seekers")).
		WithArgs("Asha Rao", in.Age, in.Location, "Chef", in.ExperienceYears, "call after 6pm",
			pgxmock.AnyArg(), in.ExpectedSalary, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			"resumes", "r.pdf", in.Resume.URL, "New").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id, created, created))

	require.NoError(t, repo.CreateJobSeeker(ctx, in))
	assert.Equal(t, id, in.ID)
	assert.Equal(t, created, in.CreatedAt)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "job_seekers" WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(addJobSeekerRow(pgxmock.NewRows(jobSeekerRowColumns), *in))

	got, err := repo.GetByID(ctx, domain.KindJobSeeker, id)

	require.NoError(t, err)
	assert.Equal(t, domain.KindJobSeeker, got.Kind)
	assert.Equal(t, in, got.JobSeeker)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepoGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Should map a missing row to not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT").WillReturnRows(pgxmock.NewRows(businessRowColumns))

		_, err := repo.GetByID(ctx, domain.KindStaff, "6f1c0f5e-6c1b-4c55-9a57-3f0d9a1d2a11")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Should not query for a malformed id", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		_, err := repo.GetByID(ctx, domain.KindStaff, "42")

		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSubmissionRepoUpdateStatus(t *testing.T) {
	ctx := context.Background()
	const id = "6f1c0f5e-6c1b-4c55-9a57-3f0d9a1d2a11"

	t.Run("Should return not found and roll back when the row is missing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM "businesses" WHERE business_type = $1 AND id = $2 FOR UPDATE`)).
			WithArgs("kitchen", id).
			WillReturnRows(pgxmock.NewRows([]string{"status"}))
		mock.ExpectRollback()

		err := repo.UpdateStatus(ctx, &domain.StatusChange{Kind: domain.KindKitchen, SubmissionID: id, NewStatus: domain.StatusHired})

		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should write the status and history in one transaction", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		changedAt := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WithArgs(id).
			WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("New"))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "job_seekers" SET status = $1`)).
			WithArgs("Contacted", id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery("INSERT INTO submission_status_history").
			WithArgs(domain.CollectionJobSeekers, id, "New", "Contacted", "reviewer").
			WillReturnRows(pgxmock.NewRows([]string{"changed_at"}).AddRow(changedAt))
		mock.ExpectCommit()

		change := &domain.StatusChange{Kind: domain.KindJobSeeker, SubmissionID: id, NewStatus: domain.StatusContacted, ChangedBy: "reviewer"}
		err := repo.UpdateStatus(ctx, change)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusNew, change.OldStatus)
		assert.Equal(t, changedAt, change.ChangedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should surface a failed history insert", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("New"))
		mock.ExpectExec("UPDATE").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery("INSERT INTO submission_status_history").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		change := &domain.StatusChange{Kind: domain.KindJobSeeker, SubmissionID: id, NewStatus: domain.StatusHired}
		err := repo.UpdateStatus(ctx, change)

		assert.EqualError(t, err, "disk full")
		assert.Empty(t, change.OldStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSubmissionRepoCountByKind(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 5, 23, 59, 59, 0, time.UTC)
	tr := domain.TimeRange{From: from, To: to}

	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE created_at >= $1 AND created_at <= $2")).
		WithArgs(from, to).
		WillReturnRows(pgxmock.NewRows([]string{"kind", "count"}).
			AddRow("job_seeker", int64(4)).
			AddRow("staff", int64(2)).
			AddRow("ccg", int64(1)))

	counts, err := repo.CountByKind(ctx, tr)

	require.NoError(t, err)
	assert.Equal(t, map[domain.Kind]int64{domain.KindJobSeeker: 4, domain.KindStaff: 2, domain.KindCCG: 1}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

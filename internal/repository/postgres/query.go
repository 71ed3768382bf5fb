package postgres

import (
	"fmt"
	"strings"

	"banjara-intake-backend/internal/domain"

	"github.com/lib/pq"
)

const jobSeekerColumns = `id::text, full_name, age, location, job_profile, experience_years, phone,
	last_salary, expected_salary, photo_bucket, photo_key, photo_url,
	resume_bucket, resume_key, resume_url, status, created_at, updated_at`

const businessColumns = `id::text, business_type, hotel_name, location, owner_name, contact_number,
	logo_bucket, logo_key, logo_url, document_bucket, document_key, document_url,
	status, created_at, updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user text match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func tableFor(cat domain.Category) string {
	return pq.QuoteIdentifier(cat.Collection)
}

func columnsFor(cat domain.Category) string {
	if cat.IsBusiness {
		return businessColumns
	}
	return jobSeekerColumns
}

func nameColumn(cat domain.Category) string {
	if cat.IsBusiness {
		return "hotel_name"
	}
	return "full_name"
}

// whereBuilder collects AND-ed conditions with numbered placeholders.
type whereBuilder struct {
	conds []string
	args  []interface{}
}

func (w *whereBuilder) add(cond string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// scope restricts business queries to one business_type.
func scope(cat domain.Category) *whereBuilder {
	w := &whereBuilder{}
	if cat.IsBusiness {
		w.add("business_type = ?", string(cat.Kind))
	}
	return w
}

// listQuery selects a category listing, newest first. Search matches the
// name or the location case-insensitively; the status filter is exact.
func listQuery(cat domain.Category, f domain.ListFilter) (string, []interface{}) {
	w := scope(cat)
	if f.Search != "" {
		w.add(fmt.Sprintf(`(%s ILIKE ? ESCAPE '\' OR COALESCE(location, '') ILIKE ? ESCAPE '\')`, nameColumn(cat)),
			"%"+escapeLike(f.Search)+"%")
	}
	if f.Status != "" {
		w.add("status = ?", string(f.Status))
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY created_at DESC, id DESC",
		columnsFor(cat), tableFor(cat), w.sql())
	return query, w.args
}

func getQuery(cat domain.Category, id string) (string, []interface{}) {
	w := scope(cat)
	w.add("id = ?", id)
	return fmt.Sprintf("SELECT %s FROM %s%s", columnsFor(cat), tableFor(cat), w.sql()), w.args
}

// countQuery counts job seekers and businesses created inside r in a single
// round trip. Rows are (kind, count).
func countQuery(r domain.TimeRange) (string, []interface{}) {
	w := &whereBuilder{}
	if !r.From.IsZero() {
		w.add("created_at >= ?", r.From)
	}
	if !r.To.IsZero() {
		w.add("created_at <= ?", r.To)
	}
	where := w.sql()

	query := fmt.Sprintf(`SELECT '%s' AS kind, COUNT(*) FROM %s%s
		UNION ALL
		SELECT business_type, COUNT(*) FROM %s%s GROUP BY business_type`,
		domain.KindJobSeeker, pq.QuoteIdentifier(domain.CollectionJobSeekers), where,
		pq.QuoteIdentifier(domain.CollectionBusinesses), where)
	return query, w.args
}

func lockQuery(cat domain.Category, id string) (string, []interface{}) {
	w := scope(cat)
	w.add("id = ?", id)
	return fmt.Sprintf("SELECT status FROM %s%s FOR UPDATE", tableFor(cat), w.sql()), w.args
}

// updateStatusQuery binds the new status as $1.
func updateStatusQuery(cat domain.Category, id string, status domain.Status) (string, []interface{}) {
	w := &whereBuilder{args: []interface{}{string(status)}}
	if cat.IsBusiness {
		w.add("business_type = ?", string(cat.Kind))
	}
	w.add("id = ?", id)
	return fmt.Sprintf("UPDATE %s SET status = $1, updated_at = NOW()%s", tableFor(cat), w.sql()), w.args
}

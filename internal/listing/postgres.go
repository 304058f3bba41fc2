package listing

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore reads postings from the live_jobs view.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a configured PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postingColumns = `id::text, title, company_name, company_slug, department_tag, location, url, created_at`

// Search implements Store. The count and the page are sent as one batch, so
// the total arrives in the same round trip even when the page is past the end.
func (s *PostgresStore) Search(ctx context.Context, c Criteria) ([]Posting, int, error) {
	countSQL, pageSQL, args, pageArgs := buildSearchSQL(c)

	batch := &pgx.Batch{}
	batch.Queue(countSQL, args...)
	batch.Queue(pageSQL, pageArgs...)

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	var total int64
	if err := br.QueryRow().Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count postings")
	}

	rows, err := br.Query()
	if err != nil {
		return nil, 0, errors.Wrap(err, "query postings")
	}
	postings, err := pgx.CollectRows(rows, scanPosting)
	if err != nil {
		return nil, 0, errors.Wrap(err, "scan postings")
	}

	return postings, int(total), nil
}

// CompanyRows implements Store.
func (s *PostgresStore) CompanyRows(ctx context.Context) ([]CompanyOption, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT company_slug, company_name FROM live_jobs ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "query companies")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (CompanyOption, error) {
		var c CompanyOption
		err := row.Scan(&c.Slug, &c.Name)
		return c, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan companies")
	}
	return out, nil
}

func scanPosting(row pgx.CollectableRow) (Posting, error) {
	var p Posting
	err := row.Scan(
		&p.ID, &p.Title, &p.CompanyName, &p.CompanySlug,
		&p.DepartmentTag, &p.Location, &p.URL, &p.CreatedAt,
	)
	return p, err
}

// buildSearchSQL renders the count and page statements for c. args belong to
// the count statement; pageArgs extend them with LIMIT and OFFSET.
func buildSearchSQL(c Criteria) (countSQL, pageSQL string, args, pageArgs []any) {
	var conds []string

	if len(c.Departments) > 0 {
		args = append(args, c.Departments)
		conds = append(conds, fmt.Sprintf("department_tag = ANY($%d)", len(args)))
	}
	if len(c.Companies) > 0 {
		args = append(args, c.Companies)
		conds = append(conds, fmt.Sprintf("company_slug = ANY($%d)", len(args)))
	}
	if c.Search != "" {
		args = append(args, "%"+escapeLike(c.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(title ILIKE $%[1]d OR company_name ILIKE $%[1]d OR location ILIKE $%[1]d OR department_tag ILIKE $%[1]d)`, n))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	limit := c.Limit
	if limit <= 0 {
		limit = PageSize
	}
	offset := c.Offset
	if offset < 0 {
		offset = 0
	}

	pageArgs = append(append(make([]any, 0, len(args)+2), args...), limit, offset)

	countSQL = `SELECT COUNT(*) FROM live_jobs` + where
	pageSQL = `SELECT ` + postingColumns + ` FROM live_jobs` + where +
		fmt.Sprintf(` ORDER BY company_name ASC, title ASC, id ASC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	return countSQL, pageSQL, args, pageArgs
}

// escapeLike makes LIKE metacharacters in s literal. Backslash is the default
// LIKE escape character in Postgres.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

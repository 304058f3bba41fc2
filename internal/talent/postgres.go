package talent

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Repository = (*PostgresRepository)(nil)

// PostgresRepository stores profiles in talent_profiles and resume files in
// talent_resumes.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a configured PostgresRepository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create implements Repository. The resume and the profile are written in
// one transaction so a profile never points at a missing file.
func (r *PostgresRepository) Create(ctx context.Context, p Profile, resume *Resume) (Profile, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Profile{}, errors.Wrap(err, "begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if resume != nil {
		_, err = tx.Exec(ctx,
			`INSERT INTO talent_resumes (path, content_type, size_bytes, content)
			 VALUES ($1, $2, $3, $4)`,
			resume.Path, resume.ContentType, len(resume.Content), resume.Content,
		)
		if err != nil {
			return Profile{}, errors.Wrap(err, "insert resume")
		}
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO talent_profiles (id, full_name, email, linkedin_url, location, departments, resume_path)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		p.ID, p.FullName, p.Email, p.LinkedInURL, p.Location, p.Departments, p.ResumePath,
	).Scan(&p.CreatedAt)
	if err != nil {
		return Profile{}, errors.Wrap(err, "insert profile")
	}

	if err := tx.Commit(ctx); err != nil {
		return Profile{}, errors.Wrap(err, "commit")
	}
	return p, nil
}

// List implements Repository.
func (r *PostgresRepository) List(ctx context.Context) ([]Profile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id::text, full_name, email, linkedin_url, location, departments, resume_path, created_at
		 FROM talent_profiles
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "query profiles")
	}

	profiles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Profile, error) {
		var p Profile
		err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.LinkedInURL, &p.Location,
			&p.Departments, &p.ResumePath, &p.CreatedAt)
		return p, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan profiles")
	}
	return profiles, nil
}

// Resume implements Repository.
func (r *PostgresRepository) Resume(ctx context.Context, path string) (Resume, error) {
	res := Resume{Path: path}
	err := r.pool.QueryRow(ctx,
		`SELECT content_type, content FROM talent_resumes WHERE path = $1`, path,
	).Scan(&res.ContentType, &res.Content)
	if errors.Is(err, pgx.ErrNoRows) {
		return Resume{}, ErrNotFound
	}
	if err != nil {
		return Resume{}, errors.Wrap(err, "query resume")
	}
	return res, nil
}

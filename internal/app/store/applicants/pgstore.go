package applicantstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/hackreg/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is the PostgreSQL-backed applicant store.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// ConnectPG opens a pool for dsn and pings it.
func ConnectPG(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

const pgSchema = `
CREATE TABLE IF NOT EXISTS applicants (
	id              TEXT PRIMARY KEY,
	created_at      TIMESTAMPTZ NOT NULL,
	full_name       TEXT NOT NULL,
	email           TEXT NOT NULL,
	email_ci        TEXT NOT NULL,
	university      TEXT NOT NULL DEFAULT '',
	track_selection TEXT NOT NULL CHECK (track_selection IN ('beginner', 'advanced')),
	skills          TEXT[] NOT NULL DEFAULT '{}',
	experience      TEXT NOT NULL,
	motivation      TEXT NOT NULL,
	github_url      TEXT NOT NULL DEFAULT '',
	linkedin_url    TEXT NOT NULL DEFAULT '',
	portfolio_url   TEXT NOT NULL DEFAULT '',
	team_preference TEXT NOT NULL,
	team_members    TEXT[],
	CONSTRAINT applicants_email_ci_key UNIQUE (email_ci)
);
CREATE INDEX IF NOT EXISTS applicants_created_at_idx ON applicants (created_at DESC);
`

// EnsureSchema creates the applicants table and its indexes if missing.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, pgSchema); err != nil {
		return fmt.Errorf("ensure applicants table: %w", err)
	}
	return nil
}

// Ping checks the pool can reach the server.
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const pgColumns = `id, created_at, full_name, email, email_ci, university,
	track_selection, skills, experience, motivation,
	github_url, linkedin_url, portfolio_url, team_preference, team_members`

func scanApplication(row pgx.Row) (models.Application, error) {
	var a models.Application
	err := row.Scan(
		&a.ID, &a.CreatedAt, &a.FullName, &a.Email, &a.EmailCI, &a.University,
		&a.Track, &a.Skills, &a.Experience, &a.Motivation,
		&a.GithubURL, &a.LinkedinURL, &a.PortfolioURL, &a.TeamPreference, &a.TeamMembers,
	)
	a.CreatedAt = a.CreatedAt.UTC()
	return a, err
}

func (s *PGStore) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM applicants WHERE email_ci = $1)`,
		text.Fold(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check applicant email: %w", err)
	}
	return exists, nil
}

func (s *PGStore) Insert(ctx context.Context, app models.Application) (models.Application, error) {
	app = prepare(app, now())
	_, err := s.pool.Exec(ctx, `
		INSERT INTO applicants (`+pgColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		app.ID, app.CreatedAt, app.FullName, app.Email, app.EmailCI, app.University,
		app.Track, app.Skills, app.Experience, app.Motivation,
		app.GithubURL, app.LinkedinURL, app.PortfolioURL, app.TeamPreference, app.TeamMembers,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Application{}, ErrDuplicateEmail
		}
		return models.Application{}, fmt.Errorf("insert applicant: %w", err)
	}
	return app, nil
}

func (s *PGStore) ListAll(ctx context.Context) ([]models.Application, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+pgColumns+` FROM applicants ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan applicant: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	return apps, nil
}

func (s *PGStore) GetByID(ctx context.Context, id string) (models.Application, error) {
	a, err := scanApplication(s.pool.QueryRow(ctx, `SELECT `+pgColumns+` FROM applicants WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Application{}, ErrNotFound
		}
		return models.Application{}, fmt.Errorf("get applicant: %w", err)
	}
	return a, nil
}

func (s *PGStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM applicants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count applicants: %w", err)
	}
	return n, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

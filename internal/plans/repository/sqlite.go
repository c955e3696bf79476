package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/plans/models"
)

// ============================================================
// SQLite Repository
// ============================================================

var ErrNotFound = errors.New("not found")

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init applies the schema migration.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// ============================================================
// Projects
// ============================================================

func (r *Repository) CreateProject(ctx context.Context, p models.Project) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO projects (id, name, address, created_at)
        VALUES (?, ?, ?, datetime('now'))
    `, p.ID, p.Name, p.Address)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *Repository) GetProject(ctx context.Context, id string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, address, created_at
        FROM projects
        WHERE id = ?
    `, id)

	var p models.Project
	if err := row.Scan(&p.ID, &p.Name, &p.Address, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, address, created_at
        FROM projects
        ORDER BY created_at DESC, id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM revisions WHERE project_id = ?`, id)
	return err
}

// ============================================================
// Revisions
// ============================================================

func (r *Repository) AddRevision(ctx context.Context, rev models.Revision) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO revisions (id, project_id, saved_at, preview)
        VALUES (?, ?, ?, ?)
    `, rev.ID, rev.ProjectID, rev.SavedAt, rev.Preview)
	if err != nil {
		return fmt.Errorf("insert revision: %w", err)
	}
	return nil
}

func (r *Repository) LatestRevision(ctx context.Context, projectID string) (*models.Revision, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, project_id, saved_at, preview
        FROM revisions
        WHERE project_id = ?
        ORDER BY saved_at DESC, id DESC
        LIMIT 1
    `, projectID)

	var rev models.Revision
	if err := row.Scan(&rev.ID, &rev.ProjectID, &rev.SavedAt, &rev.Preview); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// ============================================================
// Connection
// ============================================================

// OpenSQLite opens the database at the given path, creating the
// directory if needed.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/plans/models"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	repo := New(db)
	if err := repo.Init(context.Background(), "../../../migrations/001_init_plans.sql"); err != nil {
		t.Fatalf("init: %v", err)
	}
	return repo
}

func TestProjectRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := models.Project{ID: "p1", Name: "Beach house", Address: "1 Shore Rd"}
	if err := repo.CreateProject(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetProject(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Beach house" || got.Address != "1 Shore Rd" {
		t.Fatalf("project = %+v", got)
	}
	if got.CreatedAt == "" {
		t.Fatal("created_at should be set by the database")
	}

	list, err := repo.ListProjects(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %v, %v", list, err)
	}
}

func TestGetMissingProject(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetProject(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRevisions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateProject(ctx, models.Project{ID: "p1", Name: "Flat"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	revs := []models.Revision{
		{ID: "r1", ProjectID: "p1", SavedAt: "2026-08-01T10:00:00Z", Preview: "preview.png"},
		{ID: "r2", ProjectID: "p1", SavedAt: "2026-08-02T09:30:00Z", Preview: "preview.png"},
	}
	for _, rev := range revs {
		if err := repo.AddRevision(ctx, rev); err != nil {
			t.Fatalf("add revision: %v", err)
		}
	}

	latest, err := repo.LatestRevision(ctx, "p1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != "r2" {
		t.Fatalf("latest = %+v, want r2", latest)
	}

	if err := repo.DeleteProject(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.LatestRevision(ctx, "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("revisions should be gone with the project, err = %v", err)
	}
}

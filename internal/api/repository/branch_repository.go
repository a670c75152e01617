package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("repository.library")

// BranchRepository defines the interface for branch lookups.
type BranchRepository interface {
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name, address string) error
}

type sqliteBranchRepository struct {
	db *sqlx.DB
}

// NewBranchRepository creates a new SQLite-based BranchRepository.
func NewBranchRepository(db *sqlx.DB) BranchRepository {
	return &sqliteBranchRepository{db: db}
}

// Exists reports whether a branch with the given name exists.
func (r *sqliteBranchRepository) Exists(ctx context.Context, name string) (bool, error) {
	ctx, span := tracer.Start(ctx, "BranchRepository.Exists")
	defer span.End()

	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM branches WHERE name = ?`, name); err != nil {
		return false, fmt.Errorf("failed to check branch: %w", err)
	}
	return count > 0, nil
}

// Create inserts a branch; existing branches are left untouched.
func (r *sqliteBranchRepository) Create(ctx context.Context, name, address string) error {
	ctx, span := tracer.Start(ctx, "BranchRepository.Create")
	defer span.End()

	if _, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO branches (name, address) VALUES (?, ?)`, name, address); err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

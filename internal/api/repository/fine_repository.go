package repository

import (
	"context"
	"fmt"
	"time"

	"openshelf/library-management/internal/api/models"

	"github.com/jmoiron/sqlx"
)

// FineRepository defines the interface for fine balances and payments.
// Fines are accrued by LoanRepository.CloseIssue; this repository reads
// balances and records payments.
type FineRepository interface {
	OutstandingByUser(ctx context.Context, userID int64) (float64, error)
	ListPayments(ctx context.Context, userID int64) ([]models.FinePayment, error)
	AddPayment(ctx context.Context, userID int64, amount float64, paidAt time.Time) error
}

type sqliteFineRepository struct {
	db *sqlx.DB
}

// NewFineRepository creates a new SQLite-based FineRepository.
func NewFineRepository(db *sqlx.DB) FineRepository {
	return &sqliteFineRepository{db: db}
}

// OutstandingByUser returns the user's accrued fines minus recorded payments.
func (r *sqliteFineRepository) OutstandingByUser(ctx context.Context, userID int64) (float64, error) {
	ctx, span := tracer.Start(ctx, "FineRepository.OutstandingByUser")
	defer span.End()

	var outstanding float64
	query := `SELECT COALESCE((SELECT SUM(amount) FROM fines WHERE user_id = ?), 0)
	               - COALESCE((SELECT SUM(amount) FROM fine_payments WHERE user_id = ?), 0)`
	if err := r.db.GetContext(ctx, &outstanding, query, userID, userID); err != nil {
		return 0, fmt.Errorf("failed to compute outstanding fines: %w", err)
	}
	return outstanding, nil
}

// ListPayments returns the user's payment history, most recent first.
func (r *sqliteFineRepository) ListPayments(ctx context.Context, userID int64) ([]models.FinePayment, error) {
	ctx, span := tracer.Start(ctx, "FineRepository.ListPayments")
	defer span.End()

	payments := []models.FinePayment{}
	query := `SELECT payment_id, user_id, amount, paid_at
	          FROM fine_payments WHERE user_id = ? ORDER BY paid_at DESC`
	if err := r.db.SelectContext(ctx, &payments, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list fine payments: %w", err)
	}
	return payments, nil
}

// AddPayment records a payment toward the user's outstanding fines.
func (r *sqliteFineRepository) AddPayment(ctx context.Context, userID int64, amount float64, paidAt time.Time) error {
	ctx, span := tracer.Start(ctx, "FineRepository.AddPayment")
	defer span.End()

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO fine_payments (user_id, amount, paid_at) VALUES (?, ?, ?)`,
		userID, amount, paidAt); err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFineRepositoryOutstanding(t *testing.T) {
	pool := newTestDB(t)
	loans := NewLoanRepository(pool)
	fines := NewFineRepository(pool)
	ctx := context.Background()

	user := seedUser(t, pool, "late", nil)
	bookID := seedBook(t, pool, "Dune", 1)

	outstanding, err := fines.OutstandingByUser(ctx, user.UserID)
	require.NoError(t, err)
	require.Zero(t, outstanding)

	issueDate := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issue, err := loans.Borrow(ctx, user.UserID, bookID, "Central", issueDate, issueDate.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.NoError(t, loans.CloseIssue(ctx, issue, issueDate.AddDate(0, 0, 20), 1.50))

	outstanding, err = fines.OutstandingByUser(ctx, user.UserID)
	require.NoError(t, err)
	require.Equal(t, 1.50, outstanding)

	require.NoError(t, fines.AddPayment(ctx, user.UserID, 1.00, issueDate.AddDate(0, 0, 21)))

	outstanding, err = fines.OutstandingByUser(ctx, user.UserID)
	require.NoError(t, err)
	require.InDelta(t, 0.50, outstanding, 1e-9)
}

func TestFineRepositoryListPayments(t *testing.T) {
	pool := newTestDB(t)
	fines := NewFineRepository(pool)
	ctx := context.Background()

	user := seedUser(t, pool, "payer", nil)

	payments, err := fines.ListPayments(ctx, user.UserID)
	require.NoError(t, err)
	require.Empty(t, payments)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, fines.AddPayment(ctx, user.UserID, 0.25, base))
	require.NoError(t, fines.AddPayment(ctx, user.UserID, 0.75, base.Add(time.Hour)))

	payments, err = fines.ListPayments(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	// Most recent first.
	require.Equal(t, 0.75, payments[0].Amount)
	require.Equal(t, 0.25, payments[1].Amount)
}

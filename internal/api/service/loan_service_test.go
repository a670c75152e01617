package service

import (
	"context"
	"testing"
	"time"

	apirepository "openshelf/library-management/internal/api/repository"
	"openshelf/library-management/internal/config"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var loanTestNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newLoanService(t *testing.T, pool *sqlx.DB, policy config.LoanPolicy, notifier Notifier) *loanService {
	t.Helper()

	svc := NewLoanService(
		apirepository.NewLoanRepository(pool),
		apirepository.NewUserRepository(pool),
		policy,
		notifier,
	).(*loanService)
	svc.now = func() time.Time { return loanTestNow }
	return svc
}

func TestRequestBook(t *testing.T) {
	pool := newTestDB(t)
	notifier := &captureNotifier{}
	svc := newLoanService(t, pool, testPolicy, notifier)
	ctx := context.Background()

	branch := "Central"
	user := seedUser(t, pool, "reader", &branch)
	bookID := seedBook(t, pool, "Dune", 1)

	result, err := svc.Request(ctx, user.UserID, bookID)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "Book issued successfully", result.Message)
	require.Len(t, notifier.all(), 1)
	require.Contains(t, notifier.all()[0], "Due back on 15 Mar 2025")

	// The only copy is now out.
	result, err = svc.Request(ctx, user.UserID, bookID)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "Book is not available", result.Message)

	result, err = svc.Request(ctx, user.UserID, 999)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "Book not found", result.Message)
}

func TestRequestBookWithoutBranch(t *testing.T) {
	pool := newTestDB(t)
	svc := newLoanService(t, pool, testPolicy, nil)
	ctx := context.Background()

	user := seedUser(t, pool, "homeless", nil)
	bookID := seedBook(t, pool, "Dune", 1)

	result, err := svc.Request(ctx, user.UserID, bookID)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "User branch not found.", result.Message)

	// An unknown user gets the same rejection.
	result, err = svc.Request(ctx, 999, bookID)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "User branch not found.", result.Message)
}

func TestRequestBookLoanLimit(t *testing.T) {
	pool := newTestDB(t)
	policy := testPolicy
	policy.MaxActiveLoans = 1
	svc := newLoanService(t, pool, policy, nil)
	ctx := context.Background()

	branch := "Central"
	user := seedUser(t, pool, "reader", &branch)
	first := seedBook(t, pool, "Dune", 1)
	second := seedBook(t, pool, "Hyperion", 1)

	result, err := svc.Request(ctx, user.UserID, first)
	require.NoError(t, err)
	require.True(t, result.Success)

	result, err = svc.Request(ctx, user.UserID, second)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "Loan limit reached (1 books)", result.Message)
}

func TestReturnBookOnTime(t *testing.T) {
	pool := newTestDB(t)
	svc := newLoanService(t, pool, testPolicy, nil)
	ctx := context.Background()

	branch := "Central"
	user := seedUser(t, pool, "reader", &branch)
	bookID := seedBook(t, pool, "Dune", 1)

	result, err := svc.Request(ctx, user.UserID, bookID)
	require.NoError(t, err)
	require.True(t, result.Success)

	issue, err := apirepository.NewLoanRepository(pool).GetIssue(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, issue)

	ret, err := svc.Return(ctx, issue.IssueID, bookID)
	require.NoError(t, err)
	require.True(t, ret.Success)
	require.Equal(t, "Book returned successfully", ret.Message)
	require.Zero(t, ret.FineAmount)

	// Returning again is rejected, still carrying a zero fine.
	ret, err = svc.Return(ctx, issue.IssueID, bookID)
	require.NoError(t, err)
	require.False(t, ret.Success)
	require.Equal(t, "Book already returned", ret.Message)
	require.Zero(t, ret.FineAmount)
}

func TestReturnBookLate(t *testing.T) {
	pool := newTestDB(t)
	svc := newLoanService(t, pool, testPolicy, nil)
	ctx := context.Background()

	branch := "Central"
	user := seedUser(t, pool, "reader", &branch)
	bookID := seedBook(t, pool, "Dune", 1)

	result, err := svc.Request(ctx, user.UserID, bookID)
	require.NoError(t, err)
	require.True(t, result.Success)

	// Move the clock 16 days forward: two days past the 14-day loan.
	svc.now = func() time.Time { return loanTestNow.AddDate(0, 0, 16) }

	ret, err := svc.Return(ctx, 1, bookID)
	require.NoError(t, err)
	require.True(t, ret.Success)
	require.Equal(t, "Book returned 2 day(s) late", ret.Message)
	require.Equal(t, 0.50, ret.FineAmount)

	outstanding, err := apirepository.NewFineRepository(pool).OutstandingByUser(ctx, user.UserID)
	require.NoError(t, err)
	require.Equal(t, 0.50, outstanding)
}

func TestReturnBookMismatches(t *testing.T) {
	pool := newTestDB(t)
	svc := newLoanService(t, pool, testPolicy, nil)
	ctx := context.Background()

	branch := "Central"
	user := seedUser(t, pool, "reader", &branch)
	bookID := seedBook(t, pool, "Dune", 1)

	result, err := svc.Request(ctx, user.UserID, bookID)
	require.NoError(t, err)
	require.True(t, result.Success)

	ret, err := svc.Return(ctx, 999, bookID)
	require.NoError(t, err)
	require.False(t, ret.Success)
	require.Equal(t, "Issue record not found", ret.Message)

	ret, err = svc.Return(ctx, 1, bookID+1)
	require.NoError(t, err)
	require.False(t, ret.Success)
	require.Equal(t, "Issue record does not match the specified book", ret.Message)
}

func TestBorrowedListing(t *testing.T) {
	pool := newTestDB(t)
	svc := newLoanService(t, pool, testPolicy, nil)
	ctx := context.Background()

	branch := "Central"
	user := seedUser(t, pool, "reader", &branch)
	bookID := seedBook(t, pool, "Dune", 1)

	borrowed, err := svc.Borrowed(ctx, user.UserID)
	require.NoError(t, err)
	require.Empty(t, borrowed)

	result, err := svc.Request(ctx, user.UserID, bookID)
	require.NoError(t, err)
	require.True(t, result.Success)

	borrowed, err = svc.Borrowed(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, borrowed, 1)
	require.Equal(t, "Dune", borrowed[0].Title)
}

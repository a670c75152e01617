package service

import (
	"context"
	"testing"
	"time"

	"openshelf/library-management/internal/api/models"
	apirepository "openshelf/library-management/internal/api/repository"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newBookService(t *testing.T, pool *sqlx.DB) BookService {
	t.Helper()

	return NewBookService(
		apirepository.NewBookRepository(pool),
		apirepository.NewLoanRepository(pool),
		apirepository.NewBranchRepository(pool),
		nil, // no catalog cache in unit tests
	)
}

func intPtr(v int) *int { return &v }

func TestAddBook(t *testing.T) {
	pool := newTestDB(t)
	svc := newBookService(t, pool)
	ctx := context.Background()

	result, err := svc.Add(ctx, &models.AddBookRequest{
		ISBN:            "978-0441013593",
		Title:           "Dune",
		Author:          "Frank Herbert",
		AvailableCopies: intPtr(2),
		BranchName:      "Central",
		LostCost:        12.50,
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "Book added successfully", result.Message)
	require.NotZero(t, result.BookID)

	books, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "Dune", books[0].Title)
}

func TestAddBookUnknownBranch(t *testing.T) {
	pool := newTestDB(t)
	svc := newBookService(t, pool)

	result, err := svc.Add(context.Background(), &models.AddBookRequest{
		ISBN:            "978-0441013593",
		Title:           "Dune",
		Author:          "Frank Herbert",
		AvailableCopies: intPtr(2),
		BranchName:      "Atlantis",
	})
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "Specified branch does not exist", result.Message)
}

func TestUpdateBook(t *testing.T) {
	pool := newTestDB(t)
	svc := newBookService(t, pool)
	ctx := context.Background()

	added, err := svc.Add(ctx, &models.AddBookRequest{
		ISBN:            "978-0441013593",
		Title:           "Dune",
		Author:          "Frank Herbert",
		AvailableCopies: intPtr(2),
		BranchName:      "Central",
		LostCost:        12.50,
	})
	require.NoError(t, err)
	require.True(t, added.Success)

	result, err := svc.Update(ctx, added.BookID, &models.UpdateBookRequest{
		ISBN:            "978-0441013593",
		Title:           "Dune (Deluxe)",
		Author:          "Frank Herbert",
		AvailableCopies: intPtr(5),
		BranchName:      "Central",
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "Book updated successfully", result.Message)

	book, err := apirepository.NewBookRepository(pool).GetByID(ctx, added.BookID)
	require.NoError(t, err)
	require.Equal(t, "Dune (Deluxe)", book.Title)
	require.Equal(t, 5, book.AvailableCopies)
	// The replacement cost survives updates untouched.
	require.Equal(t, 12.50, book.LostCost)
}

func TestUpdateBookNotFound(t *testing.T) {
	pool := newTestDB(t)
	svc := newBookService(t, pool)

	result, err := svc.Update(context.Background(), 42, &models.UpdateBookRequest{
		ISBN:            "978-0441013593",
		Title:           "Dune",
		Author:          "Frank Herbert",
		AvailableCopies: intPtr(1),
		BranchName:      "Central",
	})
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "Book not found", result.Message)
}

func TestDeleteBook(t *testing.T) {
	pool := newTestDB(t)
	svc := newBookService(t, pool)
	ctx := context.Background()

	added, err := svc.Add(ctx, &models.AddBookRequest{
		ISBN:            "978-0441013593",
		Title:           "Dune",
		Author:          "Frank Herbert",
		AvailableCopies: intPtr(1),
		BranchName:      "Central",
	})
	require.NoError(t, err)

	result, err := svc.Delete(ctx, added.BookID)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "Book deleted successfully", result.Message)

	result, err = svc.Delete(ctx, added.BookID)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "Book not found", result.Message)
}

func TestDeleteBookWithActiveLoan(t *testing.T) {
	pool := newTestDB(t)
	svc := newBookService(t, pool)
	ctx := context.Background()

	branch := "Central"
	user := seedUser(t, pool, "reader", &branch)
	bookID := seedBook(t, pool, "Dune", 1)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err := apirepository.NewLoanRepository(pool).Borrow(ctx, user.UserID, bookID, "Central", now, now.AddDate(0, 0, 14))
	require.NoError(t, err)

	result, err := svc.Delete(ctx, bookID)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, "Book has active loans and cannot be deleted", result.Message)
}

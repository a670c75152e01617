package service

import (
	"context"
	"sync"
	"testing"

	"openshelf/library-management/internal/api/models"
	apirepository "openshelf/library-management/internal/api/repository"
	"openshelf/library-management/internal/config"
	"openshelf/library-management/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var testPolicy = config.LoanPolicy{
	PeriodDays:     14,
	FinePerDay:     0.25,
	MaxActiveLoans: 3,
}

// newTestDB opens an in-memory SQLite database with the full schema, pinned
// to a single connection.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	pool, err := db.Connect(":memory:")
	require.NoError(t, err)
	pool.SetMaxOpenConns(1)
	require.NoError(t, db.Initialize(pool))
	t.Cleanup(func() { pool.Close() })
	return pool
}

func seedUser(t *testing.T, pool *sqlx.DB, username string, branch *string) *models.User {
	t.Helper()

	repo := apirepository.NewUserRepository(pool)
	user := &models.User{
		Name:       "Test User",
		Username:   username,
		BranchName: branch,
	}
	require.NoError(t, repo.CreateWithCard(context.Background(), user, "secret", "LIB-"+username))
	return user
}

func seedBook(t *testing.T, pool *sqlx.DB, title string, copies int) int64 {
	t.Helper()

	repo := apirepository.NewBookRepository(pool)
	id, err := repo.Create(context.Background(), &models.Book{
		ISBN:            "978-0000000000",
		Title:           title,
		Author:          "Anonymous",
		AvailableCopies: copies,
		BranchName:      "Central",
	})
	require.NoError(t, err)
	return id
}

// captureNotifier records every notification it is handed.
type captureNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (c *captureNotifier) Notify(_ context.Context, _ int64, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
}

func (c *captureNotifier) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages...)
}

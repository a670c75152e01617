package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "enchantress" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true, "userId": 7, "cardNo": "LIB-ABCD1234",
			"token": "tok", "message": "Login successful",
		})
	})
	mux.HandleFunc("GET /api/books", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Book{
			{BookID: 1, ISBN: "978-0441013593", Title: "Dune", Author: "Frank Herbert", AvailableCopies: 2, BranchName: "Central"},
		})
	})
	mux.HandleFunc("POST /api/books/return", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true, "message": "Book returned 2 day(s) late", "fineAmount": 0.50,
		})
	})
	mux.HandleFunc("POST /api/books/add", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Please provide all required fields: isbn, title, author, available_copies, and branch_name",
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClientLoginSavesSession(t *testing.T) {
	server := newTestServer(t)
	c := New(server.URL, nil)
	ctx := context.Background()

	session, err := c.Login(ctx, "ada", "enchantress")
	require.NoError(t, err)
	require.Equal(t, int64(7), session.UserID)
	require.Equal(t, "LIB-ABCD1234", session.CardNo)
	require.Equal(t, "tok", session.Token)

	saved, ok, err := c.Session()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, session, saved)

	require.NoError(t, c.Logout())
	_, ok, err = c.Session()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClientLoginFailure(t *testing.T) {
	server := newTestServer(t)
	c := New(server.URL, nil)

	_, err := c.Login(context.Background(), "ada", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Invalid credentials", apiErr.Message)

	_, ok, err := c.Session()
	require.NoError(t, err)
	require.False(t, ok, "a failed login must not leave a session behind")
}

func TestClientBooks(t *testing.T) {
	server := newTestServer(t)
	c := New(server.URL, nil)

	books, err := c.Books(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "Dune", books[0].Title)
}

func TestClientReturnBook(t *testing.T) {
	server := newTestServer(t)
	c := New(server.URL, nil)

	result, err := c.ReturnBook(context.Background(), 5, 9)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 0.50, result.FineAmount)
}

func TestClientAPIError(t *testing.T) {
	server := newTestServer(t)
	c := New(server.URL, nil)

	_, err := c.AddBook(context.Background(), BookParams{Title: "Dune"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Contains(t, apiErr.Message, "available_copies")
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, ok, err := store.Load()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Save(Session{UserID: 1, Token: "tok"}))
	session, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), session.UserID)

	require.NoError(t, store.Clear())
	_, ok, err = store.Load()
	require.NoError(t, err)
	require.False(t, ok)
}

// Package client is a typed Go client for the library management API. It
// plays the role the browser frontend played against the original backend:
// it calls the same routes, keeps the session after login and surfaces the
// server's success/message envelope as typed results.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx response from the server, carrying the body's
// message field when one was present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client calls the library management API.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions SessionStore
}

// New creates a Client for the given base URL. A nil store gets an
// in-memory one.
func New(baseURL string, store SessionStore) *Client {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 10 * time.Second},
		sessions: store,
	}
}

// Book mirrors the catalog entry returned by the books endpoints.
type Book struct {
	BookID          int64   `json:"book_id"`
	ISBN            string  `json:"isbn"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	AvailableCopies int     `json:"available_copies"`
	BranchName      string  `json:"branch_name"`
	LostCost        float64 `json:"lost_cost"`
}

// BorrowedBook is one active loan joined with its catalog entry.
type BorrowedBook struct {
	IssueID   int64     `json:"issue_id"`
	BookID    int64     `json:"book_id"`
	ISBN      string    `json:"isbn"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	IssueDate time.Time `json:"issue_date"`
	DueDate   time.Time `json:"due_date"`
}

// Profile is the joined user+card view.
type Profile struct {
	UserID     int64     `json:"user_id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	Username   string    `json:"username"`
	DateSignup time.Time `json:"date_signup"`
	PhoneNo    string    `json:"phone_no"`
	BranchName *string   `json:"branch_name"`
	CardNo     *string   `json:"card_no"`
}

// Stats aggregates a user's borrowing history and fines.
type Stats struct {
	TotalBorrowed   int     `json:"total_borrowed"`
	CurrentBorrowed int     `json:"current_borrowed"`
	TotalFines      float64 `json:"total_fines"`
}

// FinePayment is one recorded payment.
type FinePayment struct {
	PaymentID int64     `json:"payment_id"`
	UserID    int64     `json:"user_id"`
	Amount    float64   `json:"amount"`
	PaidAt    time.Time `json:"paid_at"`
}

// SignupParams is the registration payload.
type SignupParams struct {
	Name       string `json:"name"`
	Address    string `json:"address,omitempty"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Phone      string `json:"phone,omitempty"`
	BranchName string `json:"branchName,omitempty"`
}

// BookParams is the payload for adding or updating a catalog entry.
type BookParams struct {
	ISBN            string  `json:"isbn"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	AvailableCopies int     `json:"available_copies"`
	BranchName      string  `json:"branch_name"`
	LostCost        float64 `json:"lost_cost,omitempty"`
}

// ProfileParams is the full-field profile update payload.
type ProfileParams struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	PhoneNo    string `json:"phone_no"`
	BranchName string `json:"branch_name"`
}

// ReturnResult reports the outcome of a return, including the assessed fine.
type ReturnResult struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message"`
	FineAmount float64 `json:"fineAmount"`
}

// Login authenticates and saves the session in the client's store.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	var resp struct {
		Success bool   `json:"success"`
		UserID  int64  `json:"userId"`
		CardNo  string `json:"cardNo"`
		Token   string `json:"token"`
		Message string `json:"message"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return Session{}, err
	}

	session := Session{UserID: resp.UserID, CardNo: resp.CardNo, Token: resp.Token}
	if err := c.sessions.Save(session); err != nil {
		return Session{}, fmt.Errorf("saving session: %w", err)
	}
	return session, nil
}

// Logout clears the saved session.
func (c *Client) Logout() error {
	return c.sessions.Clear()
}

// Session returns the saved session, if any.
func (c *Client) Session() (Session, bool, error) {
	return c.sessions.Load()
}

// Signup registers a new account. The server issues the library card.
func (c *Client) Signup(ctx context.Context, params SignupParams) error {
	return c.do(ctx, http.MethodPost, "/api/auth/signup", params, nil)
}

// Books lists the catalog.
func (c *Client) Books(ctx context.Context) ([]Book, error) {
	var books []Book
	if err := c.do(ctx, http.MethodGet, "/api/books", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// BorrowedBooks lists a user's active loans.
func (c *Client) BorrowedBooks(ctx context.Context, userID int64) ([]BorrowedBook, error) {
	var books []BorrowedBook
	path := fmt.Sprintf("/api/books/borrowed/%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// AddBook creates a catalog entry and returns its id.
func (c *Client) AddBook(ctx context.Context, params BookParams) (int64, error) {
	var resp struct {
		Success bool  `json:"success"`
		BookID  int64 `json:"bookId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/books/add", params, &resp); err != nil {
		return 0, err
	}
	return resp.BookID, nil
}

// UpdateBook replaces a catalog entry's fields.
func (c *Client) UpdateBook(ctx context.Context, bookID int64, params BookParams) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/books/%d", bookID), params, nil)
}

// DeleteBook removes a catalog entry.
func (c *Client) DeleteBook(ctx context.Context, bookID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/books/%d", bookID), nil, nil)
}

// RequestBook borrows a book for the user.
func (c *Client) RequestBook(ctx context.Context, userID, bookID int64) error {
	body := map[string]int64{"userId": userID, "bookId": bookID}
	return c.do(ctx, http.MethodPost, "/api/books/request", body, nil)
}

// ReturnBook closes a loan. The result always carries the assessed fine,
// zero for on-time returns.
func (c *Client) ReturnBook(ctx context.Context, issueID, bookID int64) (ReturnResult, error) {
	var resp ReturnResult
	body := map[string]int64{"issueId": issueID, "bookId": bookID}
	if err := c.do(ctx, http.MethodPost, "/api/books/return", body, &resp); err != nil {
		return ReturnResult{}, err
	}
	return resp, nil
}

// CheckFines returns the user's outstanding fine balance.
func (c *Client) CheckFines(ctx context.Context, userID int64) (float64, error) {
	var resp struct {
		Success bool    `json:"success"`
		Fines   float64 `json:"fines"`
	}
	path := fmt.Sprintf("/api/books/fines/%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Fines, nil
}

// FinePayments lists the user's payment history, newest first.
func (c *Client) FinePayments(ctx context.Context, userID int64) ([]FinePayment, error) {
	var resp struct {
		Success  bool          `json:"success"`
		Payments []FinePayment `json:"payments"`
	}
	path := fmt.Sprintf("/api/books/fines/payments/%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Payments, nil
}

// PayFines applies a payment toward the user's outstanding fines.
func (c *Client) PayFines(ctx context.Context, userID int64, amount float64) error {
	body := map[string]any{"userId": userID, "amount": amount}
	return c.do(ctx, http.MethodPost, "/api/books/fines/pay", body, nil)
}

// UserStats fetches the user's dashboard numbers.
func (c *Client) UserStats(ctx context.Context, userID int64) (Stats, error) {
	var stats Stats
	path := fmt.Sprintf("/api/users/%d/stats", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &stats); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// UserProfile fetches the user's profile.
func (c *Client) UserProfile(ctx context.Context, userID int64) (Profile, error) {
	var profile Profile
	path := fmt.Sprintf("/api/users/%d/profile", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// UpdateUserProfile replaces the user's profile fields.
func (c *Client) UpdateUserProfile(ctx context.Context, userID int64, params ProfileParams) error {
	path := fmt.Sprintf("/api/users/%d/profile", userID)
	return c.do(ctx, http.MethodPut, path, params, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &envelope); err == nil {
			apiErr.Message = envelope.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

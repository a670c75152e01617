package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"openshelf/library-management/internal/api/models"

	"github.com/jmoiron/sqlx"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrOutOfStock   = errors.New("book has no available copies")
)

// LoanRepository defines the interface for issue (loan) data operations.
type LoanRepository interface {
	Borrow(ctx context.Context, userID, bookID int64, branchName string, issueDate, dueDate time.Time) (*models.Issue, error)
	GetIssue(ctx context.Context, issueID int64) (*models.Issue, error)
	CloseIssue(ctx context.Context, issue *models.Issue, returnedAt time.Time, fine float64) error
	ListBorrowedByUser(ctx context.Context, userID int64) ([]models.BorrowedBook, error)
	ListOpen(ctx context.Context) ([]models.OpenLoan, error)
	CountByUser(ctx context.Context, userID int64) (total, open int, err error)
	CountOpenByBook(ctx context.Context, bookID int64) (int, error)
}

type sqliteLoanRepository struct {
	db *sqlx.DB
}

// NewLoanRepository creates a new SQLite-based LoanRepository.
func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &sqliteLoanRepository{db: db}
}

// Borrow decrements the book's available copies and creates the issue record
// in one transaction. Returns ErrBookNotFound or ErrOutOfStock when the
// catalog cannot satisfy the request.
func (r *sqliteLoanRepository) Borrow(ctx context.Context, userID, bookID int64, branchName string, issueDate, dueDate time.Time) (*models.Issue, error) {
	ctx, span := tracer.Start(ctx, "LoanRepository.Borrow")
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var copies int
	err = tx.GetContext(ctx, &copies, `SELECT available_copies FROM books WHERE book_id = ?`, bookID)
	if err == sql.ErrNoRows {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if copies <= 0 {
		return nil, ErrOutOfStock
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE books SET available_copies = available_copies - 1 WHERE book_id = ?`, bookID); err != nil {
		return nil, fmt.Errorf("failed to decrement availability: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO issues (user_id, book_id, branch_name, issue_date, due_date) VALUES (?, ?, ?, ?, ?)`,
		userID, bookID, branchName, issueDate, dueDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	issueID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new issue id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit borrow: %w", err)
	}

	return &models.Issue{
		IssueID:    issueID,
		UserID:     userID,
		BookID:     bookID,
		BranchName: branchName,
		IssueDate:  issueDate,
		DueDate:    dueDate,
	}, nil
}

// GetIssue retrieves a loan record by id, or nil when none matches.
func (r *sqliteLoanRepository) GetIssue(ctx context.Context, issueID int64) (*models.Issue, error) {
	ctx, span := tracer.Start(ctx, "LoanRepository.GetIssue")
	defer span.End()

	var issue models.Issue
	query := `SELECT issue_id, user_id, book_id, branch_name, issue_date, due_date, return_date
	          FROM issues WHERE issue_id = ?`
	err := r.db.GetContext(ctx, &issue, query, issueID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}
	return &issue, nil
}

// CloseIssue marks the loan returned, restores the book's availability and
// records the assessed fine (if any) in one transaction.
func (r *sqliteLoanRepository) CloseIssue(ctx context.Context, issue *models.Issue, returnedAt time.Time, fine float64) error {
	ctx, span := tracer.Start(ctx, "LoanRepository.CloseIssue")
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE issues SET return_date = ? WHERE issue_id = ?`, returnedAt, issue.IssueID); err != nil {
		return fmt.Errorf("failed to close issue: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE books SET available_copies = available_copies + 1 WHERE book_id = ?`, issue.BookID); err != nil {
		return fmt.Errorf("failed to restore availability: %w", err)
	}

	if fine > 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fines (user_id, issue_id, amount, assessed_at) VALUES (?, ?, ?, ?)`,
			issue.UserID, issue.IssueID, fine, returnedAt); err != nil {
			return fmt.Errorf("failed to record fine: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit return: %w", err)
	}
	return nil
}

// ListBorrowedByUser returns the user's active loans joined with the catalog.
func (r *sqliteLoanRepository) ListBorrowedByUser(ctx context.Context, userID int64) ([]models.BorrowedBook, error) {
	ctx, span := tracer.Start(ctx, "LoanRepository.ListBorrowedByUser")
	defer span.End()

	rows := []models.BorrowedBook{}
	query := `SELECT i.issue_id, i.book_id, b.isbn, b.title, b.author, i.issue_date, i.due_date
	          FROM issues i
	          JOIN books b ON i.book_id = b.book_id
	          WHERE i.user_id = ? AND i.return_date IS NULL
	          ORDER BY i.due_date`
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list borrowed books: %w", err)
	}
	return rows, nil
}

// ListOpen returns every active loan, for the reminder worker.
func (r *sqliteLoanRepository) ListOpen(ctx context.Context) ([]models.OpenLoan, error) {
	ctx, span := tracer.Start(ctx, "LoanRepository.ListOpen")
	defer span.End()

	rows := []models.OpenLoan{}
	query := `SELECT i.issue_id, i.user_id, i.book_id, b.title, i.due_date
	          FROM issues i
	          JOIN books b ON i.book_id = b.book_id
	          WHERE i.return_date IS NULL`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list open loans: %w", err)
	}
	return rows, nil
}

// CountByUser returns the user's lifetime and currently open loan counts.
func (r *sqliteLoanRepository) CountByUser(ctx context.Context, userID int64) (int, int, error) {
	ctx, span := tracer.Start(ctx, "LoanRepository.CountByUser")
	defer span.End()

	var counts struct {
		Total int `db:"total"`
		Open  int `db:"open"`
	}
	query := `SELECT COUNT(*) AS total,
	                 COALESCE(SUM(CASE WHEN return_date IS NULL THEN 1 ELSE 0 END), 0) AS open
	          FROM issues WHERE user_id = ?`
	if err := r.db.GetContext(ctx, &counts, query, userID); err != nil {
		return 0, 0, fmt.Errorf("failed to count loans: %w", err)
	}
	return counts.Total, counts.Open, nil
}

// CountOpenByBook returns the number of active loans referencing a book.
func (r *sqliteLoanRepository) CountOpenByBook(ctx context.Context, bookID int64) (int, error) {
	ctx, span := tracer.Start(ctx, "LoanRepository.CountOpenByBook")
	defer span.End()

	var count int
	query := `SELECT COUNT(*) FROM issues WHERE book_id = ? AND return_date IS NULL`
	if err := r.db.GetContext(ctx, &count, query, bookID); err != nil {
		return 0, fmt.Errorf("failed to count open loans: %w", err)
	}
	return count, nil
}

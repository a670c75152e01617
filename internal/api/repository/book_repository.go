package repository

import (
	"context"
	"database/sql"
	"fmt"

	"openshelf/library-management/internal/api/models"

	"github.com/jmoiron/sqlx"
)

// BookRepository defines the interface for catalog data operations.
type BookRepository interface {
	List(ctx context.Context) ([]models.Book, error)
	GetByID(ctx context.Context, bookID int64) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) (int64, error)
	Update(ctx context.Context, book *models.Book) (bool, error)
	Delete(ctx context.Context, bookID int64) (bool, error)
}

type sqliteBookRepository struct {
	db *sqlx.DB
}

// NewBookRepository creates a new SQLite-based BookRepository.
func NewBookRepository(db *sqlx.DB) BookRepository {
	return &sqliteBookRepository{db: db}
}

// List returns the full catalog. Filtering is done client-side.
func (r *sqliteBookRepository) List(ctx context.Context) ([]models.Book, error) {
	ctx, span := tracer.Start(ctx, "BookRepository.List")
	defer span.End()

	books := []models.Book{}
	query := `SELECT book_id, isbn, title, author, available_copies, branch_name, lost_cost
	          FROM books ORDER BY book_id`
	if err := r.db.SelectContext(ctx, &books, query); err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// GetByID retrieves a single catalog entry, or nil when none matches.
func (r *sqliteBookRepository) GetByID(ctx context.Context, bookID int64) (*models.Book, error) {
	ctx, span := tracer.Start(ctx, "BookRepository.GetByID")
	defer span.End()

	var book models.Book
	query := `SELECT book_id, isbn, title, author, available_copies, branch_name, lost_cost
	          FROM books WHERE book_id = ?`
	err := r.db.GetContext(ctx, &book, query, bookID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return &book, nil
}

// Create inserts a catalog entry and returns its generated id.
func (r *sqliteBookRepository) Create(ctx context.Context, book *models.Book) (int64, error) {
	ctx, span := tracer.Start(ctx, "BookRepository.Create")
	defer span.End()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO books (isbn, title, author, available_copies, branch_name, lost_cost)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		book.ISBN, book.Title, book.Author, book.AvailableCopies, book.BranchName, book.LostCost)
	if err != nil {
		return 0, fmt.Errorf("failed to create book: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new book id: %w", err)
	}
	book.BookID = id
	return id, nil
}

// Update rewrites every mutable field of the book. It reports whether a row
// was actually updated.
func (r *sqliteBookRepository) Update(ctx context.Context, book *models.Book) (bool, error) {
	ctx, span := tracer.Start(ctx, "BookRepository.Update")
	defer span.End()

	res, err := r.db.ExecContext(ctx,
		`UPDATE books SET isbn = ?, title = ?, author = ?, available_copies = ?, branch_name = ?
		 WHERE book_id = ?`,
		book.ISBN, book.Title, book.Author, book.AvailableCopies, book.BranchName, book.BookID)
	if err != nil {
		return false, fmt.Errorf("failed to update book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// Delete removes a catalog entry. It reports whether a row existed.
func (r *sqliteBookRepository) Delete(ctx context.Context, bookID int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "BookRepository.Delete")
	defer span.End()

	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE book_id = ?`, bookID)
	if err != nil {
		return false, fmt.Errorf("failed to delete book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

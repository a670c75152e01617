package service

import (
	"context"
	"log/slog"
	"time"

	"openshelf/library-management/internal/api/models"
	apirepository "openshelf/library-management/internal/api/repository"
	"openshelf/library-management/internal/repository"
)

const catalogCacheTTL = 30 * time.Second

// BookService defines the interface for catalog management.
type BookService interface {
	List(ctx context.Context) ([]models.Book, error)
	Add(ctx context.Context, req *models.AddBookRequest) (*AddBookResult, error)
	Update(ctx context.Context, bookID int64, req *models.UpdateBookRequest) (*Result, error)
	Delete(ctx context.Context, bookID int64) (*Result, error)
}

type bookService struct {
	bookRepo   apirepository.BookRepository
	loanRepo   apirepository.LoanRepository
	branchRepo apirepository.BranchRepository
	cache      repository.CatalogCache
}

// NewBookService creates a new BookService. cache may be nil to disable the
// catalog cache.
func NewBookService(bookRepo apirepository.BookRepository, loanRepo apirepository.LoanRepository, branchRepo apirepository.BranchRepository, cache repository.CatalogCache) BookService {
	return &bookService{
		bookRepo:   bookRepo,
		loanRepo:   loanRepo,
		branchRepo: branchRepo,
		cache:      cache,
	}
}

// List returns the full catalog, serving from the cache when possible. Cache
// failures fall back to the database.
func (s *bookService) List(ctx context.Context) ([]models.Book, error) {
	if s.cache != nil {
		books, hit, err := s.cache.Get(ctx)
		if err != nil {
			slog.WarnContext(ctx, "catalog cache read failed", "error", err)
		} else if hit {
			return books, nil
		}
	}

	books, err := s.bookRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, books, catalogCacheTTL); err != nil {
			slog.WarnContext(ctx, "catalog cache write failed", "error", err)
		}
	}
	return books, nil
}

// Add creates a catalog entry after validating the branch.
func (s *bookService) Add(ctx context.Context, req *models.AddBookRequest) (*AddBookResult, error) {
	exists, err := s.branchRepo.Exists(ctx, req.BranchName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &AddBookResult{Success: false, Message: "Specified branch does not exist"}, nil
	}

	book := &models.Book{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		AvailableCopies: *req.AvailableCopies,
		BranchName:      req.BranchName,
		LostCost:        req.LostCost,
	}
	bookID, err := s.bookRepo.Create(ctx, book)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	return &AddBookResult{Success: true, Message: "Book added successfully", BookID: bookID}, nil
}

// Update rewrites every field of the book identified by bookID.
func (s *bookService) Update(ctx context.Context, bookID int64, req *models.UpdateBookRequest) (*Result, error) {
	exists, err := s.branchRepo.Exists(ctx, req.BranchName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return rejected("Specified branch does not exist"), nil
	}

	current, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return rejected("Book not found"), nil
	}

	book := &models.Book{
		BookID:          bookID,
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		AvailableCopies: *req.AvailableCopies,
		BranchName:      req.BranchName,
		LostCost:        current.LostCost,
	}
	found, err := s.bookRepo.Update(ctx, book)
	if err != nil {
		return nil, err
	}
	if !found {
		return rejected("Book not found"), nil
	}
	s.invalidate(ctx)

	return ok("Book updated successfully"), nil
}

// Delete removes a catalog entry unless open loans still reference it.
func (s *bookService) Delete(ctx context.Context, bookID int64) (*Result, error) {
	open, err := s.loanRepo.CountOpenByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if open > 0 {
		return rejected("Book has active loans and cannot be deleted"), nil
	}

	found, err := s.bookRepo.Delete(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !found {
		return rejected("Book not found"), nil
	}
	s.invalidate(ctx)

	return ok("Book deleted successfully"), nil
}

func (s *bookService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
	}
}

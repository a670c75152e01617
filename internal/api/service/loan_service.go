package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"openshelf/library-management/internal/api/models"
	apirepository "openshelf/library-management/internal/api/repository"
	"openshelf/library-management/internal/config"
)

// Notifier delivers a message to a user. Delivery is best-effort; loan flows
// never fail because a notification could not be sent.
type Notifier interface {
	Notify(ctx context.Context, userID int64, message string)
}

// LoanService defines the interface for the borrow/return lifecycle.
type LoanService interface {
	Request(ctx context.Context, userID, bookID int64) (*Result, error)
	Return(ctx context.Context, issueID, bookID int64) (*ReturnResult, error)
	Borrowed(ctx context.Context, userID int64) ([]models.BorrowedBook, error)
}

type loanService struct {
	loanRepo apirepository.LoanRepository
	userRepo apirepository.UserRepository
	policy   config.LoanPolicy
	notifier Notifier
	now      func() time.Time
}

// NewLoanService creates a new LoanService. notifier may be nil.
func NewLoanService(loanRepo apirepository.LoanRepository, userRepo apirepository.UserRepository, policy config.LoanPolicy, notifier Notifier) LoanService {
	return &loanService{
		loanRepo: loanRepo,
		userRepo: userRepo,
		policy:   policy,
		notifier: notifier,
		now:      time.Now,
	}
}

// Request creates a loan at the user's own branch. The branch is resolved
// from the user record; a user without a branch cannot borrow.
func (s *loanService) Request(ctx context.Context, userID, bookID int64) (*Result, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.BranchName == nil || *user.BranchName == "" {
		return rejected("User branch not found."), nil
	}

	_, open, err := s.loanRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if open >= s.policy.MaxActiveLoans {
		return rejected(fmt.Sprintf("Loan limit reached (%d books)", s.policy.MaxActiveLoans)), nil
	}

	issueDate := s.now()
	dueDate := issueDate.AddDate(0, 0, s.policy.PeriodDays)
	issue, err := s.loanRepo.Borrow(ctx, userID, bookID, *user.BranchName, issueDate, dueDate)
	if err != nil {
		if errors.Is(err, apirepository.ErrBookNotFound) {
			return rejected("Book not found"), nil
		}
		if errors.Is(err, apirepository.ErrOutOfStock) {
			return rejected("Book is not available"), nil
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, userID, fmt.Sprintf("Book issued. Due back on %s", issue.DueDate.Format("02 Jan 2006")))
	}
	return ok("Book issued successfully"), nil
}

// Return closes the loan identified by issueID, which must reference bookID.
// The assessed fine is always reported, zero for on-time returns.
func (s *loanService) Return(ctx context.Context, issueID, bookID int64) (*ReturnResult, error) {
	issue, err := s.loanRepo.GetIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return &ReturnResult{Success: false, Message: "Issue record not found"}, nil
	}
	if issue.BookID != bookID {
		return &ReturnResult{Success: false, Message: "Issue record does not match the specified book"}, nil
	}
	if !issue.Open() {
		return &ReturnResult{Success: false, Message: "Book already returned"}, nil
	}

	returnedAt := s.now()
	daysLate := models.DaysLate(issue.DueDate, returnedAt)
	fine := float64(daysLate) * s.policy.FinePerDay

	if err := s.loanRepo.CloseIssue(ctx, issue, returnedAt, fine); err != nil {
		return nil, err
	}

	message := "Book returned successfully"
	if daysLate > 0 {
		message = fmt.Sprintf("Book returned %d day(s) late", daysLate)
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, issue.UserID, fmt.Sprintf("%s. Fine: %.2f", message, fine))
	}

	return &ReturnResult{Success: true, Message: message, FineAmount: fine}, nil
}

// Borrowed lists the user's active loans.
func (s *loanService) Borrowed(ctx context.Context, userID int64) ([]models.BorrowedBook, error) {
	return s.loanRepo.ListBorrowedByUser(ctx, userID)
}

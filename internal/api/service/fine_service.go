package service

import (
	"context"
	"time"

	"openshelf/library-management/internal/api/models"
	apirepository "openshelf/library-management/internal/api/repository"
	"openshelf/library-management/internal/validator"
)

// FineService defines the interface for fine balances and payments.
type FineService interface {
	Check(ctx context.Context, userID int64) (float64, error)
	Payments(ctx context.Context, userID int64) ([]models.FinePayment, error)
	Pay(ctx context.Context, userID int64, amount float64) (*Result, error)
}

type fineService struct {
	fineRepo apirepository.FineRepository
	now      func() time.Time
}

// NewFineService creates a new FineService.
func NewFineService(fineRepo apirepository.FineRepository) FineService {
	return &fineService{fineRepo: fineRepo, now: time.Now}
}

// Check returns the user's outstanding fine total.
func (s *fineService) Check(ctx context.Context, userID int64) (float64, error) {
	return s.fineRepo.OutstandingByUser(ctx, userID)
}

// Payments returns the user's payment history.
func (s *fineService) Payments(ctx context.Context, userID int64) ([]models.FinePayment, error) {
	return s.fineRepo.ListPayments(ctx, userID)
}

// Pay records a payment. The amount must be positive and must not exceed the
// outstanding balance; both checks happen before any write.
func (s *fineService) Pay(ctx context.Context, userID int64, amount float64) (*Result, error) {
	if !validator.ValidPaymentAmount(amount) {
		return rejected("Invalid payment amount"), nil
	}

	outstanding, err := s.fineRepo.OutstandingByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if amount > outstanding {
		return rejected("Payment amount exceeds outstanding fines"), nil
	}

	if err := s.fineRepo.AddPayment(ctx, userID, amount, s.now()); err != nil {
		return nil, err
	}
	return ok("Payment recorded successfully"), nil
}

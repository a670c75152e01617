package service

import (
	"context"

	"openshelf/library-management/internal/api/models"
	apirepository "openshelf/library-management/internal/api/repository"
)

// UserService defines the interface for profile and dashboard reads.
type UserService interface {
	Stats(ctx context.Context, userID int64) (*models.UserStats, error)
	Profile(ctx context.Context, userID int64) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*Result, error)
}

type userService struct {
	userRepo   apirepository.UserRepository
	loanRepo   apirepository.LoanRepository
	fineRepo   apirepository.FineRepository
	branchRepo apirepository.BranchRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo apirepository.UserRepository, loanRepo apirepository.LoanRepository, fineRepo apirepository.FineRepository, branchRepo apirepository.BranchRepository) UserService {
	return &userService{
		userRepo:   userRepo,
		loanRepo:   loanRepo,
		fineRepo:   fineRepo,
		branchRepo: branchRepo,
	}
}

// Stats aggregates the user's borrowing counts and outstanding fines.
// Missing values default to zero.
func (s *userService) Stats(ctx context.Context, userID int64) (*models.UserStats, error) {
	total, open, err := s.loanRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	fines, err := s.fineRepo.OutstandingByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.UserStats{
		TotalBorrowed:   total,
		CurrentBorrowed: open,
		TotalFines:      fines,
	}, nil
}

// Profile returns the joined user+card view, or nil when no user matches.
func (s *userService) Profile(ctx context.Context, userID int64) (*models.Profile, error) {
	return s.userRepo.GetProfile(ctx, userID)
}

// UpdateProfile validates the branch (when given) and writes the full update.
func (s *userService) UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*Result, error) {
	if req.BranchName != "" {
		exists, err := s.branchRepo.Exists(ctx, req.BranchName)
		if err != nil {
			return nil, err
		}
		if !exists {
			return rejected("Specified branch does not exist"), nil
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return rejected("User not found"), nil
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, req); err != nil {
		return nil, err
	}
	return ok("Profile updated successfully"), nil
}

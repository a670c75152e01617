package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"openshelf/library-management/internal/api/models"
	apirepository "openshelf/library-management/internal/api/repository"
	"openshelf/library-management/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 72 * time.Hour

// AuthService defines the interface for login and registration.
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*LoginResult, error)
	Signup(ctx context.Context, req *models.SignupRequest) (*Result, error)
}

type authService struct {
	userRepo   apirepository.UserRepository
	branchRepo apirepository.BranchRepository
	sessions   repository.SessionRepository
	jwtSecret  []byte
}

// NewAuthService creates a new AuthService. sessions may be nil, in which
// case logins are not recorded server-side.
func NewAuthService(userRepo apirepository.UserRepository, branchRepo apirepository.BranchRepository, sessions repository.SessionRepository, jwtSecret string) AuthService {
	return &authService{
		userRepo:   userRepo,
		branchRepo: branchRepo,
		sessions:   sessions,
		jwtSecret:  []byte(jwtSecret),
	}
}

// Login verifies the credentials and returns the user's identifiers plus a
// session token. A failed match never reveals which field was wrong.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &LoginResult{Success: false}, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return &LoginResult{Success: false}, nil
	}

	cardNo, err := s.userRepo.GetCardNo(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.UserID,
		"un":  user.Username,
		"exp": time.Now().Add(sessionTTL).Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if s.sessions != nil {
		if err := s.sessions.Save(ctx, tokenString, repository.Session{UserID: user.UserID, CardNo: cardNo}, sessionTTL); err != nil {
			return nil, fmt.Errorf("failed to store session: %w", err)
		}
	}

	return &LoginResult{
		Success: true,
		UserID:  user.UserID,
		CardNo:  cardNo,
		Token:   tokenString,
	}, nil
}

// Signup registers a user and issues their membership card. BranchName is
// optional but must exist when given.
func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*Result, error) {
	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return rejected("Username is already taken"), nil
	}

	var branch *string
	if req.BranchName != "" {
		exists, err := s.branchRepo.Exists(ctx, req.BranchName)
		if err != nil {
			return nil, err
		}
		if !exists {
			return rejected("Specified branch does not exist"), nil
		}
		branch = &req.BranchName
	}

	user := &models.User{
		Name:       req.Name,
		Address:    req.Address,
		Username:   req.Username,
		PhoneNo:    req.Phone,
		BranchName: branch,
	}
	if err := s.userRepo.CreateWithCard(ctx, user, req.Password, newCardNo()); err != nil {
		return nil, err
	}

	return ok("Account created successfully"), nil
}

// newCardNo produces a membership card number. Card numbers identify members
// in loan flows and are distinct from internal user ids.
func newCardNo() string {
	return "LIB-" + strings.ToUpper(uuid.New().String()[:8])
}

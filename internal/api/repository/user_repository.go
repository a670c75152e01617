package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"openshelf/library-management/internal/api/models"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines the interface for user and card data operations.
type UserRepository interface {
	CreateWithCard(ctx context.Context, user *models.User, password, cardNo string) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, userID int64) (*models.User, error)
	GetCardNo(ctx context.Context, userID int64) (string, error)
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) error
}

type sqliteUserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new SQLite-based UserRepository.
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

// CreateWithCard hashes the password, inserts the user and issues their
// membership card in a single transaction.
func (r *sqliteUserRepository) CreateWithCard(ctx context.Context, user *models.User, password, cardNo string) error {
	ctx, span := tracer.Start(ctx, "UserRepository.CreateWithCard")
	defer span.End()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashedPassword)
	if user.DateSignup.IsZero() {
		user.DateSignup = time.Now()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (name, address, username, password_hash, phone_no, date_signup, branch_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Name, user.Address, user.Username, user.PasswordHash, user.PhoneNo, user.DateSignup, user.BranchName)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	userID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new user id: %w", err)
	}
	user.UserID = userID

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cards (card_no, user_id) VALUES (?, ?)`, cardNo, userID); err != nil {
		return fmt.Errorf("failed to issue card: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit signup: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by their username. A missing user is not an
// application error.
func (r *sqliteUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetByUsername")
	defer span.End()

	var user models.User
	query := `SELECT user_id, name, address, username, password_hash, phone_no, date_signup, branch_name
	          FROM users WHERE username = ?`
	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

// GetByID retrieves a user by their id.
func (r *sqliteUserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetByID")
	defer span.End()

	var user models.User
	query := `SELECT user_id, name, address, username, password_hash, phone_no, date_signup, branch_name
	          FROM users WHERE user_id = ?`
	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// GetCardNo returns the card number issued to the user, or "" when the user
// holds no card.
func (r *sqliteUserRepository) GetCardNo(ctx context.Context, userID int64) (string, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetCardNo")
	defer span.End()

	var cardNo string
	err := r.db.GetContext(ctx, &cardNo, `SELECT card_no FROM cards WHERE user_id = ?`, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get card number: %w", err)
	}
	return cardNo, nil
}

// GetProfile returns the joined user+card view, or nil when no user matches.
func (r *sqliteUserRepository) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetProfile")
	defer span.End()

	var profile models.Profile
	query := `SELECT u.user_id, u.name, u.address, u.username, u.date_signup, u.phone_no, u.branch_name, c.card_no
	          FROM users u
	          LEFT JOIN cards c ON u.user_id = c.user_id
	          WHERE u.user_id = ?`
	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile writes a full-field profile update directly to the user row.
func (r *sqliteUserRepository) UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) error {
	ctx, span := tracer.Start(ctx, "UserRepository.UpdateProfile")
	defer span.End()

	var branch any
	if req.BranchName != "" {
		branch = req.BranchName
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, address = ?, phone_no = ?, branch_name = ? WHERE user_id = ?`,
		req.Name, req.Address, req.PhoneNo, branch, userID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

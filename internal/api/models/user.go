package models

import "time"

// User represents a row in the users table.
type User struct {
	UserID       int64      `db:"user_id"`
	Name         string     `db:"name"`
	Address      string     `db:"address"`
	Username     string     `db:"username"`
	PasswordHash string     `db:"password_hash"`
	PhoneNo      string     `db:"phone_no"`
	DateSignup   time.Time  `db:"date_signup"`
	BranchName   *string    `db:"branch_name"`
}

// Profile is the joined user+card view returned by the profile endpoint.
type Profile struct {
	UserID     int64     `db:"user_id" json:"user_id"`
	Name       string    `db:"name" json:"name"`
	Address    string    `db:"address" json:"address"`
	Username   string    `db:"username" json:"username"`
	DateSignup time.Time `db:"date_signup" json:"date_signup"`
	PhoneNo    string    `db:"phone_no" json:"phone_no"`
	BranchName *string   `db:"branch_name" json:"branch_name"`
	CardNo     *string   `db:"card_no" json:"card_no"`
}

// UserStats aggregates a user's borrowing history and fines.
type UserStats struct {
	TotalBorrowed   int     `json:"total_borrowed"`
	CurrentBorrowed int     `json:"current_borrowed"`
	TotalFines      float64 `json:"total_fines"`
}

// SignupRequest defines the structure for a user registration request.
// BranchName is optional; when set it must name an existing branch.
type SignupRequest struct {
	Name       string `json:"name" binding:"required"`
	Address    string `json:"address"`
	Username   string `json:"username" binding:"required,min=3,max=30"`
	Password   string `json:"password" binding:"required,min=2,max=72"`
	Phone      string `json:"phone"`
	BranchName string `json:"branchName"`
}

// LoginRequest defines the structure for a user login request.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries a full profile update.
type UpdateProfileRequest struct {
	Name       string `json:"name" binding:"required"`
	Address    string `json:"address"`
	PhoneNo    string `json:"phone_no"`
	BranchName string `json:"branch_name"`
}

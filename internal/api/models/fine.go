package models

import "time"

// Fine is a monetary obligation assessed against a user at return time.
type Fine struct {
	FineID     int64     `db:"fine_id"`
	UserID     int64     `db:"user_id"`
	IssueID    int64     `db:"issue_id"`
	Amount     float64   `db:"amount"`
	AssessedAt time.Time `db:"assessed_at"`
}

// FinePayment records an amount paid toward a user's outstanding fines.
type FinePayment struct {
	PaymentID int64     `db:"payment_id" json:"payment_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Amount    float64   `db:"amount" json:"amount"`
	PaidAt    time.Time `db:"paid_at" json:"paid_at"`
}

// PayFinesRequest applies a payment toward a user's outstanding balance.
// Amount is validated as a positive number before any data access.
type PayFinesRequest struct {
	UserID int64   `json:"userId" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

// Notification is a message queued for delivery to a user.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

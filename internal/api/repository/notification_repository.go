package repository

import (
	"context"
	"fmt"
	"time"

	"openshelf/library-management/internal/api/models"

	"github.com/jmoiron/sqlx"
)

// NotificationRepository stores per-user messages produced by the reminder
// worker and the loan flows.
type NotificationRepository interface {
	Create(ctx context.Context, userID int64, message string) error
	ListUnread(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, ids []int64) error
}

type sqliteNotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new SQLite-based NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &sqliteNotificationRepository{db: db}
}

// Create stores a notification. Identical (user, message) pairs are
// deduplicated so the daily worker cannot spam a user.
func (r *sqliteNotificationRepository) Create(ctx context.Context, userID int64, message string) error {
	ctx, span := tracer.Start(ctx, "NotificationRepository.Create")
	defer span.End()

	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND message = ?`, userID, message); err != nil {
		return fmt.Errorf("failed to check for duplicate notification: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, message, is_read, created_at) VALUES (?, ?, FALSE, ?)`,
		userID, message, time.Now()); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListUnread returns the user's undelivered notifications, oldest first.
func (r *sqliteNotificationRepository) ListUnread(ctx context.Context, userID int64) ([]models.Notification, error) {
	ctx, span := tracer.Start(ctx, "NotificationRepository.ListUnread")
	defer span.End()

	notifs := []models.Notification{}
	query := `SELECT id, user_id, message, is_read, created_at
	          FROM notifications WHERE user_id = ? AND is_read = FALSE ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &notifs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifs, nil
}

// MarkRead flags the given notifications as delivered.
func (r *sqliteNotificationRepository) MarkRead(ctx context.Context, ids []int64) error {
	ctx, span := tracer.Start(ctx, "NotificationRepository.MarkRead")
	defer span.End()

	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`UPDATE notifications SET is_read = TRUE WHERE id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("failed to build mark-read query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

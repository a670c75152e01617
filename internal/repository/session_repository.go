package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("repository.session")

// Session is the server-side record of a logged-in identity, keyed by the
// token handed to the client.
type Session struct {
	UserID int64
	CardNo string
}

// SessionRepository defines the interface for session data operations.
type SessionRepository interface {
	Save(ctx context.Context, token string, session Session, ttl time.Duration) error
	Find(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

type redisSessionRepository struct {
	rdb *redis.Client
}

// NewSessionRepository creates a new Redis-based SessionRepository.
func NewSessionRepository(rdb *redis.Client) SessionRepository {
	return &redisSessionRepository{
		rdb: rdb,
	}
}

// Save stores the session under its token with the given TTL.
func (r *redisSessionRepository) Save(ctx context.Context, token string, session Session, ttl time.Duration) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Save")
	defer span.End()

	sessionKey := fmt.Sprintf("session:%s", token)
	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, sessionKey, "user_id", session.UserID)
	pipe.HSet(ctx, sessionKey, "card_no", session.CardNo)
	pipe.Expire(ctx, sessionKey, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Find retrieves the session for a token, or nil when none exists.
func (r *redisSessionRepository) Find(ctx context.Context, token string) (*Session, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.Find")
	defer span.End()

	sessionKey := fmt.Sprintf("session:%s", token)
	data, err := r.rdb.HGetAll(ctx, sessionKey).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	userID, err := strconv.ParseInt(data["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session for token: %w", err)
	}
	return &Session{UserID: userID, CardNo: data["card_no"]}, nil
}

// Delete removes the session for a token.
func (r *redisSessionRepository) Delete(ctx context.Context, token string) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Delete")
	defer span.End()

	return r.rdb.Del(ctx, fmt.Sprintf("session:%s", token)).Err()
}

// Package history records the outcome of transfer attempts in postgres.
// The store is optional: with no database configured the bot keeps no record,
// matching the fully volatile design. Key material is never written here.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"walletbot/core/logger"
	"log/slog"
)

const (
	// StatusConfirmed marks a transfer that was confirmed on chain.
	StatusConfirmed = "confirmed"
	// StatusFailed marks a transfer attempt rejected at or after submission.
	StatusFailed = "failed"
)

// Entry is one executed transfer attempt.
type Entry struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	FromPubkey string    `db:"from_pubkey"`
	ToAddress  string    `db:"to_address"`
	Lamports   int64     `db:"lamports"`
	Signature  string    `db:"signature"`
	Status     string    `db:"status"`
	FailReason string    `db:"fail_reason"`
	CreatedAt  time.Time `db:"created_at"`
}

// Store persists transfer attempts.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Record inserts one attempt. Callers log failures but never surface them to
// the user; history is an audit trail, not part of the transfer outcome.
func (s *Store) Record(ctx context.Context, e Entry) error {
	const q = `
		INSERT INTO transfers (user_id, from_pubkey, to_address, lamports, signature, status, fail_reason)
		VALUES (:user_id, :from_pubkey, :to_address, :lamports, :signature, :status, :fail_reason)`

	start := time.Now()
	if _, err := s.db.NamedExecContext(ctx, q, e); err != nil {
		return fmt.Errorf("history insert: %w", err)
	}
	logger.HIST.Debug("attempt recorded",
		slog.String("event", "history.record"),
		slog.Int64("user_id", e.UserID),
		slog.String("status", e.Status),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}

// RecentByUser returns the newest attempts for a user, newest first.
func (s *Store) RecentByUser(ctx context.Context, userID int64, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 5
	}
	const q = `
		SELECT id, user_id, from_pubkey, to_address, lamports, signature, status, fail_reason, created_at
		FROM transfers
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	var out []Entry
	if err := s.db.SelectContext(ctx, &out, q, userID, limit); err != nil {
		return nil, fmt.Errorf("history select: %w", err)
	}
	return out, nil
}

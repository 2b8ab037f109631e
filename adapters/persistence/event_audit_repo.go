package persistence

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davitran/profile-hub/adapters/event"
	"github.com/davitran/profile-hub/pkg/apperror"
)

// PostgresEventAuditRepo records consumed user events in the
// user_events table, one row per event.
type PostgresEventAuditRepo struct {
	db *pgxpool.Pool
}

func NewPostgresEventAuditRepo(db *pgxpool.Pool) *PostgresEventAuditRepo {
	return &PostgresEventAuditRepo{db: db}
}

func (r *PostgresEventAuditRepo) Record(ctx context.Context, payload event.UserEventPayload) error {
	query := `
		INSERT INTO user_events (event_type, user_id, email, occurred_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, payload.EventType, payload.UserID, payload.Email, payload.OccurredAt)
	if err != nil {
		return apperror.NewInternal("failed to insert user event", err)
	}
	return nil
}

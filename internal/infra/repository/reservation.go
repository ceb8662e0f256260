package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"suitcase-timer/internal/domain/reservation"
	"suitcase-timer/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReservationRepository persists the single suitcase checkout. The table is
// constrained to one row (id = 1), so every write targets that row and the
// claim is a single-statement compare-and-swap.
type ReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const claimQuery = `
INSERT INTO reservation (id, uid, owner_id, owner_name, chat_id, message_id, end_time, created_at)
VALUES (1, $1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE
SET uid        = EXCLUDED.uid,
    owner_id   = EXCLUDED.owner_id,
    owner_name = EXCLUDED.owner_name,
    chat_id    = EXCLUDED.chat_id,
    message_id = EXCLUDED.message_id,
    end_time   = EXCLUDED.end_time,
    created_at = EXCLUDED.created_at
WHERE reservation.end_time <= EXCLUDED.created_at
   OR reservation.uid = EXCLUDED.uid
`

// Claim writes the reservation unless a live one already holds the row.
// A stale row whose end_time has passed is overwritten; the uid clause keeps
// the write idempotent when a reported failure is retried.
func (r *ReservationRepository) Claim(ctx context.Context, res *reservation.Reservation) (bool, error) {
	var claimed bool
	err := withRetry(ctx, "claim reservation", func(ctx context.Context) error {
		tag, execErr := r.db.Exec(ctx, claimQuery,
			res.UID(),
			res.OwnerID(),
			res.OwnerName(),
			res.Target().ChatID(),
			res.Target().MessageID(),
			res.EndTime(),
			res.CreatedAt(),
		)
		if execErr != nil {
			return execErr
		}
		claimed = tag.RowsAffected() == 1
		return nil
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim reservation", err)
	}
	return claimed, nil
}

const findQuery = `
SELECT uid, owner_id, owner_name, chat_id, message_id, end_time, created_at
FROM reservation
WHERE id = 1
`

func (r *ReservationRepository) Find(ctx context.Context) (*reservation.Reservation, error) {
	var res *reservation.Reservation
	err := withRetry(ctx, "find reservation", func(ctx context.Context) error {
		row := r.db.QueryRow(ctx, findQuery)
		scanned, scanErr := scanReservation(row)
		if scanErr != nil {
			return scanErr
		}
		res = scanned
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("no reservation persisted", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return res, nil
}

const deleteQuery = `
DELETE FROM reservation
WHERE id = 1 AND uid = $1
`

// Delete removes the record only when it still carries the given loop
// identity, so a cancel never deletes a reservation it did not read.
func (r *ReservationRepository) Delete(ctx context.Context, uid uuid.UUID) (bool, error) {
	var deleted bool
	err := withRetry(ctx, "delete reservation", func(ctx context.Context) error {
		tag, execErr := r.db.Exec(ctx, deleteQuery, uid)
		if execErr != nil {
			return execErr
		}
		deleted = tag.RowsAffected() == 1
		return nil
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete reservation", err)
	}
	return deleted, nil
}

const deleteExpiredQuery = `
DELETE FROM reservation
WHERE id = 1 AND end_time <= $1
RETURNING uid, owner_id, owner_name, chat_id, message_id, end_time, created_at
`

// DeleteExpired removes the record iff its end time has passed and returns
// the released reservation. The RETURNING clause makes the expiry transition
// observable exactly once even when ticks race a cancel or a restart.
func (r *ReservationRepository) DeleteExpired(ctx context.Context, now time.Time) (*reservation.Reservation, error) {
	var res *reservation.Reservation
	err := withRetry(ctx, "delete expired reservation", func(ctx context.Context) error {
		row := r.db.QueryRow(ctx, deleteExpiredQuery, now)
		scanned, scanErr := scanReservation(row)
		if scanErr != nil {
			return scanErr
		}
		res = scanned
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("no expired reservation", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to release expired reservation", err)
	}
	return res, nil
}

func scanReservation(row pgx.Row) (*reservation.Reservation, error) {
	var (
		uid       uuid.UUID
		ownerID   int64
		ownerName string
		chatID    int64
		messageID int64
		endTime   time.Time
		createdAt time.Time
	)
	if err := row.Scan(&uid, &ownerID, &ownerName, &chatID, &messageID, &endTime, &createdAt); err != nil {
		return nil, err
	}

	target, err := reservation.NewDisplayTarget(chatID, messageID)
	if err != nil {
		return nil, err
	}

	return reservation.ReconstructReservation(uid, ownerID, ownerName, target, endTime, createdAt), nil
}

// withRetry runs fn and retries it once on failure. Every store operation is
// idempotent (keyed by the reservation uid or the recipient id), so a retry
// after an ambiguous failure cannot corrupt the record.
func withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err == nil || errors.Is(err, pgx.ErrNoRows) || ctx.Err() != nil {
		return err
	}

	slog.Warn("retrying store operation", "op", op, "error", err)
	return fn(ctx)
}

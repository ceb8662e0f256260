package repository

import (
	"context"

	"suitcase-timer/internal/infra"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RecipientRepository stores the append-only set of users who have ever
// interacted with the bot. Entries are never pruned.
type RecipientRepository struct {
	db *pgxpool.Pool
}

func NewRecipientRepository(db *pgxpool.Pool) *RecipientRepository {
	return &RecipientRepository{db: db}
}

const addRecipientQuery = `
INSERT INTO recipients (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO NOTHING
`

func (r *RecipientRepository) Add(ctx context.Context, userID int64) error {
	err := withRetry(ctx, "add recipient", func(ctx context.Context) error {
		_, execErr := r.db.Exec(ctx, addRecipientQuery, userID)
		return execErr
	})
	if err != nil {
		return infra.WrapRepoErr("failed to add recipient", err)
	}
	return nil
}

const listRecipientsQuery = `
SELECT user_id FROM recipients
`

func (r *RecipientRepository) List(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := withRetry(ctx, "list recipients", func(ctx context.Context) error {
		rows, queryErr := r.db.Query(ctx, listRecipientsQuery)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()

		ids = ids[:0]
		for rows.Next() {
			var id int64
			if scanErr := rows.Scan(&id); scanErr != nil {
				return scanErr
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list recipients", err)
	}
	return ids, nil
}

package repository

import (
	"context"
	"fmt"

	"meltyfi/domain/entities"
	"meltyfi/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// WonkaBarRepository implements claim-token balance access
type WonkaBarRepository struct {
	q Queryable
}

// NewWonkaBarRepository creates a new WonkaBar holding repository
func NewWonkaBarRepository(q Queryable) interfaces.WonkaBarRepository {
	return &WonkaBarRepository{q: q}
}

// GetHolding returns the holding for (lottery, holder), nil if absent
func (r *WonkaBarRepository) GetHolding(ctx context.Context, lotteryID int64, holder string) (*entities.WonkaBarHolding, error) {
	query := `
		SELECT id, lottery_id, holder_address, amount, created_at, updated_at
		FROM wonka_bar_holdings
		WHERE lottery_id = $1 AND holder_address = $2
	`

	var h entities.WonkaBarHolding
	err := r.q.QueryRow(ctx, query, lotteryID, holder).Scan(
		&h.ID, &h.LotteryID, &h.Holder, &h.Amount, &h.CreatedAt, &h.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holding for lottery %d holder %s: %w", lotteryID, holder, err)
	}

	return &h, nil
}

// AddToHolding increments (creating if needed) a holder's balance. The row id
// assigned on first purchase fixes the holder's position in the draw order.
func (r *WonkaBarRepository) AddToHolding(ctx context.Context, lotteryID int64, holder string, amount int64) error {
	query := `
		INSERT INTO wonka_bar_holdings (lottery_id, holder_address, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (lottery_id, holder_address)
		DO UPDATE SET amount = wonka_bar_holdings.amount + EXCLUDED.amount,
		              updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, lotteryID, holder, amount); err != nil {
		return fmt.Errorf("failed to add %d WonkaBars for lottery %d holder %s: %w", amount, lotteryID, holder, err)
	}

	return nil
}

// BurnFromHolding decrements a holder's balance, deleting the row at zero.
// The amount > 0 table constraint means a full burn must delete, not update.
func (r *WonkaBarRepository) BurnFromHolding(ctx context.Context, lotteryID int64, holder string, amount int64) error {
	deleteQuery := `
		DELETE FROM wonka_bar_holdings
		WHERE lottery_id = $1 AND holder_address = $2 AND amount = $3
	`

	tag, err := r.q.Exec(ctx, deleteQuery, lotteryID, holder, amount)
	if err != nil {
		return fmt.Errorf("failed to burn %d WonkaBars for lottery %d holder %s: %w", amount, lotteryID, holder, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	updateQuery := `
		UPDATE wonka_bar_holdings
		SET amount = amount - $3, updated_at = NOW()
		WHERE lottery_id = $1 AND holder_address = $2 AND amount > $3
	`

	tag, err = r.q.Exec(ctx, updateQuery, lotteryID, holder, amount)
	if err != nil {
		return fmt.Errorf("failed to burn %d WonkaBars for lottery %d holder %s: %w", amount, lotteryID, holder, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("holder %s has fewer than %d WonkaBars in lottery %d: %w",
			holder, amount, lotteryID, entities.ErrUnauthorized)
	}

	return nil
}

// ListHoldings returns all holdings of a lottery in insertion order
func (r *WonkaBarRepository) ListHoldings(ctx context.Context, lotteryID int64) ([]*entities.WonkaBarHolding, error) {
	query := `
		SELECT id, lottery_id, holder_address, amount, created_at, updated_at
		FROM wonka_bar_holdings
		WHERE lottery_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings for lottery %d: %w", lotteryID, err)
	}
	defer rows.Close()

	var holdings []*entities.WonkaBarHolding
	for rows.Next() {
		var h entities.WonkaBarHolding
		if err := rows.Scan(&h.ID, &h.LotteryID, &h.Holder, &h.Amount, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, &h)
	}

	return holdings, rows.Err()
}

// OutstandingSupply returns the sum of un-burned WonkaBars for a lottery
func (r *WonkaBarRepository) OutstandingSupply(ctx context.Context, lotteryID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM wonka_bar_holdings WHERE lottery_id = $1`

	var total int64
	if err := r.q.QueryRow(ctx, query, lotteryID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum outstanding supply for lottery %d: %w", lotteryID, err)
	}

	return total, nil
}

package repository

import (
	"context"
	"fmt"

	"meltyfi/domain/entities"
	"meltyfi/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

const lotteryColumns = `id, owner_address, prize_contract, prize_token_id, expires_at, state,
	       wonka_bar_price, max_supply, sold_supply, winner_address,
	       repaid_amount, refunded_amount, prize_transferred, created_at`

// LotteryRepository implements lottery data access
type LotteryRepository struct {
	q Queryable
}

// NewLotteryRepository creates a new lottery repository
func NewLotteryRepository(q Queryable) interfaces.LotteryRepository {
	return &LotteryRepository{q: q}
}

func scanLottery(row pgx.Row) (*entities.Lottery, error) {
	var lottery entities.Lottery
	err := row.Scan(
		&lottery.ID,
		&lottery.Owner,
		&lottery.PrizeContract,
		&lottery.PrizeTokenID,
		&lottery.ExpiresAt,
		&lottery.State,
		&lottery.WonkaBarPrice,
		&lottery.MaxSupply,
		&lottery.SoldSupply,
		&lottery.Winner,
		&lottery.RepaidAmount,
		&lottery.RefundedAmount,
		&lottery.PrizeTransferred,
		&lottery.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lottery, nil
}

func scanLotteries(rows pgx.Rows) ([]*entities.Lottery, error) {
	defer rows.Close()

	var lotteries []*entities.Lottery
	for rows.Next() {
		lottery, err := scanLottery(rows)
		if err != nil {
			return nil, err
		}
		lotteries = append(lotteries, lottery)
	}
	return lotteries, rows.Err()
}

// Create inserts a new active lottery and assigns its id
func (r *LotteryRepository) Create(ctx context.Context, lottery *entities.Lottery) error {
	query := `
		INSERT INTO lotteries (owner_address, prize_contract, prize_token_id, expires_at,
		                       state, wonka_bar_price, max_supply, sold_supply)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		lottery.Owner,
		lottery.PrizeContract,
		lottery.PrizeTokenID,
		lottery.ExpiresAt,
		lottery.State,
		lottery.WonkaBarPrice,
		lottery.MaxSupply,
		lottery.SoldSupply,
	).Scan(&lottery.ID, &lottery.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lottery: %w", err)
	}

	return nil
}

// GetByID retrieves a lottery by its ID
func (r *LotteryRepository) GetByID(ctx context.Context, id int64) (*entities.Lottery, error) {
	query := fmt.Sprintf(`SELECT %s FROM lotteries WHERE id = $1`, lotteryColumns)

	lottery, err := scanLottery(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery by ID %d: %w", id, err)
	}

	return lottery, nil
}

// GetByIDForUpdate retrieves a lottery by ID with a row lock for update
func (r *LotteryRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Lottery, error) {
	query := fmt.Sprintf(`SELECT %s FROM lotteries WHERE id = $1 FOR UPDATE`, lotteryColumns)

	lottery, err := scanLottery(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery for update by ID %d: %w", id, err)
	}

	return lottery, nil
}

// Update persists mutable lottery fields
func (r *LotteryRepository) Update(ctx context.Context, lottery *entities.Lottery) error {
	query := `
		UPDATE lotteries
		SET state = $2,
		    sold_supply = $3,
		    winner_address = $4,
		    repaid_amount = $5,
		    refunded_amount = $6,
		    prize_transferred = $7
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query,
		lottery.ID,
		lottery.State,
		lottery.SoldSupply,
		lottery.Winner,
		lottery.RepaidAmount,
		lottery.RefundedAmount,
		lottery.PrizeTransferred,
	)
	if err != nil {
		return fmt.Errorf("failed to update lottery %d: %w", lottery.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lottery %d not found for update", lottery.ID)
	}

	return nil
}

// GetFirstExpiredActive returns the first active lottery past its deadline
// that has no pending draw request, or nil when none is due
func (r *LotteryRepository) GetFirstExpiredActive(ctx context.Context) (*entities.Lottery, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM lotteries l
		WHERE l.state = 'active'
		  AND l.expires_at <= NOW()
		  AND NOT EXISTS (SELECT 1 FROM draw_requests dr WHERE dr.lottery_id = l.id)
		ORDER BY l.expires_at
		LIMIT 1
	`, lotteryColumns)

	lottery, err := scanLottery(r.q.QueryRow(ctx, query))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan for expired lotteries: %w", err)
	}

	return lottery, nil
}

// ListActive returns all lotteries currently in the active state
func (r *LotteryRepository) ListActive(ctx context.Context) ([]*entities.Lottery, error) {
	query := fmt.Sprintf(`SELECT %s FROM lotteries WHERE state = 'active' ORDER BY id`, lotteryColumns)

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active lotteries: %w", err)
	}

	return scanLotteries(rows)
}

// ListByOwner returns all lotteries created by an owner
func (r *LotteryRepository) ListByOwner(ctx context.Context, owner string) ([]*entities.Lottery, error) {
	query := fmt.Sprintf(`SELECT %s FROM lotteries WHERE owner_address = $1 ORDER BY id`, lotteryColumns)

	rows, err := r.q.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list lotteries by owner: %w", err)
	}

	return scanLotteries(rows)
}

// ListByHolder returns all lotteries a holder owns WonkaBars in
func (r *LotteryRepository) ListByHolder(ctx context.Context, holder string) ([]*entities.Lottery, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM lotteries l
		WHERE EXISTS (
			SELECT 1 FROM wonka_bar_holdings h
			WHERE h.lottery_id = l.id AND h.holder_address = $1
		)
		ORDER BY l.id
	`, lotteryColumns)

	rows, err := r.q.Query(ctx, query, holder)
	if err != nil {
		return nil, fmt.Errorf("failed to list lotteries by holder: %w", err)
	}

	return scanLotteries(rows)
}

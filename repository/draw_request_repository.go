package repository

import (
	"context"
	"fmt"

	"meltyfi/domain/entities"
	"meltyfi/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// DrawRequestRepository implements pending randomness request access
type DrawRequestRepository struct {
	q Queryable
}

// NewDrawRequestRepository creates a new draw request repository
func NewDrawRequestRepository(q Queryable) interfaces.DrawRequestRepository {
	return &DrawRequestRepository{q: q}
}

// Create stores a pending request. The unique constraint on lottery_id keeps
// at most one request in flight per lottery.
func (r *DrawRequestRepository) Create(ctx context.Context, request *entities.DrawRequest) error {
	query := `
		INSERT INTO draw_requests (lottery_id, handle)
		VALUES ($1, $2)
		RETURNING id, requested_at
	`

	err := r.q.QueryRow(ctx, query, request.LotteryID, request.Handle).
		Scan(&request.ID, &request.RequestedAt)
	if err != nil {
		return fmt.Errorf("failed to create draw request for lottery %d: %w", request.LotteryID, err)
	}

	return nil
}

// GetByLotteryID returns the pending request for a lottery, nil if none
func (r *DrawRequestRepository) GetByLotteryID(ctx context.Context, lotteryID int64) (*entities.DrawRequest, error) {
	query := `
		SELECT id, lottery_id, handle, requested_at
		FROM draw_requests
		WHERE lottery_id = $1
	`

	var request entities.DrawRequest
	err := r.q.QueryRow(ctx, query, lotteryID).
		Scan(&request.ID, &request.LotteryID, &request.Handle, &request.RequestedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw request for lottery %d: %w", lotteryID, err)
	}

	return &request, nil
}

// ListPending returns all pending requests, oldest first
func (r *DrawRequestRepository) ListPending(ctx context.Context) ([]*entities.DrawRequest, error) {
	query := `
		SELECT id, lottery_id, handle, requested_at
		FROM draw_requests
		ORDER BY requested_at
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending draw requests: %w", err)
	}
	defer rows.Close()

	var requests []*entities.DrawRequest
	for rows.Next() {
		var request entities.DrawRequest
		if err := rows.Scan(&request.ID, &request.LotteryID, &request.Handle, &request.RequestedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draw request: %w", err)
		}
		requests = append(requests, &request)
	}

	return requests, rows.Err()
}

// Delete removes a consumed request
func (r *DrawRequestRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM draw_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draw request %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("draw request %d not found", id)
	}

	return nil
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eauction-service/internal/domain/auction"
	"eauction-service/internal/domain/shared"

	"github.com/google/uuid"
)

// AuctionRepository implements the auction repository interface
type AuctionRepository struct {
	conn *Connection
}

// NewAuctionRepository creates a new auction repository
func NewAuctionRepository(conn *Connection) *AuctionRepository {
	return &AuctionRepository{conn: conn}
}

const auctionColumns = `id, item_id, start_time, end_time, status, winner_id, winning_bid,
		total_bids, ending_soon_notified, created_at, updated_at`

// Create creates a new auction
func (r *AuctionRepository) Create(ctx context.Context, auc *auction.Auction) error {
	query := `
		INSERT INTO auctions (` + auctionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		auc.ID,
		auc.ItemID,
		auc.StartTime,
		auc.EndTime,
		auc.Status,
		auc.WinnerID,
		auc.WinningBid,
		auc.TotalBids,
		auc.EndingSoonNotified,
		auc.CreatedAt,
		auc.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create auction: %w", err)
	}

	return nil
}

// GetByID retrieves an auction by ID
func (r *AuctionRepository) GetByID(ctx context.Context, id uuid.UUID) (*auction.Auction, error) {
	query := `
		SELECT ` + auctionColumns + `
		FROM auctions
		WHERE id = $1
	`

	auc, err := scanAuction(r.conn.GetDB().QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrAuctionNotFound
		}
		return nil, fmt.Errorf("failed to get auction: %w", err)
	}

	return auc, nil
}

// ListByStatusAndStartBefore retrieves auctions with the given status whose
// start time is at or before t
func (r *AuctionRepository) ListByStatusAndStartBefore(ctx context.Context, status auction.Status, t time.Time) ([]*auction.Auction, error) {
	query := `
		SELECT ` + auctionColumns + `
		FROM auctions
		WHERE status = $1 AND start_time <= $2
		ORDER BY start_time ASC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, status, t)
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions by start time: %w", err)
	}
	defer rows.Close()

	return collectAuctions(rows)
}

// ListByStatusAndEndBefore retrieves auctions with the given status whose
// end time is at or before t
func (r *AuctionRepository) ListByStatusAndEndBefore(ctx context.Context, status auction.Status, t time.Time) ([]*auction.Auction, error) {
	query := `
		SELECT ` + auctionColumns + `
		FROM auctions
		WHERE status = $1 AND end_time <= $2
		ORDER BY end_time ASC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, status, t)
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions by end time: %w", err)
	}
	defer rows.Close()

	return collectAuctions(rows)
}

// ListEndingSoon retrieves active, not-yet-notified auctions ending after
// now and before cutoff
func (r *AuctionRepository) ListEndingSoon(ctx context.Context, now, cutoff time.Time) ([]*auction.Auction, error) {
	query := `
		SELECT ` + auctionColumns + `
		FROM auctions
		WHERE status = $1 AND end_time > $2 AND end_time < $3 AND ending_soon_notified = false
		ORDER BY end_time ASC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, auction.StatusActive, now, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list ending-soon auctions: %w", err)
	}
	defer rows.Close()

	return collectAuctions(rows)
}

// Update updates an auction
func (r *AuctionRepository) Update(ctx context.Context, auc *auction.Auction) error {
	query := `
		UPDATE auctions
		SET start_time = $2, end_time = $3, status = $4, winner_id = $5, winning_bid = $6,
			total_bids = $7, ending_soon_notified = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.conn.GetDB().ExecContext(ctx, query,
		auc.ID,
		auc.StartTime,
		auc.EndTime,
		auc.Status,
		auc.WinnerID,
		auc.WinningBid,
		auc.TotalBids,
		auc.EndingSoonNotified,
		auc.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update auction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrAuctionNotFound
	}

	return nil
}

// Delete deletes an auction
func (r *AuctionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM auctions WHERE id = $1`

	result, err := r.conn.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete auction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrAuctionNotFound
	}

	return nil
}

func scanAuction(row rowScanner) (*auction.Auction, error) {
	var auc auction.Auction
	err := row.Scan(
		&auc.ID,
		&auc.ItemID,
		&auc.StartTime,
		&auc.EndTime,
		&auc.Status,
		&auc.WinnerID,
		&auc.WinningBid,
		&auc.TotalBids,
		&auc.EndingSoonNotified,
		&auc.CreatedAt,
		&auc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &auc, nil
}

func collectAuctions(rows *sql.Rows) ([]*auction.Auction, error) {
	var auctions []*auction.Auction
	for rows.Next() {
		auc, err := scanAuction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan auction: %w", err)
		}
		auctions = append(auctions, auc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating auctions: %w", err)
	}

	return auctions, nil
}

package db

import (
	"context"
	"database/sql"
	"fmt"

	"eauction-service/internal/domain/bid"
	"eauction-service/internal/domain/shared"

	"github.com/google/uuid"
)

// BidRepository implements the bid repository interface
type BidRepository struct {
	conn *Connection
}

// NewBidRepository creates a new bid repository
func NewBidRepository(conn *Connection) *BidRepository {
	return &BidRepository{conn: conn}
}

const bidColumns = `id, item_id, bidder_id, amount, status, bid_time, created_at, updated_at`

/*
Record places a bid as one transaction:
 1. Marking the superseded bids as outbid
 2. Inserting the new bid record
 3. Advancing the item's current bid and bid counter only if the current
    bid still equals what the caller validated against
 4. Advancing the auction's bid counter

If another transaction moved the current bid in the meantime, the
conditional update touches no rows and the whole write fails with
shared.ErrBidSuperseded.
*/
func (r *BidRepository) Record(ctx context.Context, newBid *bid.Bid, outbid []*bid.Bid, expectedCurrentBid float64) error {
	return r.conn.ExecuteTransaction(func(tx *sql.Tx) error {
		for _, superseded := range outbid {
			updateQuery := `
				UPDATE bids
				SET status = $2, updated_at = $3
				WHERE id = $1
			`
			if _, err := tx.ExecContext(ctx, updateQuery, superseded.ID, superseded.Status, superseded.UpdatedAt); err != nil {
				return fmt.Errorf("failed to mark bid outbid: %w", err)
			}
		}

		insertQuery := `
			INSERT INTO bids (` + bidColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.ExecContext(ctx, insertQuery,
			newBid.ID,
			newBid.ItemID,
			newBid.BidderID,
			newBid.Amount,
			newBid.Status,
			newBid.BidTime,
			newBid.CreatedAt,
			newBid.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bid: %w", err)
		}

		itemQuery := `
			UPDATE items
			SET current_bid = $2, total_bids = total_bids + 1, updated_at = $3
			WHERE id = $1 AND current_bid = $4
		`
		result, err := tx.ExecContext(ctx, itemQuery,
			newBid.ItemID,
			newBid.Amount,
			newBid.UpdatedAt,
			expectedCurrentBid,
		)
		if err != nil {
			return fmt.Errorf("failed to update item current bid: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return shared.ErrBidSuperseded
		}

		auctionQuery := `
			UPDATE auctions
			SET total_bids = total_bids + 1, updated_at = $2
			WHERE id = $1
		`
		if _, err := tx.ExecContext(ctx, auctionQuery, newBid.ItemID, newBid.UpdatedAt); err != nil {
			return fmt.Errorf("failed to update auction bid counter: %w", err)
		}

		return nil
	})
}

// GetByID retrieves a bid by ID
func (r *BidRepository) GetByID(ctx context.Context, id uuid.UUID) (*bid.Bid, error) {
	query := `
		SELECT ` + bidColumns + `
		FROM bids
		WHERE id = $1
	`

	b, err := scanBid(r.conn.GetDB().QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrBidNotFound
		}
		return nil, fmt.Errorf("failed to get bid: %w", err)
	}

	return b, nil
}

// ListByItem retrieves all bids for an item ordered by amount descending,
// then bid time ascending
func (r *BidRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*bid.Bid, error) {
	query := `
		SELECT ` + bidColumns + `
		FROM bids
		WHERE item_id = $1
		ORDER BY amount DESC, bid_time ASC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	defer rows.Close()

	var bids []*bid.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bids = append(bids, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bids: %w", err)
	}

	return bids, nil
}

// HighestByItem retrieves the highest bid for an item. Equal amounts cannot
// be created through admission; the bid-time tiebreak covers repaired data.
func (r *BidRepository) HighestByItem(ctx context.Context, itemID uuid.UUID) (*bid.Bid, error) {
	query := `
		SELECT ` + bidColumns + `
		FROM bids
		WHERE item_id = $1
		ORDER BY amount DESC, bid_time ASC
		LIMIT 1
	`

	b, err := scanBid(r.conn.GetDB().QueryRowContext(ctx, query, itemID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrNoBidsFound
		}
		return nil, fmt.Errorf("failed to get highest bid: %w", err)
	}

	return b, nil
}

// CountByItem returns the number of bids ever placed on an item
func (r *BidRepository) CountByItem(ctx context.Context, itemID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM bids WHERE item_id = $1`

	var count int
	if err := r.conn.GetDB().QueryRowContext(ctx, query, itemID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bids: %w", err)
	}

	return count, nil
}

// FinalizeStatuses persists the statuses of the given bids in one
// transaction
func (r *BidRepository) FinalizeStatuses(ctx context.Context, bids []*bid.Bid) error {
	return r.conn.ExecuteTransaction(func(tx *sql.Tx) error {
		query := `
			UPDATE bids
			SET status = $2, updated_at = $3
			WHERE id = $1
		`
		for _, b := range bids {
			if _, err := tx.ExecContext(ctx, query, b.ID, b.Status, b.UpdatedAt); err != nil {
				return fmt.Errorf("failed to finalize bid status: %w", err)
			}
		}
		return nil
	})
}

func scanBid(row rowScanner) (*bid.Bid, error) {
	var b bid.Bid
	err := row.Scan(
		&b.ID,
		&b.ItemID,
		&b.BidderID,
		&b.Amount,
		&b.Status,
		&b.BidTime,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

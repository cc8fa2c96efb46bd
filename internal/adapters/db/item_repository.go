package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eauction-service/internal/domain/item"
	"eauction-service/internal/domain/shared"

	"github.com/google/uuid"
)

// ItemRepository implements the item repository interface
type ItemRepository struct {
	conn *Connection
}

// NewItemRepository creates a new item repository
func NewItemRepository(conn *Connection) *ItemRepository {
	return &ItemRepository{conn: conn}
}

const itemColumns = `id, title, description, category, minimum_bid, current_bid, bid_increment,
		seller_id, seller_name, auction_start, auction_end, status, total_bids, created_at, updated_at`

// Create creates a new item
func (r *ItemRepository) Create(ctx context.Context, itm *item.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		itm.ID,
		itm.Title,
		itm.Description,
		itm.Category,
		itm.MinimumBid,
		itm.CurrentBid,
		itm.BidIncrement,
		itm.SellerID,
		itm.SellerName,
		itm.AuctionStart,
		itm.AuctionEnd,
		itm.Status,
		itm.TotalBids,
		itm.CreatedAt,
		itm.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by ID
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE id = $1
	`

	itm, err := scanItem(r.conn.GetDB().QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return itm, nil
}

// ListByStatus retrieves items with the given status
func (r *ItemRepository) ListByStatus(ctx context.Context, status item.Status, page, pageSize int) ([]*item.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ListBySeller retrieves all items listed by a seller
func (r *ItemRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*item.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE seller_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seller items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ListOpen retrieves active and pending items whose auction ends after t
func (r *ItemRepository) ListOpen(ctx context.Context, t time.Time) ([]*item.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE status IN ($1, $2) AND auction_end > $3
		ORDER BY auction_end ASC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, item.StatusActive, item.StatusPending, t)
	if err != nil {
		return nil, fmt.Errorf("failed to list open items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// Update updates an item
func (r *ItemRepository) Update(ctx context.Context, itm *item.Item) error {
	query := `
		UPDATE items
		SET title = $2, description = $3, category = $4, minimum_bid = $5, current_bid = $6,
			bid_increment = $7, auction_start = $8, auction_end = $9, status = $10,
			total_bids = $11, updated_at = $12
		WHERE id = $1
	`

	result, err := r.conn.GetDB().ExecContext(ctx, query,
		itm.ID,
		itm.Title,
		itm.Description,
		itm.Category,
		itm.MinimumBid,
		itm.CurrentBid,
		itm.BidIncrement,
		itm.AuctionStart,
		itm.AuctionEnd,
		itm.Status,
		itm.TotalBids,
		itm.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrItemNotFound
	}

	return nil
}

// Delete deletes an item
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM items WHERE id = $1`

	result, err := r.conn.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrItemNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*item.Item, error) {
	var itm item.Item
	err := row.Scan(
		&itm.ID,
		&itm.Title,
		&itm.Description,
		&itm.Category,
		&itm.MinimumBid,
		&itm.CurrentBid,
		&itm.BidIncrement,
		&itm.SellerID,
		&itm.SellerName,
		&itm.AuctionStart,
		&itm.AuctionEnd,
		&itm.Status,
		&itm.TotalBids,
		&itm.CreatedAt,
		&itm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &itm, nil
}

func collectItems(rows *sql.Rows) ([]*item.Item, error) {
	var items []*item.Item
	for rows.Next() {
		itm, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, itm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

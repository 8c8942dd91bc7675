package receipts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
	"github.com/shopspring/decimal"
)

const DefaultListLimit = 20

// Receipt is the local record of an order accepted by the backend.
type Receipt struct {
	OrderID        int64                      `json:"order_id"`
	IdempotencyKey string                     `json:"idempotency_key"`
	Total          decimal.Decimal            `json:"total"`
	ItemCount      int                        `json:"item_count"`
	Items          []domain.OrderResponseItem `json:"items"`
	PlacedAt       time.Time                  `json:"placed_at"`
}

// NewReceipt builds a receipt from the backend's order response. PlacedAt
// falls back to now when the response has no creation time.
func NewReceipt(order domain.OrderResponse, idempotencyKey string) Receipt {
	placedAt := order.CreatedAt.Time
	if placedAt.IsZero() {
		placedAt = time.Now().UTC()
	}
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	return Receipt{
		OrderID:        order.ID,
		IdempotencyKey: idempotencyKey,
		Total:          order.Total,
		ItemCount:      count,
		Items:          order.Items,
		PlacedAt:       placedAt,
	}
}

type Repository struct {
	db *sql.DB
}

// NewRepository expects a database migrated by storage/sqlite.RunMigrations.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Record stores r. Recording the same order twice keeps the first copy.
func (r *Repository) Record(ctx context.Context, receipt Receipt) error {
	items := receipt.Items
	if items == nil {
		items = []domain.OrderResponseItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode receipt items: %w", err)
	}

	query := `
		INSERT INTO receipts (order_id, idempotency_key, total, item_count, payload, placed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(order_id) DO NOTHING
	`
	_, err = r.db.ExecContext(ctx, query,
		receipt.OrderID,
		receipt.IdempotencyKey,
		receipt.Total.String(),
		receipt.ItemCount,
		string(payload),
		receipt.PlacedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}
	return nil
}

// List returns up to limit receipts, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]Receipt, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT order_id, idempotency_key, total, item_count, payload, placed_at
		FROM receipts
		ORDER BY placed_at DESC, order_id DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()

	receipts := []Receipt{}
	for rows.Next() {
		var (
			rec     Receipt
			total   string
			payload string
		)
		if err := rows.Scan(&rec.OrderID, &rec.IdempotencyKey, &total, &rec.ItemCount, &payload, &rec.PlacedAt); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		if rec.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("receipt %d has invalid total: %w", rec.OrderID, err)
		}
		if err := json.Unmarshal([]byte(payload), &rec.Items); err != nil {
			return nil, fmt.Errorf("receipt %d has invalid items: %w", rec.OrderID, err)
		}
		receipts = append(receipts, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return receipts, nil
}

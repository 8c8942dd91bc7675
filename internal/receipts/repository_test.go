package receipts_test

import (
	"context"
	"testing"
	"time"

	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
	"github.com/efojunior25/Notrya-Catalogo/internal/receipts"
	"github.com/efojunior25/Notrya-Catalogo/internal/storage/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *receipts.Repository {
	db, err := sqlite.OpenAndMigrate(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return receipts.NewRepository(db)
}

func order(id int64, createdAt time.Time) domain.OrderResponse {
	return domain.OrderResponse{
		ID:        id,
		CreatedAt: domain.Timestamp{Time: createdAt},
		Total:     decimal.RequireFromString("39.80"),
		Items: []domain.OrderResponseItem{
			{ProductID: 1, ProductName: "Shirt", Quantity: 2, UnitPrice: decimal.RequireFromString("19.90"), LineTotal: decimal.RequireFromString("39.80")},
		},
	}
}

func TestRecordAndList(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Record(ctx, receipts.NewReceipt(order(1, base), "key-1")))
	require.NoError(t, repo.Record(ctx, receipts.NewReceipt(order(2, base.Add(time.Hour)), "key-2")))

	list, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, int64(2), list[0].OrderID)
	assert.Equal(t, int64(1), list[1].OrderID)
	assert.Equal(t, "key-2", list[0].IdempotencyKey)
	assert.Equal(t, 2, list[0].ItemCount)
	assert.True(t, decimal.RequireFromString("39.80").Equal(list[0].Total))
	require.Len(t, list[0].Items, 1)
	assert.Equal(t, "Shirt", list[0].Items[0].ProductName)
	assert.True(t, base.Add(time.Hour).Equal(list[0].PlacedAt))
}

func TestRecord_DuplicateOrderKeepsFirst(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	o := order(7, time.Now().UTC())

	require.NoError(t, repo.Record(ctx, receipts.NewReceipt(o, "first")))
	require.NoError(t, repo.Record(ctx, receipts.NewReceipt(o, "second")))

	list, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "first", list[0].IdempotencyKey)
}

func TestList_Limit(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, repo.Record(ctx, receipts.NewReceipt(order(i, base.Add(time.Duration(i)*time.Minute)), "k")))
	}

	list, err := repo.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(5), list[0].OrderID)
}

func TestList_Empty(t *testing.T) {
	repo := setupTestDB(t)

	list, err := repo.List(context.Background(), 10)

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestNewReceipt_MissingCreatedAt(t *testing.T) {
	r := receipts.NewReceipt(domain.OrderResponse{ID: 3}, "k")

	assert.False(t, r.PlacedAt.IsZero())
	assert.Equal(t, 0, r.ItemCount)
}

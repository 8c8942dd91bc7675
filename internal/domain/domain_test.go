package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderRequest_KeepsOrderAndDropsPrices(t *testing.T) {
	items := []CartLineItem{
		{ProductID: 2, Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
		{ProductID: 1, Quantity: 3, UnitPrice: decimal.NewFromInt(10)},
	}

	req := NewOrderRequest(items)

	require.Len(t, req.Items, 2)
	assert.Equal(t, OrderItem{ProductID: 2, Quantity: 1}, req.Items[0])
	assert.Equal(t, OrderItem{ProductID: 1, Quantity: 3}, req.Items[1])

	body, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"productId":2,"quantity":1},{"productId":1,"quantity":3}]}`, string(body))
}

func TestCartLineItem_Subtotal(t *testing.T) {
	item := CartLineItem{UnitPrice: decimal.RequireFromString("19.90"), Quantity: 3}
	assert.True(t, decimal.RequireFromString("59.70").Equal(item.Subtotal()))
}

func TestTimestamp_ParsesLocalDateTime(t *testing.T) {
	var resp OrderResponse
	err := json.Unmarshal([]byte(`{"id":7,"createdAt":"2024-05-01T10:20:30.123","total":39.8,"items":[]}`), &resp)
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 20, 30, 123000000, time.UTC), resp.CreatedAt.Time)
	assert.True(t, decimal.RequireFromString("39.8").Equal(resp.Total))
}

func TestTimestamp_ParsesRFC3339(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-01T10:20:30Z"`), &ts))
	assert.Equal(t, 2024, ts.Year())
}

func TestTimestamp_RejectsGarbage(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestProduct_InStock(t *testing.T) {
	assert.True(t, Product{Active: true, Stock: 1}.InStock())
	assert.False(t, Product{Active: true, Stock: 0}.InStock())
	assert.False(t, Product{Active: false, Stock: 5}.InStock())
}

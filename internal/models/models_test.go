package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordSetNeverStoresPlaintext(t *testing.T) {
	var p Password
	require.NoError(t, p.Set("hunter22"))

	assert.NotEqual(t, "hunter22", p.Hash)
	assert.NotEmpty(t, p.Hash)

	ok, err := p.Matches("hunter22")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Matches("hunter23")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordMatchesMalformedHash(t *testing.T) {
	p := Password{Hash: "not-a-bcrypt-hash"}

	ok, err := p.Matches("anything")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusActive))
	assert.True(t, ValidStatus(StatusInactive))
	assert.False(t, ValidStatus("Active"))
	assert.False(t, ValidStatus("banned"))
	assert.False(t, ValidStatus(""))
}

func TestOrderItemSubtotal(t *testing.T) {
	item := OrderItem{Quantity: 3, Price: 2.5}
	assert.InDelta(t, 7.5, item.Subtotal(), 1e-9)
}

func TestInventoryNeedsReorder(t *testing.T) {
	assert.True(t, InventoryRecord{QuantityInStock: 5, ReorderLevel: 5}.NeedsReorder())
	assert.False(t, InventoryRecord{QuantityInStock: 6, ReorderLevel: 5}.NeedsReorder())
}

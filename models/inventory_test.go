package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockMovementDelta(t *testing.T) {
	tests := []struct {
		movementType string
		quantity     float64
		want         float64
	}{
		{MovementIn, 5, 5},
		{MovementOut, 5, -5},
		{MovementUsage, 2.5, -2.5},
		{MovementAdjustment, -3, -3},
		{MovementAdjustment, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.movementType, func(t *testing.T) {
			m := StockMovement{MovementType: tt.movementType, Quantity: tt.quantity}
			assert.Equal(t, tt.want, m.Delta())
		})
	}
}

func TestProductLowStock(t *testing.T) {
	assert.True(t, (&Product{QuantityOnHand: 3, ReorderPoint: 3}).LowStock())
	assert.True(t, (&Product{QuantityOnHand: -1}).LowStock())
	assert.False(t, (&Product{QuantityOnHand: 3.5, ReorderPoint: 3}).LowStock())
}

func TestIsBlockType(t *testing.T) {
	for _, bt := range []string{BlockBreak, BlockMaintenance, BlockHoliday, BlockPersonal, BlockOther} {
		assert.True(t, IsBlockType(bt), bt)
	}
	assert.False(t, IsBlockType(""))
	assert.False(t, IsBlockType("Holiday"))
}

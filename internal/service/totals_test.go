package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTotals(t *testing.T) {
	tests := []struct {
		name         string
		itemTotals   []float64
		discount     float64
		wantSubtotal float64
		wantDiscount float64
		wantTotal    float64
	}{
		{
			name:         "sums items and subtracts discount",
			itemTotals:   []float64{500, 1200},
			discount:     200,
			wantSubtotal: 1700,
			wantDiscount: 200,
			wantTotal:    1500,
		},
		{
			name:         "no discount",
			itemTotals:   []float64{100, 50.5},
			discount:     0,
			wantSubtotal: 150.5,
			wantDiscount: 0,
			wantTotal:    150.5,
		},
		{
			name:         "discount clamped to subtotal",
			itemTotals:   []float64{300},
			discount:     5000,
			wantSubtotal: 300,
			wantDiscount: 300,
			wantTotal:    0,
		},
		{
			name:         "negative discount treated as zero",
			itemTotals:   []float64{300},
			discount:     -50,
			wantSubtotal: 300,
			wantDiscount: 0,
			wantTotal:    300,
		},
		{
			name:         "empty item set forces discount to zero",
			itemTotals:   nil,
			discount:     100,
			wantSubtotal: 0,
			wantDiscount: 0,
			wantTotal:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtotal, discount, total := normalizeTotals(tt.itemTotals, tt.discount)
			assert.Equal(t, tt.wantSubtotal, subtotal)
			assert.Equal(t, tt.wantDiscount, discount)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, subtotal-discount, total)
		})
	}
}

package pricing

import (
	"testing"

	"resorthub/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSubtotal(t *testing.T) {
	items := []models.LineItem{
		{Price: 1000, Quantity: 2},
		{Price: 500, Quantity: 1},
	}
	assert.Equal(t, int64(2500), Subtotal(items))
}

func TestSubtotalEmpty(t *testing.T) {
	assert.Equal(t, int64(0), Subtotal(nil))
}

func TestQuoteItemsCanonicalRate(t *testing.T) {
	items := []models.LineItem{
		{Price: 1000, Quantity: 2},
		{Price: 500, Quantity: 1},
	}

	q := QuoteItems(items, CanonicalRate)
	assert.Equal(t, int64(2500), q.Subtotal)
	assert.Equal(t, int64(450), q.Tax)
	assert.Equal(t, int64(2950), q.Total)
}

func TestTaxRounding(t *testing.T) {
	// 0.18 × 3 = 0.54 rounds to 1, 0.18 × 2 = 0.36 rounds to 0.
	assert.Equal(t, int64(1), Tax(3, CanonicalRate))
	assert.Equal(t, int64(0), Tax(2, CanonicalRate))
}

func TestTotal(t *testing.T) {
	assert.Equal(t, int64(2950), Total(2500, 450))
}

// Package pricing derives subtotal, tax and total amounts from line items.
// All amounts are integer currency units.
package pricing

import (
	"math"

	"resorthub/internal/models"
)

// CanonicalRate is the single tax/fee rate applied across the storefront
// (18% GST). Every call site that charges tax uses this constant.
const CanonicalRate = 0.18

// Subtotal returns Σ price×quantity over the items.
func Subtotal(items []models.LineItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.LineTotal()
	}
	return sum
}

// Tax returns the tax amount for a subtotal at the given rate, rounded to the
// nearest integer unit.
func Tax(subtotal int64, rate float64) int64 {
	return int64(math.Round(float64(subtotal) * rate))
}

// Total returns subtotal + tax.
func Total(subtotal, tax int64) int64 {
	return subtotal + tax
}

// Quote bundles the three derived amounts for a set of items.
type Quote struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// QuoteItems prices the items at the given rate.
func QuoteItems(items []models.LineItem, rate float64) Quote {
	subtotal := Subtotal(items)
	tax := Tax(subtotal, rate)
	return Quote{Subtotal: subtotal, Tax: tax, Total: Total(subtotal, tax)}
}

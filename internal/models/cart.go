package models

// CartState is a read-only snapshot of the working set. ItemCount and Total
// are always derived from Items; they are never set independently.
type CartState struct {
	Items     []LineItem `json:"items"`
	ItemCount int        `json:"itemCount"`
	Total     int64      `json:"total"`
}

// DeriveCartState computes the aggregates for a set of items.
func DeriveCartState(items []LineItem) CartState {
	state := CartState{Items: items}
	for _, item := range items {
		state.ItemCount += item.Quantity
		state.Total += item.LineTotal()
	}
	return state
}

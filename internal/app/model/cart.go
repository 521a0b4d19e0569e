package model

import "github.com/shopspring/decimal"

// CartItem is one cart line. Price is a snapshot taken when the item was added.
// Variant is empty when the line has no variant.
type CartItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image"`
	Variant  string          `json:"variant,omitempty"`
}

// SameLine reports whether two items share the (product id, variant) key.
func (i CartItem) SameLine(other CartItem) bool {
	return i.ID == other.ID && i.Variant == other.Variant
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

package model

import "time"

// StockUnlimited is the stock sentinel meaning the product never runs out.
const StockUnlimited int64 = -1

// Product is a redeemable catalog item priced in points.
type Product struct {
	ID          int64
	Name        string
	Description *string
	ImageURL    *string
	PointsCost  int64
	Stock       int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasStock reports whether at least one unit can still be redeemed.
func (p *Product) HasStock() bool {
	return p.Stock == StockUnlimited || p.Stock > 0
}

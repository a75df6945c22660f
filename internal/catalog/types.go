package catalog

import "github.com/shopspring/decimal"

// PlaceholderImage is used when a product is created without an image.
const PlaceholderImage = "https://via.placeholder.com/300x420?text=No+Image"

// Product is one purchasable card in the catalog.
//
// Image is either a URL or an embedded data URI. MarketPrice is the
// external reference price and may legitimately be below Price.
type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	MarketPrice  decimal.Decimal `json:"marketPrice"`
	Stock        int             `json:"stock"`
	Image        string          `json:"image"`
	MarketURL    string          `json:"marketUrl"`
	MarketSource string          `json:"marketSource"`
}

// ProductInput carries the caller-supplied fields for Create. The id
// is always assigned by the store.
type ProductInput struct {
	Name         string
	Description  string
	Price        decimal.Decimal
	MarketPrice  decimal.Decimal
	Stock        int
	Image        string
	MarketURL    string
	MarketSource string
}

// ProductUpdate is a partial update: nil fields are left untouched.
// The id and any field not listed here cannot be overwritten.
type ProductUpdate struct {
	Name         *string
	Description  *string
	Price        *decimal.Decimal
	MarketPrice  *decimal.Decimal
	Stock        *int
	Image        *string
	MarketURL    *string
	MarketSource *string
}

// Stats is the inventory summary shown on the admin dashboard.
type Stats struct {
	TotalProducts int             `json:"total_products"`
	StockValue    decimal.Decimal `json:"stock_value"` // sum of price * stock
	LowStock      int             `json:"low_stock"`   // in stock but below the threshold
	OutOfStock    int             `json:"out_of_stock"`
}

// lowStockThreshold marks products worth restocking soon.
const lowStockThreshold = 5

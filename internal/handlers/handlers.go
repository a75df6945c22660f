package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/pokecards/storefront/internal/aws"
	"github.com/pokecards/storefront/internal/cart"
	"github.com/pokecards/storefront/internal/catalog"
	"github.com/pokecards/storefront/internal/orders"
	"github.com/pokecards/storefront/internal/payments"
	"github.com/pokecards/storefront/internal/storage"
)

// HandlerConfig groups dependencies for the storefront handlers.
type HandlerConfig struct {
	Catalog   *catalog.Store
	Cart      *cart.Store
	Orders    *orders.Store
	Gateway   payments.Gateway
	Publisher *aws.Publisher // nil disables fulfillment events

	Currency string          // settlement currency, e.g. INR
	TaxRate  decimal.Decimal // e.g. 0.08
	FXRate   decimal.Decimal // USD -> settlement currency
}

// productView is the JSON shape for catalog responses. Prices become
// floats only at this edge.
type productView struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	MarketPrice  float64 `json:"marketPrice"`
	Stock        int     `json:"stock"`
	Image        string  `json:"image"`
	MarketURL    string  `json:"marketUrl"`
	MarketSource string  `json:"marketSource"`
}

func toProductView(p catalog.Product) productView {
	return productView{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price.InexactFloat64(),
		MarketPrice:  p.MarketPrice.InexactFloat64(),
		Stock:        p.Stock,
		Image:        p.Image,
		MarketURL:    p.MarketURL,
		MarketSource: p.MarketSource,
	}
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// writeStoreError maps the stores' error taxonomy onto HTTP statuses.
// Everything in the taxonomy is recoverable; only unexpected errors
// become 500s.
func writeStoreError(c *gin.Context, err error) {
	var insufficient *cart.InsufficientStockError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
	case errors.Is(err, cart.ErrItemNotInCart):
		c.JSON(http.StatusNotFound, gin.H{"error": "item_not_in_cart"})
	case errors.Is(err, cart.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_quantity"})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{"error": "insufficient_stock", "product": insufficient.ProductName})
	case errors.Is(err, orders.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{"error": "empty_cart"})
	case errors.Is(err, storage.ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "storage_conflict"})
	default:
		log.Printf("handler error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

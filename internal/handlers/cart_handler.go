package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pokecards/storefront/internal/catalog"
	"github.com/pokecards/storefront/internal/validation"
)

// cartLineView is one resolved cart line. Lines whose product no
// longer exists are skipped entirely, matching the storefront UI.
type cartLineView struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
	// StockWarning flags lines whose quantity now exceeds live stock;
	// checkout would reject them until the shopper adjusts.
	StockWarning bool `json:"stock_warning,omitempty"`
}

// RegisterCartRoutes registers the cart read and mutation surface.
func RegisterCartRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.GET("/cart", func(c *gin.Context) {
		ctx := c.Request.Context()
		lines, err := cfg.Cart.List(ctx)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		views := make([]cartLineView, 0, len(lines))
		for _, line := range lines {
			product, err := cfg.Catalog.GetByID(ctx, line.ProductID)
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			if err != nil {
				writeStoreError(c, err)
				return
			}
			subtotal := product.Price.Mul(decimalFromInt(line.Quantity))
			views = append(views, cartLineView{
				ProductID:    line.ProductID,
				Name:         product.Name,
				Price:        product.Price.InexactFloat64(),
				Quantity:     line.Quantity,
				Subtotal:     subtotal.InexactFloat64(),
				StockWarning: line.Quantity > product.Stock,
			})
		}
		total, err := cfg.Cart.Total(ctx)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		count, err := cfg.Cart.ItemCount(ctx)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"items":      views,
			"subtotal":   total.InexactFloat64(),
			"item_count": count,
		})
	})

	r.POST("/cart/items", func(c *gin.Context) {
		var req validation.AddToCartRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if err := cfg.Cart.Add(c.Request.Context(), req.ProductID, quantity); err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "added_to_cart"})
	})

	r.PUT("/cart/items/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req validation.SetQuantityRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		if err := cfg.Cart.SetQuantity(c.Request.Context(), id, *req.Quantity); err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "quantity_updated"})
	})

	r.DELETE("/cart/items/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := cfg.Cart.Remove(c.Request.Context(), id); err != nil {
			writeStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.DELETE("/cart", func(c *gin.Context) {
		if err := cfg.Cart.Clear(c.Request.Context()); err != nil {
			writeStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

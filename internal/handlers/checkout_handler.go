package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pokecards/storefront/internal/catalog"
	"github.com/pokecards/storefront/internal/orders"
	"github.com/pokecards/storefront/internal/payments"
	"github.com/pokecards/storefront/internal/validation"
)

// RegisterCheckoutRoutes registers POST /checkout and GET /orders.
func RegisterCheckoutRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.POST("/checkout", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CheckoutRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		// Pre-validate the cart before taking any money. The order
		// store revalidates inside Create; this pass exists so a
		// doomed checkout never reaches the provider.
		lines, err := cfg.Cart.List(ctx)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		if len(lines) == 0 {
			writeStoreError(c, orders.ErrEmptyCart)
			return
		}
		for _, line := range lines {
			product, err := cfg.Catalog.GetByID(ctx, line.ProductID)
			if errors.Is(err, catalog.ErrNotFound) || (err == nil && product.Stock < line.Quantity) {
				c.JSON(http.StatusConflict, gin.H{"error": "insufficient_stock", "product_id": line.ProductID})
				return
			}
			if err != nil {
				writeStoreError(c, err)
				return
			}
		}

		// Subtotal in USD, plus tax, converted to the settlement
		// currency's minor unit for the provider.
		subtotal, err := cfg.Cart.Total(ctx)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		grandTotal := subtotal.Add(subtotal.Mul(cfg.TaxRate))
		amountMinor := grandTotal.Mul(cfg.FXRate).Shift(2).Round(0).IntPart()

		receipt := uuid.NewString()
		charge, err := cfg.Gateway.Charge(ctx, payments.ChargeRequest{
			Amount:   amountMinor,
			Currency: cfg.Currency,
			Name:     req.Name,
			Email:    req.Email,
			Contact:  req.Phone,
			Receipt:  receipt,
		})
		if err != nil {
			var payErr *payments.Error
			if errors.As(err, &payErr) {
				c.JSON(http.StatusPaymentRequired, gin.H{
					"error":       "payment_failed",
					"code":        payErr.Code,
					"description": payErr.Description,
					"reason":      payErr.Reason,
				})
				return
			}
			log.Printf("checkout: gateway error: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment_unavailable"})
			return
		}

		order, err := cfg.Orders.Create(ctx, orders.Customer{
			Name:          req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			PaymentID:     charge.PaymentID,
			PaymentMethod: charge.Method,
		})
		if err != nil {
			// The charge already went through; surface the failure and
			// leave reconciliation to support, as the storefront always
			// has.
			log.Printf("checkout: order creation failed after payment %s: %v", charge.PaymentID, err)
			writeStoreError(c, err)
			return
		}

		if cfg.Publisher != nil {
			payload, _ := json.Marshal(map[string]string{
				"order_id":       fmt.Sprintf("%d", order.ID),
				"payment_id":     charge.PaymentID,
				"correlation_id": receipt,
			})
			attrs := map[string]string{
				"order_id":       fmt.Sprintf("%d", order.ID),
				"correlation_id": c.GetHeader("X-Request-Id"),
			}
			if err := cfg.Publisher.SendOrderPlaced(ctx, string(payload), attrs); err != nil {
				// The order is durable either way; fulfillment catches up
				// out of band.
				log.Printf("checkout: enqueue fulfillment for order %d: %v", order.ID, err)
			}
		}

		c.Header("Location", fmt.Sprintf("/orders/%d", order.ID))
		c.JSON(http.StatusCreated, gin.H{
			"order_id":     order.ID,
			"payment_id":   charge.PaymentID,
			"total":        order.Total.InexactFloat64(),
			"amount_minor": amountMinor,
			"currency":     cfg.Currency,
		})
	})

	r.GET("/orders", func(c *gin.Context) {
		history, err := cfg.Orders.List(c.Request.Context())
		if err != nil {
			writeStoreError(c, err)
			return
		}
		views := make([]gin.H, 0, len(history))
		for _, o := range history {
			items := make([]gin.H, 0, len(o.Items))
			for _, item := range o.Items {
				items = append(items, gin.H{
					"productId": item.ProductID,
					"name":      item.Name,
					"price":     item.Price.InexactFloat64(),
					"quantity":  item.Quantity,
				})
			}
			views = append(views, gin.H{
				"id":       o.ID,
				"date":     o.Date,
				"customer": o.Customer,
				"items":    items,
				"total":    o.Total.InexactFloat64(),
			})
		}
		c.JSON(http.StatusOK, gin.H{"total": len(views), "orders": views})
	})
}

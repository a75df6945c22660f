package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/pokecards/storefront/internal/catalog"
	"github.com/pokecards/storefront/internal/validation"
)

// RegisterCatalogRoutes registers the public catalog reads and the
// admin CRUD surface.
func RegisterCatalogRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.GET("/products", func(c *gin.Context) {
		ctx := c.Request.Context()
		products, err := cfg.Catalog.List(ctx)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		views := make([]productView, 0, len(products))
		for _, p := range products {
			views = append(views, toProductView(p))
		}
		c.JSON(http.StatusOK, gin.H{"total": len(views), "products": views})
	})

	r.GET("/products/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		product, err := cfg.Catalog.GetByID(c.Request.Context(), id)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, toProductView(*product))
	})

	admin := r.Group("/admin")

	admin.POST("/products", func(c *gin.Context) {
		var req validation.CreateProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		product, err := cfg.Catalog.Create(c.Request.Context(), catalog.ProductInput{
			Name:         req.Name,
			Description:  req.Description,
			Price:        decimal.NewFromFloat(req.Price),
			MarketPrice:  decimal.NewFromFloat(req.MarketPrice),
			Stock:        req.Stock,
			Image:        req.Image,
			MarketURL:    req.MarketURL,
			MarketSource: req.MarketSource,
		})
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toProductView(*product))
	})

	admin.PUT("/products/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req validation.UpdateProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		upd := catalog.ProductUpdate{
			Name:         req.Name,
			Description:  req.Description,
			Stock:        req.Stock,
			Image:        req.Image,
			MarketURL:    req.MarketURL,
			MarketSource: req.MarketSource,
		}
		if req.Price != nil {
			price := decimal.NewFromFloat(*req.Price)
			upd.Price = &price
		}
		if req.MarketPrice != nil {
			marketPrice := decimal.NewFromFloat(*req.MarketPrice)
			upd.MarketPrice = &marketPrice
		}
		product, err := cfg.Catalog.Update(c.Request.Context(), id, upd)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, toProductView(*product))
	})

	admin.DELETE("/products/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := cfg.Catalog.Delete(c.Request.Context(), id); err != nil {
			writeStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	admin.GET("/stats", func(c *gin.Context) {
		stats, err := cfg.Catalog.Stats(c.Request.Context())
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"total_products": stats.TotalProducts,
			"stock_value":    stats.StockValue.InexactFloat64(),
			"low_stock":      stats.LowStock,
			"out_of_stock":   stats.OutOfStock,
		})
	})
}

// pathID parses the :id path segment; writes a 400 on junk input.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return 0, false
	}
	return id, true
}

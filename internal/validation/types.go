package validation

// CreateProductRequest is the payload for POST /admin/products.
// Prices arrive as floats at the API edge and are converted to
// decimals before they reach the catalog.
type CreateProductRequest struct {
	Name         string  `json:"name" validate:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price" validate:"gte=0"`
	MarketPrice  float64 `json:"marketPrice" validate:"gte=0"`
	Stock        int     `json:"stock" validate:"gte=0"`
	Image        string  `json:"image,omitempty"`
	MarketURL    string  `json:"marketUrl,omitempty" validate:"omitempty,url"`
	MarketSource string  `json:"marketSource,omitempty"`
}

// UpdateProductRequest is the payload for PUT /admin/products/:id.
// Absent fields leave the stored product untouched; at least one field
// must be present (enforced by struct-level validation).
type UpdateProductRequest struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	MarketPrice  *float64 `json:"marketPrice,omitempty" validate:"omitempty,gte=0"`
	Stock        *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Image        *string  `json:"image,omitempty"`
	MarketURL    *string  `json:"marketUrl,omitempty" validate:"omitempty,url"`
	MarketSource *string  `json:"marketSource,omitempty"`
}

// AddToCartRequest is the payload for POST /cart/items. A zero
// quantity means "one", matching the storefront's quick-add button.
type AddToCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"gte=0"`
}

// SetQuantityRequest is the payload for PUT /cart/items/:id. Zero
// removes the line, so the field is a pointer to tell "0" from
// "absent".
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

// CheckoutRequest is the payload for POST /checkout.
type CheckoutRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,len=10,numeric"`
}

package cart

// Line is a pending-purchase intent: a product referenced by id with a
// desired quantity. The reference is weak; the product may have been
// deleted since the line was added, and readers must skip lines that
// no longer resolve.
type Line struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

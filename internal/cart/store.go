package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/pokecards/storefront/internal/catalog"
	"github.com/pokecards/storefront/internal/storage"
)

var (
	// ErrItemNotInCart is returned by SetQuantity for a product with no
	// existing line; only Add creates lines.
	ErrItemNotInCart = errors.New("item not in cart")

	// ErrInvalidQuantity is returned by Add for quantities below one.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// InsufficientStockError is returned when a requested quantity exceeds
// the live stock, or the product no longer exists at all.
type InsufficientStockError struct {
	ProductName string // empty when the product is gone
}

func (e *InsufficientStockError) Error() string {
	if e.ProductName == "" {
		return "insufficient stock"
	}
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}

// Store owns the cart collection: at most one line per product id.
// Stock sufficiency is enforced at mutation time against the live
// catalog; stock can still drop underneath an existing line, which is
// why checkout revalidates every line.
type Store struct {
	mu      sync.Mutex
	sub     storage.Substrate
	catalog *catalog.Store
}

// NewStore creates a cart Store validating against the given catalog.
func NewStore(sub storage.Substrate, cat *catalog.Store) *Store {
	return &Store{sub: sub, catalog: cat}
}

// Init writes an empty cart snapshot if none exists yet.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var lines []Line
	found, err := s.sub.Load(ctx, storage.CollectionCart, &lines)
	if err != nil {
		return fmt.Errorf("init cart: %w", err)
	}
	if found {
		return nil
	}
	if err := s.sub.Save(ctx, storage.CollectionCart, []Line{}); err != nil {
		return fmt.Errorf("init cart: %w", err)
	}
	return nil
}

// List returns the current cart lines.
func (s *Store) List(ctx context.Context) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Add creates a line for the product or increments an existing one.
// The cumulative quantity must not exceed the product's current stock.
func (s *Store) Add(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.resolve(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil || product.Stock < quantity {
		return &InsufficientStockError{ProductName: productName(product)}
	}

	lines, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].ProductID == productID {
			newQuantity := lines[i].Quantity + quantity
			if newQuantity > product.Stock {
				return &InsufficientStockError{ProductName: product.Name}
			}
			lines[i].Quantity = newQuantity
			return s.save(ctx, lines)
		}
	}
	lines = append(lines, Line{ProductID: productID, Quantity: quantity})
	return s.save(ctx, lines)
}

// Remove deletes the line if present; removing an absent line is a
// no-op.
func (s *Store) Remove(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept, removed := dropLine(lines, productID)
	if !removed {
		return nil
	}
	return s.save(ctx, kept)
}

// SetQuantity replaces the quantity of an existing line. A quantity of
// zero or less removes the line. SetQuantity never creates lines.
func (s *Store) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.load(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i := range lines {
		if lines[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrItemNotInCart
	}
	if quantity <= 0 {
		kept, _ := dropLine(lines, productID)
		return s.save(ctx, kept)
	}

	product, err := s.resolve(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil || quantity > product.Stock {
		return &InsufficientStockError{ProductName: productName(product)}
	}
	lines[idx].Quantity = quantity
	return s.save(ctx, lines)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, []Line{})
}

// Total sums price*quantity over every line whose product still
// resolves; dangling lines contribute zero.
func (s *Store) Total(ctx context.Context) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.load(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, line := range lines {
		product, err := s.resolve(ctx, line.ProductID)
		if err != nil {
			return decimal.Zero, err
		}
		if product == nil {
			continue
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}

// ItemCount sums quantities across all lines, dangling or not.
func (s *Store) ItemCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count, nil
}

// resolve maps catalog misses to (nil, nil) so callers can fold the
// dangling-product case into their stock checks.
func (s *Store) resolve(ctx context.Context, productID int64) (*catalog.Product, error) {
	product, err := s.catalog.GetByID(ctx, productID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Store) load(ctx context.Context) ([]Line, error) {
	var lines []Line
	if _, err := s.sub.Load(ctx, storage.CollectionCart, &lines); err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return lines, nil
}

func (s *Store) save(ctx context.Context, lines []Line) error {
	if err := s.sub.Save(ctx, storage.CollectionCart, lines); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func productName(product *catalog.Product) string {
	if product == nil {
		return ""
	}
	return product.Name
}

func dropLine(lines []Line, productID int64) ([]Line, bool) {
	kept := make([]Line, 0, len(lines))
	removed := false
	for _, line := range lines {
		if line.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	return kept, removed
}

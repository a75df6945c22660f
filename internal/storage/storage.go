package storage

import (
	"context"
	"errors"
)

// Collection names. Each collection is persisted as one whole-snapshot
// JSON document; there are no per-record writes.
const (
	CollectionProducts = "products"
	CollectionCart     = "cart"
	CollectionOrders   = "orders"
)

// ErrVersionConflict is returned by backends that do optimistic
// concurrency control when a snapshot was modified by another writer
// between Load and Save.
var ErrVersionConflict = errors.New("collection snapshot version conflict")

// Substrate is the persistence layer shared by the catalog, cart and
// order stores.
//
// Load unmarshals the stored snapshot for collection into v and
// reports whether a snapshot was found. A missing collection or a
// corrupt payload yields (false, nil): the stores treat both as
// "empty" rather than failing the operation.
//
// Save replaces the whole snapshot for collection with v.
type Substrate interface {
	Load(ctx context.Context, collection string, v any) (bool, error)
	Save(ctx context.Context, collection string, v any) error
}

package core

import "context"

// User is a login account. Passwords are stored and compared as-is,
// matching the records already in the users collection.
type User struct {
	Username string `bson:"username"`
	Password string `bson:"password"`
}

// ProductStore is the persistence contract for the product catalog.
// Implementations live in internal/store; ids are exchanged as the
// store's native unique-id format rendered as hex strings.
type ProductStore interface {
	// Insert stores a new product and returns its assigned id.
	Insert(ctx context.Context, p *Product) (string, error)

	// FindByID returns ErrInvalidID for a malformed id and ErrNotFound
	// when no product has the given id.
	FindByID(ctx context.Context, id string) (*Product, error)

	// List returns every product in the catalog.
	List(ctx context.Context) ([]Product, error)

	// Update applies a partial patch. Unknown ids are ErrNotFound; there
	// is no upsert.
	Update(ctx context.Context, id string, patch ProductPatch) (*Product, error)

	// Delete removes a product, reporting ErrNotFound when nothing was
	// deleted.
	Delete(ctx context.Context, id string) error

	// Exists reports whether a product with the given id is present.
	// A malformed id reads as absent, not as an error.
	Exists(ctx context.Context, id string) (bool, error)
}

// SaleStore persists committed sales.
type SaleStore interface {
	// InsertMany performs the importer's single bulk write. It is
	// all-or-nothing at the store's discretion; the importer never
	// retries or splits the batch.
	InsertMany(ctx context.Context, sales []Sale) error
}

// UserStore looks up login accounts.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
}

package ledger

import "context"

// Repository defines the interface for ledger persistence.
type Repository interface {
	// Insert persists a new ledger entry.
	Insert(ctx context.Context, entry *Entry) error

	// DeleteByOwnerAndURLs bulk-deletes the owner's entries matching the
	// given URLs and returns the number of rows removed. Zero is not an error.
	DeleteByOwnerAndURLs(ctx context.Context, ownerID string, urls []string) (int64, error)

	// DeleteByIDs removes entries by ledger id.
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)

	// ListForOwner returns every pending entry for one owner.
	ListForOwner(ctx context.Context, ownerID string) ([]*Entry, error)

	// ListAll returns every pending entry across owners.
	ListAll(ctx context.Context) ([]*Entry, error)
}

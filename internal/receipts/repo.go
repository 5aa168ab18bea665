package receipts

import "context"

// Repo defines persistence operations for documents. Every query is scoped
// to the owning user.
type Repo interface {
	Create(ctx context.Context, receipt Receipt) (Receipt, error)
	GetByID(ctx context.Context, userID, receiptID int64) (Receipt, error)
	ListByUser(ctx context.Context, userID int64) ([]Receipt, error)
	// Delete removes the metadata row and any link rows pointing at it.
	Delete(ctx context.Context, userID, receiptID int64) error
	// CreateLink inserts an asset-document link; ErrAlreadyLinked when the
	// pair already exists.
	CreateLink(ctx context.Context, assetID, documentID int64) (Link, error)
	// AssetOwned reports whether the asset exists and belongs to the user.
	AssetOwned(ctx context.Context, userID, assetID int64) (bool, error)
}

package assets

import "context"

// DocumentSummary is the nested document view returned with asset listings.
type DocumentSummary struct {
	ID           int64  `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	StorageURL   string `json:"storageUrl,omitempty"`
}

// Repo defines persistence operations for assets. Every query is scoped to
// the owning user; a row owned by someone else is indistinguishable from an
// absent one.
type Repo interface {
	Create(ctx context.Context, asset Asset) (Asset, error)
	GetByID(ctx context.Context, userID, assetID int64) (Asset, error)
	ListByUser(ctx context.Context, userID int64) ([]Asset, error)
	// Update applies a partial update; ErrNotFound when no owned row matched.
	Update(ctx context.Context, userID, assetID int64, upd Update) (Asset, error)
	// LinkedDocuments returns documents attached to the asset, including the
	// legacy direct receipt_url match.
	LinkedDocuments(ctx context.Context, userID, assetID int64) ([]DocRef, error)
	ListDocuments(ctx context.Context, assetID int64) ([]DocumentSummary, error)
	// DeleteCascade removes link rows, the given document rows, and the
	// asset itself inside one transaction. Returns ErrNotFound when the
	// asset row did not exist for the user.
	DeleteCascade(ctx context.Context, userID, assetID int64, docIDs []int64) error
}

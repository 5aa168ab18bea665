package receipts

import "time"

// Receipt is the metadata row for one uploaded document. The blob itself
// lives in the object store under StorageKey.
type Receipt struct {
	ID            int64
	UserID        int64
	Filename      string
	OriginalName  string
	FileSize      int64
	MimeType      string
	StorageKey    string
	StorageURL    string
	Processed     bool
	ExtractedData []byte
	CreatedAt     time.Time
}

// Link ties a document to an asset.
type Link struct {
	ID         int64
	AssetID    int64
	DocumentID int64
	CreatedAt  time.Time
}

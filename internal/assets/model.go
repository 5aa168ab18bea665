package assets

import "time"

// Asset statuses.
const (
	StatusActive = "active"
	StatusSold   = "sold"
	StatusLost   = "lost"
	StatusBroken = "broken"
)

// ValidStatus reports whether s is a known asset status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusSold, StatusLost, StatusBroken:
		return true
	}
	return false
}

// Asset is a tracked item owned by one user. Sale fields are optional
// metadata; nothing ties them to status=sold and they may be recorded in
// either order.
type Asset struct {
	ID             int64
	UserID         int64
	Name           string
	Category       string
	PurchasePrice  float64
	PurchaseDate   time.Time
	Status         string
	Description    string
	Model          string
	SerialNumber   string
	WarrantyExpiry *time.Time
	SalePrice      *float64
	SaleDate       *time.Time
	ReceiptURL     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Update carries the fields of a partial update; nil means "not supplied".
type Update struct {
	Name           *string
	Category       *string
	PurchasePrice  *float64
	PurchaseDate   *time.Time
	Status         *string
	Description    *string
	Model          *string
	SerialNumber   *string
	WarrantyExpiry *time.Time
	SalePrice      *float64
	SaleDate       *time.Time
}

// DocRef identifies one document attached to an asset, enough to clean up
// both the metadata row and the stored blob.
type DocRef struct {
	ID         int64
	StorageKey string
}

// DeleteResult reports what an asset deletion cleaned up.
type DeleteResult struct {
	DeletedObjects   int
	DeletedDocuments int
}

package assets

import (
	"time"

	"assettracker-backend/internal/shared/util"
)

// CreateRequest is the inbound payload for asset creation. API fields are
// camelCase; columns are snake_case.
type CreateRequest struct {
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	PurchasePrice  *float64 `json:"purchasePrice"`
	PurchaseDate   string   `json:"purchaseDate"`
	Status         string   `json:"status"`
	Description    string   `json:"description"`
	Model          string   `json:"model"`
	SerialNumber   string   `json:"serialNumber"`
	WarrantyExpiry string   `json:"warrantyExpiry"`
	SalePrice      *float64 `json:"salePrice"`
	SaleDate       string   `json:"saleDate"`
}

// UpdateRequest is the inbound payload for partial updates; absent fields
// keep their stored values.
type UpdateRequest struct {
	Name           *string  `json:"name"`
	Category       *string  `json:"category"`
	PurchasePrice  *float64 `json:"purchasePrice"`
	PurchaseDate   *string  `json:"purchaseDate"`
	Status         *string  `json:"status"`
	Description    *string  `json:"description"`
	Model          *string  `json:"model"`
	SerialNumber   *string  `json:"serialNumber"`
	WarrantyExpiry *string  `json:"warrantyExpiry"`
	SalePrice      *float64 `json:"salePrice"`
	SaleDate       *string  `json:"saleDate"`
}

// Response is the outward-facing representation of an asset.
type Response struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Category       string            `json:"category"`
	PurchasePrice  float64           `json:"purchasePrice"`
	PurchaseDate   string            `json:"purchaseDate"`
	Status         string            `json:"status"`
	Description    string            `json:"description,omitempty"`
	Model          string            `json:"model,omitempty"`
	SerialNumber   string            `json:"serialNumber,omitempty"`
	WarrantyExpiry *string           `json:"warrantyExpiry,omitempty"`
	SalePrice      *float64          `json:"salePrice,omitempty"`
	SaleDate       *string           `json:"saleDate,omitempty"`
	ReceiptURL     string            `json:"receiptUrl,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
	Documents      []DocumentSummary `json:"documents,omitempty"`
}

func toResponse(asset Asset, docs []DocumentSummary) Response {
	return Response{
		ID:             asset.ID,
		Name:           asset.Name,
		Category:       asset.Category,
		PurchasePrice:  asset.PurchasePrice,
		PurchaseDate:   util.FormatDate(asset.PurchaseDate),
		Status:         asset.Status,
		Description:    asset.Description,
		Model:          asset.Model,
		SerialNumber:   asset.SerialNumber,
		WarrantyExpiry: util.FormatDatePtr(asset.WarrantyExpiry),
		SalePrice:      asset.SalePrice,
		SaleDate:       util.FormatDatePtr(asset.SaleDate),
		ReceiptURL:     asset.ReceiptURL,
		CreatedAt:      asset.CreatedAt,
		UpdatedAt:      asset.UpdatedAt,
		Documents:      docs,
	}
}

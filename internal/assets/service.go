package assets

import (
	"context"
	"strings"

	"assettracker-backend/internal/shared/storage/object"
	"assettracker-backend/internal/shared/telemetry"
	"assettracker-backend/internal/shared/util"
)

// Service contains business logic for assets.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

// ListItem pairs an asset with its linked documents.
type ListItem struct {
	Asset     Asset
	Documents []DocumentSummary
}

// List returns every asset owned by the user with its linked documents.
// One nested fetch per asset; fine at personal-inventory scale.
func (s *Service) List(ctx context.Context, userID int64) ([]ListItem, error) {
	items, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]ListItem, 0, len(items))
	for _, asset := range items {
		docs, err := s.Repo.ListDocuments(ctx, asset.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ListItem{Asset: asset, Documents: docs})
	}
	return out, nil
}

// Get returns one asset scoped to its owner.
func (s *Service) Get(ctx context.Context, userID, assetID int64) (Asset, error) {
	return s.Repo.GetByID(ctx, userID, assetID)
}

// GetWithDocuments returns one asset and its linked documents.
func (s *Service) GetWithDocuments(ctx context.Context, userID, assetID int64) (Asset, []DocumentSummary, error) {
	asset, err := s.Repo.GetByID(ctx, userID, assetID)
	if err != nil {
		return Asset{}, nil, err
	}
	docs, err := s.Repo.ListDocuments(ctx, asset.ID)
	if err != nil {
		return Asset{}, nil, err
	}
	return asset, docs, nil
}

// Create validates the payload and inserts the asset.
func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (Asset, error) {
	asset, err := validateCreate(req)
	if err != nil {
		return Asset{}, err
	}
	asset.UserID = userID
	return s.Repo.Create(ctx, asset)
}

// Update validates only the supplied fields and applies a partial update.
func (s *Service) Update(ctx context.Context, userID, assetID int64, req UpdateRequest) (Asset, error) {
	upd, err := validateUpdate(req)
	if err != nil {
		return Asset{}, err
	}
	return s.Repo.Update(ctx, userID, assetID, upd)
}

// Delete removes the asset, its document links, and its document rows.
// Blob deletion is best-effort: a storage failure is logged and counted
// against, never blocking record deletion.
func (s *Service) Delete(ctx context.Context, userID, assetID int64) (DeleteResult, error) {
	if _, err := s.Repo.GetByID(ctx, userID, assetID); err != nil {
		return DeleteResult{}, err
	}

	docs, err := s.Repo.LinkedDocuments(ctx, userID, assetID)
	if err != nil {
		return DeleteResult{}, err
	}

	var result DeleteResult
	docIDs := make([]int64, 0, len(docs))
	for _, doc := range docs {
		docIDs = append(docIDs, doc.ID)
		if doc.StorageKey == "" {
			continue
		}
		if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
			telemetry.Error("asset.delete.blob_failed", map[string]any{
				"asset_id":    assetID,
				"document_id": doc.ID,
				"storage_key": doc.StorageKey,
				"error":       err.Error(),
			})
			continue
		}
		result.DeletedObjects++
	}

	if err := s.Repo.DeleteCascade(ctx, userID, assetID, docIDs); err != nil {
		return DeleteResult{}, err
	}
	result.DeletedDocuments = len(docIDs)

	telemetry.Info("asset.deleted", map[string]any{
		"asset_id":          assetID,
		"user_id":           userID,
		"deleted_objects":   result.DeletedObjects,
		"deleted_documents": result.DeletedDocuments,
	})
	return result, nil
}

func validateCreate(req CreateRequest) (Asset, error) {
	var asset Asset

	asset.Name = strings.TrimSpace(req.Name)
	if asset.Name == "" {
		return Asset{}, invalidField("name", "is required")
	}
	asset.Category = strings.TrimSpace(req.Category)
	if asset.Category == "" {
		return Asset{}, invalidField("category", "is required")
	}
	if req.PurchasePrice == nil {
		return Asset{}, invalidField("purchasePrice", "is required")
	}
	if *req.PurchasePrice <= 0 {
		return Asset{}, invalidField("purchasePrice", "must be greater than zero")
	}
	asset.PurchasePrice = *req.PurchasePrice

	if strings.TrimSpace(req.PurchaseDate) == "" {
		return Asset{}, invalidField("purchaseDate", "is required")
	}
	purchaseDate, err := util.ParseDate(req.PurchaseDate)
	if err != nil {
		return Asset{}, invalidField("purchaseDate", err.Error())
	}
	asset.PurchaseDate = purchaseDate

	asset.Status = strings.TrimSpace(req.Status)
	if asset.Status == "" {
		asset.Status = StatusActive
	}
	if !ValidStatus(asset.Status) {
		return Asset{}, invalidField("status", "must be one of active, sold, lost, broken")
	}

	asset.Description = strings.TrimSpace(req.Description)
	asset.Model = strings.TrimSpace(req.Model)
	asset.SerialNumber = strings.TrimSpace(req.SerialNumber)

	if strings.TrimSpace(req.WarrantyExpiry) != "" {
		t, err := util.ParseDate(req.WarrantyExpiry)
		if err != nil {
			return Asset{}, invalidField("warrantyExpiry", err.Error())
		}
		asset.WarrantyExpiry = &t
	}
	asset.SalePrice = req.SalePrice
	if strings.TrimSpace(req.SaleDate) != "" {
		t, err := util.ParseDate(req.SaleDate)
		if err != nil {
			return Asset{}, invalidField("saleDate", err.Error())
		}
		asset.SaleDate = &t
	}

	return asset, nil
}

func validateUpdate(req UpdateRequest) (Update, error) {
	var upd Update
	fields := 0

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return Update{}, invalidField("name", "must not be empty")
		}
		upd.Name = &name
		fields++
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return Update{}, invalidField("category", "must not be empty")
		}
		upd.Category = &category
		fields++
	}
	if req.PurchasePrice != nil {
		if *req.PurchasePrice <= 0 {
			return Update{}, invalidField("purchasePrice", "must be greater than zero")
		}
		upd.PurchasePrice = req.PurchasePrice
		fields++
	}
	if req.PurchaseDate != nil {
		t, err := util.ParseDate(*req.PurchaseDate)
		if err != nil {
			return Update{}, invalidField("purchaseDate", err.Error())
		}
		upd.PurchaseDate = &t
		fields++
	}
	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		if !ValidStatus(status) {
			return Update{}, invalidField("status", "must be one of active, sold, lost, broken")
		}
		upd.Status = &status
		fields++
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		upd.Description = &desc
		fields++
	}
	if req.Model != nil {
		model := strings.TrimSpace(*req.Model)
		upd.Model = &model
		fields++
	}
	if req.SerialNumber != nil {
		sn := strings.TrimSpace(*req.SerialNumber)
		upd.SerialNumber = &sn
		fields++
	}
	if req.WarrantyExpiry != nil {
		t, err := util.ParseDate(*req.WarrantyExpiry)
		if err != nil {
			return Update{}, invalidField("warrantyExpiry", err.Error())
		}
		upd.WarrantyExpiry = &t
		fields++
	}
	if req.SalePrice != nil {
		if *req.SalePrice < 0 {
			return Update{}, invalidField("salePrice", "must not be negative")
		}
		upd.SalePrice = req.SalePrice
		fields++
	}
	if req.SaleDate != nil {
		t, err := util.ParseDate(*req.SaleDate)
		if err != nil {
			return Update{}, invalidField("saleDate", err.Error())
		}
		upd.SaleDate = &t
		fields++
	}

	if fields == 0 {
		return Update{}, invalidField("payload", "no fields to update")
	}
	return upd, nil
}

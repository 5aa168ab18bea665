package assets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	db "assettracker-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const assetColumns = `
id, user_id, name, category, purchase_price, purchase_date, status,
description, model, serial_number, warranty_expiry, sale_price, sale_date,
receipt_url, created_at, updated_at`

// Create inserts a new asset and returns the stored row.
func (r *PGRepo) Create(ctx context.Context, asset Asset) (Asset, error) {
	const query = `
INSERT INTO assets (
    user_id, name, category, purchase_price, purchase_date, status,
    description, model, serial_number, warranty_expiry, sale_price, sale_date,
    created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())
RETURNING ` + assetColumns

	row := r.DB.QueryRowContext(
		ctx,
		query,
		asset.UserID,
		asset.Name,
		asset.Category,
		asset.PurchasePrice,
		asset.PurchaseDate,
		asset.Status,
		nullableString(asset.Description),
		nullableString(asset.Model),
		nullableString(asset.SerialNumber),
		asset.WarrantyExpiry,
		asset.SalePrice,
		asset.SaleDate,
	)
	return scanAsset(row)
}

// GetByID fetches an asset scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, assetID int64) (Asset, error) {
	query := `SELECT ` + assetColumns + `
FROM assets
WHERE id = $1 AND user_id = $2
LIMIT 1`
	asset, err := scanAsset(r.DB.QueryRowContext(ctx, query, assetID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Asset{}, ErrNotFound
		}
		return Asset{}, err
	}
	return asset, nil
}

// ListByUser returns the user's assets, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID int64) ([]Asset, error) {
	query := `SELECT ` + assetColumns + `
FROM assets
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, asset)
	}
	return out, rows.Err()
}

// Update emits set-clauses only for fields present in upd, always touching
// updated_at. Zero affected rows map to ErrNotFound.
func (r *PGRepo) Update(ctx context.Context, userID, assetID int64, upd Update) (Asset, error) {
	b := db.NewUpdate("assets")
	if upd.Name != nil {
		b.Set("name", *upd.Name)
	}
	if upd.Category != nil {
		b.Set("category", *upd.Category)
	}
	if upd.PurchasePrice != nil {
		b.Set("purchase_price", *upd.PurchasePrice)
	}
	if upd.PurchaseDate != nil {
		b.Set("purchase_date", *upd.PurchaseDate)
	}
	if upd.Status != nil {
		b.Set("status", *upd.Status)
	}
	if upd.Description != nil {
		b.Set("description", nullableString(*upd.Description))
	}
	if upd.Model != nil {
		b.Set("model", nullableString(*upd.Model))
	}
	if upd.SerialNumber != nil {
		b.Set("serial_number", nullableString(*upd.SerialNumber))
	}
	if upd.WarrantyExpiry != nil {
		b.Set("warranty_expiry", *upd.WarrantyExpiry)
	}
	if upd.SalePrice != nil {
		b.Set("sale_price", *upd.SalePrice)
	}
	if upd.SaleDate != nil {
		b.Set("sale_date", *upd.SaleDate)
	}
	b.SetExpr("updated_at = now()")
	b.Where("id", assetID)
	b.Where("user_id", userID)

	query, args, err := b.Build()
	if err != nil {
		return Asset{}, err
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return Asset{}, err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return Asset{}, ErrNotFound
	}

	return r.GetByID(ctx, userID, assetID)
}

// LinkedDocuments enumerates receipts attached to the asset through the link
// table plus the legacy direct receipt_url column.
func (r *PGRepo) LinkedDocuments(ctx context.Context, userID, assetID int64) ([]DocRef, error) {
	const query = `
SELECT r.id, r.storage_key
FROM receipts r
JOIN asset_documents ad ON ad.document_id = r.id
WHERE ad.asset_id = $1 AND r.user_id = $2`

	rows, err := r.DB.QueryContext(ctx, query, assetID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocRef
	seen := make(map[int64]struct{})
	for rows.Next() {
		var ref DocRef
		if err := rows.Scan(&ref.ID, &ref.StorageKey); err != nil {
			return nil, err
		}
		out = append(out, ref)
		seen[ref.ID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Legacy path: an asset may carry a direct receipt_url whose document
	// was never linked through the link table.
	const legacyQuery = `
SELECT r.id, r.storage_key
FROM receipts r
JOIN assets a ON a.receipt_url = r.storage_url
WHERE a.id = $1 AND a.user_id = $2 AND a.receipt_url IS NOT NULL`

	legacyRows, err := r.DB.QueryContext(ctx, legacyQuery, assetID, userID)
	if err != nil {
		return nil, err
	}
	defer legacyRows.Close()

	for legacyRows.Next() {
		var ref DocRef
		if err := legacyRows.Scan(&ref.ID, &ref.StorageKey); err != nil {
			return nil, err
		}
		if _, dup := seen[ref.ID]; !dup {
			out = append(out, ref)
		}
	}
	return out, legacyRows.Err()
}

// ListDocuments returns the nested document view for one asset.
func (r *PGRepo) ListDocuments(ctx context.Context, assetID int64) ([]DocumentSummary, error) {
	const query = `
SELECT r.id, r.filename, r.original_name, r.mime_type, r.storage_url
FROM receipts r
JOIN asset_documents ad ON ad.document_id = r.id
WHERE ad.asset_id = $1
ORDER BY ad.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocumentSummary
	for rows.Next() {
		var doc DocumentSummary
		var storageURL sql.NullString
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.OriginalName, &doc.MimeType, &storageURL); err != nil {
			return nil, err
		}
		if storageURL.Valid {
			doc.StorageURL = storageURL.String
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// DeleteCascade removes link rows, document rows, and the asset inside one
// transaction so a crash cannot leave orphaned metadata.
func (r *PGRepo) DeleteCascade(ctx context.Context, userID, assetID int64, docIDs []int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM asset_documents WHERE asset_id = $1`, assetID); err != nil {
		return fmt.Errorf("delete asset links: %w", err)
	}

	if len(docIDs) > 0 {
		placeholders := make([]string, len(docIDs))
		args := make([]any, 0, len(docIDs)+1)
		args = append(args, userID)
		for i, id := range docIDs {
			placeholders[i] = fmt.Sprintf("$%d", i+2)
			args = append(args, id)
		}
		query := `DELETE FROM receipts WHERE user_id = $1 AND id IN (` + strings.Join(placeholders, ", ") + `)`
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete asset documents: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM assets WHERE id = $1 AND user_id = $2`, assetID, userID)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (Asset, error) {
	var asset Asset
	var description sql.NullString
	var model sql.NullString
	var serialNumber sql.NullString
	var warrantyExpiry sql.NullTime
	var salePrice sql.NullFloat64
	var saleDate sql.NullTime
	var receiptURL sql.NullString

	err := row.Scan(
		&asset.ID,
		&asset.UserID,
		&asset.Name,
		&asset.Category,
		&asset.PurchasePrice,
		&asset.PurchaseDate,
		&asset.Status,
		&description,
		&model,
		&serialNumber,
		&warrantyExpiry,
		&salePrice,
		&saleDate,
		&receiptURL,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
	if err != nil {
		return Asset{}, err
	}
	if description.Valid {
		asset.Description = description.String
	}
	if model.Valid {
		asset.Model = model.String
	}
	if serialNumber.Valid {
		asset.SerialNumber = serialNumber.String
	}
	if warrantyExpiry.Valid {
		t := warrantyExpiry.Time
		asset.WarrantyExpiry = &t
	}
	if salePrice.Valid {
		v := salePrice.Float64
		asset.SalePrice = &v
	}
	if saleDate.Valid {
		t := saleDate.Time
		asset.SaleDate = &t
	}
	if receiptURL.Valid {
		asset.ReceiptURL = receiptURL.String
	}
	return asset, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)

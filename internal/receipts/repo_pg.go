package receipts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const receiptColumns = `
id, user_id, filename, original_name, file_size, mime_type, storage_key,
storage_url, processed, extracted_data, created_at`

// Create inserts the metadata row for an uploaded document.
func (r *PGRepo) Create(ctx context.Context, receipt Receipt) (Receipt, error) {
	const query = `
INSERT INTO receipts (
    user_id, filename, original_name, file_size, mime_type, storage_key,
    storage_url, processed, extracted_data, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
RETURNING ` + receiptColumns

	row := r.DB.QueryRowContext(
		ctx,
		query,
		receipt.UserID,
		receipt.Filename,
		receipt.OriginalName,
		receipt.FileSize,
		receipt.MimeType,
		receipt.StorageKey,
		nullableString(receipt.StorageURL),
		receipt.Processed,
		nullableBytes(receipt.ExtractedData),
	)
	return scanReceipt(row)
}

// GetByID fetches a document scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, receiptID int64) (Receipt, error) {
	query := `SELECT ` + receiptColumns + `
FROM receipts
WHERE id = $1 AND user_id = $2
LIMIT 1`
	receipt, err := scanReceipt(r.DB.QueryRowContext(ctx, query, receiptID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Receipt{}, ErrNotFound
		}
		return Receipt{}, err
	}
	return receipt, nil
}

// ListByUser returns the user's documents, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID int64) ([]Receipt, error) {
	query := `SELECT ` + receiptColumns + `
FROM receipts
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, receipt)
	}
	return out, rows.Err()
}

// Delete removes the metadata row; link rows go with it via the FK cascade.
func (r *PGRepo) Delete(ctx context.Context, userID, receiptID int64) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM receipts WHERE id = $1 AND user_id = $2`, receiptID, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateLink inserts an asset-document link. A unique violation on
// (asset_id, document_id) maps to ErrAlreadyLinked.
func (r *PGRepo) CreateLink(ctx context.Context, assetID, documentID int64) (Link, error) {
	const query = `
INSERT INTO asset_documents (asset_id, document_id, created_at)
VALUES ($1, $2, now())
RETURNING id, asset_id, document_id, created_at`

	var link Link
	err := r.DB.QueryRowContext(ctx, query, assetID, documentID).
		Scan(&link.ID, &link.AssetID, &link.DocumentID, &link.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Link{}, ErrAlreadyLinked
		}
		return Link{}, fmt.Errorf("create document link: %w", err)
	}
	return link, nil
}

// AssetOwned reports whether the asset exists for the user.
func (r *PGRepo) AssetOwned(ctx context.Context, userID, assetID int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM assets WHERE id = $1 AND user_id = $2)`,
		assetID, userID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row rowScanner) (Receipt, error) {
	var receipt Receipt
	var storageURL sql.NullString
	var extracted []byte

	err := row.Scan(
		&receipt.ID,
		&receipt.UserID,
		&receipt.Filename,
		&receipt.OriginalName,
		&receipt.FileSize,
		&receipt.MimeType,
		&receipt.StorageKey,
		&storageURL,
		&receipt.Processed,
		&extracted,
		&receipt.CreatedAt,
	)
	if err != nil {
		return Receipt{}, err
	}
	if storageURL.Valid {
		receipt.StorageURL = storageURL.String
	}
	receipt.ExtractedData = extracted
	return receipt, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableBytes(value []byte) any {
	if len(value) == 0 {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)

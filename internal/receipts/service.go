package receipts

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"assettracker-backend/internal/shared/metrics"
	"assettracker-backend/internal/shared/storage/object"
	"assettracker-backend/internal/shared/telemetry"
	"assettracker-backend/internal/shared/util"
)

// SignedURLTTL is how long view and download links stay valid.
const SignedURLTTL = time.Hour

// Accepted upload content types, keyed by mime with canonical extension.
var allowedMimeTypes = map[string]string{
	"application/pdf": "pdf",
	"image/jpeg":      "jpg",
	"image/jpg":       "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"image/tiff":      "tiff",
	"image/webp":      "webp",
}

// AllowedMimeType reports whether uploads of this content type are accepted.
func AllowedMimeType(mimeType string) bool {
	_, ok := allowedMimeTypes[mimeType]
	return ok
}

// Upload describes one inbound file.
type Upload struct {
	OriginalName string
	MimeType     string
	Size         int64
	DocumentType string
	Body         io.Reader
}

// Service contains business logic for documents.
type Service struct {
	Repo           Repo
	Store          object.ObjectStore
	MaxUploadBytes int64
}

// UploadResult pairs the stored metadata row with the sanitized document
// type that shaped the storage key. The type is not persisted on the row.
type UploadResult struct {
	Receipt      Receipt
	DocumentType string
}

// Upload validates the file, writes the blob, and records the metadata row.
// The mime and size gates run before anything touches the object store.
func (s *Service) Upload(ctx context.Context, userID int64, externalUserID string, up Upload) (UploadResult, error) {
	ext, ok := allowedMimeTypes[strings.ToLower(strings.TrimSpace(up.MimeType))]
	if !ok {
		metrics.IncUpload("rejected_mime")
		return UploadResult{}, invalidField("file", fmt.Sprintf("unsupported content type %q", up.MimeType))
	}
	if s.MaxUploadBytes > 0 && up.Size > s.MaxUploadBytes {
		metrics.IncUpload("rejected_size")
		return UploadResult{}, invalidField("file", fmt.Sprintf("file exceeds %d byte limit", s.MaxUploadBytes))
	}
	if up.Size <= 0 {
		metrics.IncUpload("rejected_empty")
		return UploadResult{}, invalidField("file", "file is empty")
	}

	originalName, err := util.SanitizeFileName(up.OriginalName)
	if err != nil {
		metrics.IncUpload("rejected_name")
		return UploadResult{}, invalidField("file", "invalid file name")
	}

	docType := sanitizeDocType(up.DocumentType)
	filename := uuid.NewString() + "." + ext
	storageKey := path.Join("documents", externalUserID, docType, filename)

	size, err := s.Store.Save(ctx, storageKey, up.MimeType, up.Body)
	if err != nil {
		metrics.IncUpload("store_failed")
		return UploadResult{}, fmt.Errorf("save document blob: %w", err)
	}

	receipt, err := s.Repo.Create(ctx, Receipt{
		UserID:       userID,
		Filename:     filename,
		OriginalName: originalName,
		FileSize:     size,
		MimeType:     up.MimeType,
		StorageKey:   storageKey,
	})
	if err != nil {
		// Metadata insert failed after the blob landed; remove the orphan.
		if delErr := s.Store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Error("document.upload.orphan_blob", map[string]any{
				"storage_key": storageKey,
				"error":       delErr.Error(),
			})
		}
		metrics.IncUpload("db_failed")
		return UploadResult{}, fmt.Errorf("record document: %w", err)
	}

	metrics.IncUpload("ok")
	telemetry.Info("document.uploaded", map[string]any{
		"document_id":   receipt.ID,
		"user_id":       userID,
		"document_type": docType,
		"mime_type":     receipt.MimeType,
		"size_bytes":    receipt.FileSize,
	})
	return UploadResult{Receipt: receipt, DocumentType: docType}, nil
}

// List returns the user's documents.
func (s *Service) List(ctx context.Context, userID int64) ([]Receipt, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// ViewURL returns a one-hour signed URL for inline viewing.
func (s *Service) ViewURL(ctx context.Context, userID, receiptID int64) (string, error) {
	receipt, err := s.Repo.GetByID(ctx, userID, receiptID)
	if err != nil {
		return "", err
	}
	return s.Store.SignedURL(ctx, receipt.StorageKey, SignedURLTTL, "")
}

// DownloadURL returns a one-hour signed URL that forces a download with the
// original filename.
func (s *Service) DownloadURL(ctx context.Context, userID, receiptID int64) (string, error) {
	receipt, err := s.Repo.GetByID(ctx, userID, receiptID)
	if err != nil {
		return "", err
	}
	name := receipt.OriginalName
	if name == "" {
		name = receipt.Filename
	}
	return s.Store.SignedURL(ctx, receipt.StorageKey, SignedURLTTL, name)
}

// Link attaches a document to an asset. Both rows must belong to the user;
// duplicate pairs surface as ErrAlreadyLinked.
func (s *Service) Link(ctx context.Context, userID, assetID, documentID int64) (Link, error) {
	owned, err := s.Repo.AssetOwned(ctx, userID, assetID)
	if err != nil {
		return Link{}, err
	}
	if !owned {
		return Link{}, ErrAssetNotFound
	}
	if _, err := s.Repo.GetByID(ctx, userID, documentID); err != nil {
		return Link{}, err
	}
	return s.Repo.CreateLink(ctx, assetID, documentID)
}

// Delete removes the metadata row and, best effort, the stored blob.
func (s *Service) Delete(ctx context.Context, userID, receiptID int64) error {
	receipt, err := s.Repo.GetByID(ctx, userID, receiptID)
	if err != nil {
		return err
	}

	if receipt.StorageKey != "" {
		if err := s.Store.Delete(ctx, receipt.StorageKey); err != nil {
			telemetry.Error("document.delete.blob_failed", map[string]any{
				"document_id": receiptID,
				"storage_key": receipt.StorageKey,
				"error":       err.Error(),
			})
		}
	}
	return s.Repo.Delete(ctx, userID, receiptID)
}

func sanitizeDocType(docType string) string {
	docType = strings.ToLower(strings.TrimSpace(docType))
	switch docType {
	case "receipt", "invoice", "warranty", "manual", "other":
		return docType
	}
	return "receipt"
}

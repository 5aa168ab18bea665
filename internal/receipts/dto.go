package receipts

import "time"

// Response is the outward-facing representation of a document.
type Response struct {
	ID           int64     `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	FileSize     int64     `json:"fileSize"`
	MimeType     string    `json:"mimeType"`
	Processed    bool      `json:"processed"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toResponse(receipt Receipt) Response {
	return Response{
		ID:           receipt.ID,
		Filename:     receipt.Filename,
		OriginalName: receipt.OriginalName,
		FileSize:     receipt.FileSize,
		MimeType:     receipt.MimeType,
		Processed:    receipt.Processed,
		CreatedAt:    receipt.CreatedAt,
	}
}

// UploadResponse echoes the declared document type alongside the stored
// metadata.
type UploadResponse struct {
	Response
	DocumentType string `json:"documentType"`
}

func toUploadResponse(res UploadResult) UploadResponse {
	return UploadResponse{
		Response:     toResponse(res.Receipt),
		DocumentType: res.DocumentType,
	}
}

// LinkRequest is the inbound payload for attaching a document to an asset.
type LinkRequest struct {
	AssetID    int64 `json:"assetId"`
	DocumentID int64 `json:"documentId"`
}

// LinkResponse reports a created link.
type LinkResponse struct {
	ID         int64 `json:"id"`
	AssetID    int64 `json:"assetId"`
	DocumentID int64 `json:"documentId"`
}

package receipts

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	receipts    map[int64]Receipt
	links       map[[2]int64]bool
	ownedAssets map[int64]bool
	nextID      int64
	failCreate  bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		receipts:    make(map[int64]Receipt),
		links:       make(map[[2]int64]bool),
		ownedAssets: make(map[int64]bool),
	}
}

func (f *fakeRepo) Create(_ context.Context, receipt Receipt) (Receipt, error) {
	if f.failCreate {
		return Receipt{}, errors.New("insert failed")
	}
	f.nextID++
	receipt.ID = f.nextID
	f.receipts[receipt.ID] = receipt
	return receipt, nil
}

func (f *fakeRepo) GetByID(_ context.Context, userID, receiptID int64) (Receipt, error) {
	receipt, ok := f.receipts[receiptID]
	if !ok || receipt.UserID != userID {
		return Receipt{}, ErrNotFound
	}
	return receipt, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID int64) ([]Receipt, error) {
	var out []Receipt
	for _, receipt := range f.receipts {
		if receipt.UserID == userID {
			out = append(out, receipt)
		}
	}
	return out, nil
}

func (f *fakeRepo) Delete(_ context.Context, userID, receiptID int64) error {
	receipt, ok := f.receipts[receiptID]
	if !ok || receipt.UserID != userID {
		return ErrNotFound
	}
	delete(f.receipts, receiptID)
	return nil
}

func (f *fakeRepo) CreateLink(_ context.Context, assetID, documentID int64) (Link, error) {
	key := [2]int64{assetID, documentID}
	if f.links[key] {
		return Link{}, ErrAlreadyLinked
	}
	f.links[key] = true
	return Link{ID: int64(len(f.links)), AssetID: assetID, DocumentID: documentID}, nil
}

func (f *fakeRepo) AssetOwned(_ context.Context, _, assetID int64) (bool, error) {
	return f.ownedAssets[assetID], nil
}

type recordingStore struct {
	saves      int
	deletes    []string
	savedKey   string
	savedMime  string
	failDelete bool
}

func (s *recordingStore) Save(_ context.Context, key, contentType string, r io.Reader) (int64, error) {
	s.saves++
	s.savedKey = key
	s.savedMime = contentType
	n, err := io.Copy(io.Discard, r)
	return n, err
}

func (s *recordingStore) Open(_ context.Context, _ string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (s *recordingStore) Delete(_ context.Context, key string) error {
	if s.failDelete {
		return errors.New("storage unavailable")
	}
	s.deletes = append(s.deletes, key)
	return nil
}

func (s *recordingStore) SignedURL(_ context.Context, key string, _ time.Duration, downloadName string) (string, error) {
	url := "https://signed.example/" + key
	if downloadName != "" {
		url += "?download=" + downloadName
	}
	return url, nil
}

func pdfUpload(name string, size int64) Upload {
	return typedPDFUpload(name, "receipt", size)
}

func typedPDFUpload(name, docType string, size int64) Upload {
	return Upload{
		OriginalName: name,
		MimeType:     "application/pdf",
		Size:         size,
		DocumentType: docType,
		Body:         strings.NewReader(strings.Repeat("x", int(size))),
	}
}

func TestUploadRejectsMimeBeforeStore(t *testing.T) {
	store := &recordingStore{}
	svc := &Service{Repo: newFakeRepo(), Store: store, MaxUploadBytes: 10 << 20}

	_, err := svc.Upload(context.Background(), 1, "uid-1", Upload{
		OriginalName: "payload.exe",
		MimeType:     "application/octet-stream",
		Size:         100,
		Body:         strings.NewReader("MZ"),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, store.saves)
}

func TestUploadRejectsOversizeBeforeStore(t *testing.T) {
	store := &recordingStore{}
	svc := &Service{Repo: newFakeRepo(), Store: store, MaxUploadBytes: 1024}

	_, err := svc.Upload(context.Background(), 1, "uid-1", pdfUpload("big.pdf", 2048))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, store.saves)
}

func TestUploadStoresUnderScopedKey(t *testing.T) {
	store := &recordingStore{}
	svc := &Service{Repo: newFakeRepo(), Store: store, MaxUploadBytes: 10 << 20}

	result, err := svc.Upload(context.Background(), 1, "firebase-abc", pdfUpload("receipt scan.pdf", 64))
	require.NoError(t, err)

	assert.Equal(t, 1, store.saves)
	assert.True(t, strings.HasPrefix(store.savedKey, "documents/firebase-abc/receipt/"))
	assert.True(t, strings.HasSuffix(store.savedKey, ".pdf"))
	assert.Equal(t, "application/pdf", store.savedMime)
	assert.Equal(t, int64(64), result.Receipt.FileSize)
	assert.Equal(t, "receipt scan.pdf", result.Receipt.OriginalName)
	assert.Equal(t, "receipt", result.DocumentType)
}

func TestUploadKeyFollowsDeclaredType(t *testing.T) {
	cases := []struct {
		declared string
		want     string
	}{
		{"receipt", "receipt"},
		{"invoice", "invoice"},
		{"warranty", "warranty"},
		{"manual", "manual"},
		{"other", "other"},
		{"INVOICE", "invoice"},
		{"tax-form", "receipt"},
		{"", "receipt"},
	}
	for _, tc := range cases {
		t.Run(tc.declared, func(t *testing.T) {
			store := &recordingStore{}
			svc := &Service{Repo: newFakeRepo(), Store: store, MaxUploadBytes: 10 << 20}

			result, err := svc.Upload(context.Background(), 1, "uid-1",
				typedPDFUpload("doc.pdf", tc.declared, 32))
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(store.savedKey, "documents/uid-1/"+tc.want+"/"),
				"key %q", store.savedKey)
			assert.Equal(t, tc.want, result.DocumentType)
		})
	}
}

func TestUploadCleansUpBlobWhenInsertFails(t *testing.T) {
	repo := newFakeRepo()
	repo.failCreate = true
	store := &recordingStore{}
	svc := &Service{Repo: repo, Store: store, MaxUploadBytes: 10 << 20}

	_, err := svc.Upload(context.Background(), 1, "uid-1", pdfUpload("r.pdf", 16))
	require.Error(t, err)
	require.Len(t, store.deletes, 1)
	assert.Equal(t, store.savedKey, store.deletes[0])
}

func TestLinkDuplicateConflicts(t *testing.T) {
	repo := newFakeRepo()
	repo.ownedAssets[3] = true
	repo.receipts[9] = Receipt{ID: 9, UserID: 1}
	svc := &Service{Repo: repo, Store: &recordingStore{}}

	_, err := svc.Link(context.Background(), 1, 3, 9)
	require.NoError(t, err)

	_, err = svc.Link(context.Background(), 1, 3, 9)
	assert.ErrorIs(t, err, ErrAlreadyLinked)
}

func TestLinkForeignAssetHidden(t *testing.T) {
	repo := newFakeRepo()
	repo.receipts[9] = Receipt{ID: 9, UserID: 1}
	svc := &Service{Repo: repo, Store: &recordingStore{}}

	_, err := svc.Link(context.Background(), 1, 3, 9)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestLinkForeignDocumentHidden(t *testing.T) {
	repo := newFakeRepo()
	repo.ownedAssets[3] = true
	repo.receipts[9] = Receipt{ID: 9, UserID: 2}
	svc := &Service{Repo: repo, Store: &recordingStore{}}

	_, err := svc.Link(context.Background(), 1, 3, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDownloadURLUsesOriginalName(t *testing.T) {
	repo := newFakeRepo()
	repo.receipts[9] = Receipt{
		ID: 9, UserID: 1, OriginalName: "invoice.pdf",
		StorageKey: "documents/u/receipt/x.pdf",
	}
	svc := &Service{Repo: repo, Store: &recordingStore{}}

	url, err := svc.DownloadURL(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.Contains(t, url, "download=invoice.pdf")
}

func TestDeleteSurvivesBlobFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.receipts[9] = Receipt{ID: 9, UserID: 1, StorageKey: "documents/u/receipt/x.pdf"}
	svc := &Service{Repo: repo, Store: &recordingStore{failDelete: true}}

	err := svc.Delete(context.Background(), 1, 9)
	require.NoError(t, err)
	_, err = repo.GetByID(context.Background(), 1, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

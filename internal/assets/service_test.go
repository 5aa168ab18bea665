package assets

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	assets      map[int64]Asset
	docs        map[int64][]DocRef
	created     []Asset
	lastUpdate  Update
	cascadeDocs []int64
	cascaded    bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		assets: make(map[int64]Asset),
		docs:   make(map[int64][]DocRef),
	}
}

func (f *fakeRepo) Create(_ context.Context, asset Asset) (Asset, error) {
	asset.ID = int64(len(f.created) + 1)
	f.created = append(f.created, asset)
	f.assets[asset.ID] = asset
	return asset, nil
}

func (f *fakeRepo) GetByID(_ context.Context, userID, assetID int64) (Asset, error) {
	asset, ok := f.assets[assetID]
	if !ok || asset.UserID != userID {
		return Asset{}, ErrNotFound
	}
	return asset, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID int64) ([]Asset, error) {
	var out []Asset
	for _, asset := range f.assets {
		if asset.UserID == userID {
			out = append(out, asset)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, userID, assetID int64, upd Update) (Asset, error) {
	f.lastUpdate = upd
	asset, ok := f.assets[assetID]
	if !ok || asset.UserID != userID {
		return Asset{}, ErrNotFound
	}
	if upd.Name != nil {
		asset.Name = *upd.Name
	}
	if upd.Status != nil {
		asset.Status = *upd.Status
	}
	f.assets[assetID] = asset
	return asset, nil
}

func (f *fakeRepo) LinkedDocuments(_ context.Context, _, assetID int64) ([]DocRef, error) {
	return f.docs[assetID], nil
}

func (f *fakeRepo) ListDocuments(_ context.Context, _ int64) ([]DocumentSummary, error) {
	return nil, nil
}

func (f *fakeRepo) DeleteCascade(_ context.Context, userID, assetID int64, docIDs []int64) error {
	asset, ok := f.assets[assetID]
	if !ok || asset.UserID != userID {
		return ErrNotFound
	}
	delete(f.assets, assetID)
	f.cascadeDocs = docIDs
	f.cascaded = true
	return nil
}

type fakeStore struct {
	failKeys map[string]bool
	deleted  []string
}

func (s *fakeStore) Save(_ context.Context, _ string, _ string, _ io.Reader) (int64, error) {
	return 0, errors.New("not implemented")
}

func (s *fakeStore) Open(_ context.Context, _ string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	if s.failKeys[key] {
		return errors.New("storage unavailable")
	}
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStore) SignedURL(_ context.Context, key string, _ time.Duration, _ string) (string, error) {
	return "https://signed.example/" + key, nil
}

func seedAsset(repo *fakeRepo, userID int64) Asset {
	asset := Asset{
		ID:            42,
		UserID:        userID,
		Name:          "MacBook Pro",
		Category:      "electronics",
		PurchasePrice: 2499,
		PurchaseDate:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:        StatusActive,
	}
	repo.assets[asset.ID] = asset
	return asset
}

func TestCreateValidation(t *testing.T) {
	svc := &Service{Repo: newFakeRepo(), Store: &fakeStore{}}
	price := 100.0

	cases := []struct {
		name  string
		req   CreateRequest
		field string
	}{
		{"missing name", CreateRequest{Category: "tools", PurchasePrice: &price, PurchaseDate: "2024-01-01"}, "name"},
		{"missing category", CreateRequest{Name: "Drill", PurchasePrice: &price, PurchaseDate: "2024-01-01"}, "category"},
		{"missing price", CreateRequest{Name: "Drill", Category: "tools", PurchaseDate: "2024-01-01"}, "purchasePrice"},
		{"missing date", CreateRequest{Name: "Drill", Category: "tools", PurchasePrice: &price}, "purchaseDate"},
		{"bad date", CreateRequest{Name: "Drill", Category: "tools", PurchasePrice: &price, PurchaseDate: "15/03/2024"}, "purchaseDate"},
		{"bad status", CreateRequest{Name: "Drill", Category: "tools", PurchasePrice: &price, PurchaseDate: "2024-01-01", Status: "vanished"}, "status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1, tc.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestCreateRejectsNonPositivePrice(t *testing.T) {
	svc := &Service{Repo: newFakeRepo(), Store: &fakeStore{}}
	zero := 0.0
	_, err := svc.Create(context.Background(), 1, CreateRequest{
		Name: "Drill", Category: "tools", PurchasePrice: &zero, PurchaseDate: "2024-01-01",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "purchasePrice", verr.Field)
}

func TestCreateDefaultsStatusActive(t *testing.T) {
	repo := newFakeRepo()
	svc := &Service{Repo: repo, Store: &fakeStore{}}
	price := 2499.0

	asset, err := svc.Create(context.Background(), 1, CreateRequest{
		Name:          "MacBook Pro",
		Category:      "electronics",
		PurchasePrice: &price,
		PurchaseDate:  "2024-03-15",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, asset.Status)
	assert.Equal(t, int64(1), asset.UserID)
}

func TestUpdateRejectsEmptyPayload(t *testing.T) {
	svc := &Service{Repo: newFakeRepo(), Store: &fakeStore{}}
	_, err := svc.Update(context.Background(), 1, 42, UpdateRequest{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "payload", verr.Field)
}

func TestUpdateOnlyTouchesSuppliedFields(t *testing.T) {
	repo := newFakeRepo()
	seedAsset(repo, 1)
	svc := &Service{Repo: repo, Store: &fakeStore{}}

	status := StatusSold
	_, err := svc.Update(context.Background(), 1, 42, UpdateRequest{Status: &status})
	require.NoError(t, err)

	assert.NotNil(t, repo.lastUpdate.Status)
	assert.Nil(t, repo.lastUpdate.Name)
	assert.Nil(t, repo.lastUpdate.PurchasePrice)
	assert.Nil(t, repo.lastUpdate.PurchaseDate)
}

func TestUpdateForeignAssetNotFound(t *testing.T) {
	repo := newFakeRepo()
	seedAsset(repo, 1)
	svc := &Service{Repo: repo, Store: &fakeStore{}}

	name := "stolen"
	_, err := svc.Update(context.Background(), 2, 42, UpdateRequest{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCountsBestEffortBlobFailures(t *testing.T) {
	repo := newFakeRepo()
	seedAsset(repo, 1)
	repo.docs[42] = []DocRef{
		{ID: 7, StorageKey: "documents/u/receipt/a.pdf"},
		{ID: 8, StorageKey: "documents/u/receipt/b.pdf"},
		{ID: 9, StorageKey: "documents/u/receipt/c.pdf"},
	}
	store := &fakeStore{failKeys: map[string]bool{"documents/u/receipt/b.pdf": true}}
	svc := &Service{Repo: repo, Store: store}

	result, err := svc.Delete(context.Background(), 1, 42)
	require.NoError(t, err)

	assert.Equal(t, 2, result.DeletedObjects)
	assert.Equal(t, 3, result.DeletedDocuments)
	assert.True(t, repo.cascaded)
	assert.ElementsMatch(t, []int64{7, 8, 9}, repo.cascadeDocs)
}

func TestDeleteMissingAssetNotFound(t *testing.T) {
	svc := &Service{Repo: newFakeRepo(), Store: &fakeStore{}}
	_, err := svc.Delete(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

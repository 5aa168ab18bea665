package reminders

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	reminders   map[int64]Reminder
	ownedAssets map[int64]bool
	nextID      int64
	lastUpdate  Update
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		reminders:   make(map[int64]Reminder),
		ownedAssets: make(map[int64]bool),
	}
}

func (f *fakeRepo) Create(_ context.Context, reminder Reminder) (Reminder, error) {
	f.nextID++
	reminder.ID = f.nextID
	f.reminders[reminder.ID] = reminder
	return reminder, nil
}

func (f *fakeRepo) GetByID(_ context.Context, userID, reminderID int64) (Reminder, error) {
	reminder, ok := f.reminders[reminderID]
	if !ok || reminder.UserID != userID {
		return Reminder{}, ErrNotFound
	}
	return reminder, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID int64) ([]Reminder, error) {
	var out []Reminder
	for _, reminder := range f.reminders {
		if reminder.UserID == userID {
			out = append(out, reminder)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (f *fakeRepo) ListUpcoming(_ context.Context, userID int64, horizon time.Time) ([]Reminder, error) {
	var out []Reminder
	for _, reminder := range f.reminders {
		if reminder.UserID == userID && !reminder.Completed && !reminder.DueDate.After(horizon) {
			out = append(out, reminder)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, userID, reminderID int64, upd Update) (Reminder, error) {
	f.lastUpdate = upd
	reminder, ok := f.reminders[reminderID]
	if !ok || reminder.UserID != userID {
		return Reminder{}, ErrNotFound
	}
	if upd.Title != nil {
		reminder.Title = *upd.Title
	}
	if upd.DueDate != nil {
		reminder.DueDate = *upd.DueDate
	}
	if upd.Completed != nil {
		reminder.Completed = *upd.Completed
	}
	if upd.CompletedDate != nil {
		reminder.CompletedDate = upd.CompletedDate
	} else if upd.ClearCompletedDate {
		reminder.CompletedDate = nil
	}
	f.reminders[reminderID] = reminder
	return reminder, nil
}

func (f *fakeRepo) Delete(_ context.Context, userID, reminderID int64) error {
	reminder, ok := f.reminders[reminderID]
	if !ok || reminder.UserID != userID {
		return ErrNotFound
	}
	delete(f.reminders, reminderID)
	return nil
}

func (f *fakeRepo) AssetOwned(_ context.Context, _, assetID int64) (bool, error) {
	return f.ownedAssets[assetID], nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNextDueDate(t *testing.T) {
	due := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), NextDueDate(due, FrequencyMonthly))
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), NextDueDate(due, FrequencyQuarterly))
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), NextDueDate(due, FrequencyYearly))
}

func TestCreateRequiresFrequencyWhenRecurring(t *testing.T) {
	svc := &Service{Repo: newFakeRepo()}

	_, err := svc.Create(context.Background(), 1, CreateRequest{
		Title:     "Oil change",
		DueDate:   "2024-06-01",
		Recurring: true,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "frequency", verr.Field)
}

func TestCreateRejectsUnknownFrequency(t *testing.T) {
	svc := &Service{Repo: newFakeRepo()}

	_, err := svc.Create(context.Background(), 1, CreateRequest{
		Title:     "Oil change",
		DueDate:   "2024-06-01",
		Recurring: true,
		Frequency: "fortnightly",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "frequency", verr.Field)
}

func TestCreateChecksAssetOwnership(t *testing.T) {
	repo := newFakeRepo()
	svc := &Service{Repo: repo}
	assetID := int64(5)

	_, err := svc.Create(context.Background(), 1, CreateRequest{
		Title:   "Descale machine",
		DueDate: "2024-06-01",
		AssetID: &assetID,
	})
	assert.ErrorIs(t, err, ErrAssetNotFound)

	repo.ownedAssets[5] = true
	reminder, err := svc.Create(context.Background(), 1, CreateRequest{
		Title:   "Descale machine",
		DueDate: "2024-06-01",
		AssetID: &assetID,
	})
	require.NoError(t, err)
	require.NotNil(t, reminder.AssetID)
	assert.Equal(t, int64(5), *reminder.AssetID)
}

func TestCompleteStampsDate(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	svc := &Service{Repo: repo, Now: fixedClock(now)}

	created, err := svc.Create(context.Background(), 1, CreateRequest{
		Title: "Replace filter", DueDate: "2024-06-01",
	})
	require.NoError(t, err)

	result, err := svc.Complete(context.Background(), 1, created.ID)
	require.NoError(t, err)

	assert.True(t, result.Completed.Completed)
	require.NotNil(t, result.Completed.CompletedDate)
	assert.True(t, result.Completed.CompletedDate.Equal(now))
	assert.Nil(t, result.Next)
}

func TestCompleteRecurringSpawnsNextOccurrence(t *testing.T) {
	repo := newFakeRepo()
	svc := &Service{Repo: repo, Now: fixedClock(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))}

	created, err := svc.Create(context.Background(), 1, CreateRequest{
		Title:     "Clean gutters",
		DueDate:   "2024-06-01",
		Recurring: true,
		Frequency: FrequencyQuarterly,
	})
	require.NoError(t, err)

	result, err := svc.Complete(context.Background(), 1, created.ID)
	require.NoError(t, err)

	require.NotNil(t, result.Next)
	assert.NotEqual(t, created.ID, result.Next.ID)
	assert.Equal(t, "2024-09-01", result.Next.DueDate.Format("2006-01-02"))
	assert.True(t, result.Next.Recurring)
	assert.Equal(t, FrequencyQuarterly, result.Next.Frequency)
	assert.False(t, result.Next.Completed)
	assert.Nil(t, result.Next.CompletedDate)
}

func TestUpdateReopenClearsCompletedDate(t *testing.T) {
	repo := newFakeRepo()
	svc := &Service{Repo: repo, Now: fixedClock(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))}

	created, err := svc.Create(context.Background(), 1, CreateRequest{
		Title: "Rotate tires", DueDate: "2024-06-01",
	})
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), 1, created.ID)
	require.NoError(t, err)

	reopened := false
	reminder, err := svc.Update(context.Background(), 1, created.ID, UpdateRequest{Completed: &reopened})
	require.NoError(t, err)

	assert.False(t, reminder.Completed)
	assert.Nil(t, reminder.CompletedDate)
	assert.True(t, repo.lastUpdate.ClearCompletedDate)
}

func TestUpdateRejectsEmptyPayload(t *testing.T) {
	svc := &Service{Repo: newFakeRepo()}
	_, err := svc.Update(context.Background(), 1, 1, UpdateRequest{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "payload", verr.Field)
}

func TestUpcomingFiltersCompletedAndDistant(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	svc := &Service{Repo: repo, Now: fixedClock(now)}

	soon, err := svc.Create(context.Background(), 1, CreateRequest{Title: "Soon", DueDate: "2024-06-12"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 1, CreateRequest{Title: "Far", DueDate: "2024-08-01"})
	require.NoError(t, err)
	done, err := svc.Create(context.Background(), 1, CreateRequest{Title: "Done", DueDate: "2024-06-11"})
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), 1, done.ID)
	require.NoError(t, err)

	items, err := svc.Upcoming(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, soon.ID, items[0].ID)
}

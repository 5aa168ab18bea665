package reminders

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reminderJoinRows(t *testing.T, assetID any, assetName any) *sqlmock.Rows {
	t.Helper()
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "asset_id", "title", "description", "due_date", "type",
		"recurring", "frequency", "completed", "completed_date", "created_at",
		"updated_at", "name",
	}).AddRow(
		int64(1), int64(7), assetID, "Oil change", nil,
		time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC), "maintenance",
		true, "monthly", false, nil, now, now, assetName,
	)
}

func TestPGListUpcomingScopesToUser(t *testing.T) {
	dbConn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer dbConn.Close()

	horizon := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT(?s:.+)FROM reminders r(?s:.+)r\.completed = FALSE AND r\.due_date <= \$2`).
		WithArgs(int64(7), horizon).
		WillReturnRows(reminderJoinRows(t, nil, nil))

	repo := &PGRepo{DB: dbConn}
	items, err := repo.ListUpcoming(context.Background(), 7, horizon)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Oil change", items[0].Title)
	assert.Equal(t, "monthly", items[0].Frequency)
	assert.Nil(t, items[0].AssetID)
	assert.Empty(t, items[0].AssetName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGListJoinsAssetName(t *testing.T) {
	dbConn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer dbConn.Close()

	mock.ExpectQuery(`SELECT(?s:.+)FROM reminders r(?s:.+)LEFT JOIN assets a ON a\.id = r\.asset_id AND a\.user_id = r\.user_id(?s:.+)r\.user_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(reminderJoinRows(t, int64(3), "MacBook Pro"))

	repo := &PGRepo{DB: dbConn}
	items, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].AssetID)
	assert.Equal(t, int64(3), *items[0].AssetID)
	assert.Equal(t, "MacBook Pro", items[0].AssetName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGDeleteNotFound(t *testing.T) {
	dbConn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer dbConn.Close()

	mock.ExpectExec(`DELETE FROM reminders WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(9), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: dbConn}
	err = repo.Delete(context.Background(), 7, 9)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGAssetOwned(t *testing.T) {
	dbConn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer dbConn.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(5), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := &PGRepo{DB: dbConn}
	owned, err := repo.AssetOwned(context.Background(), 7, 5)
	require.NoError(t, err)
	assert.True(t, owned)

	assert.NoError(t, mock.ExpectationsWereMet())
}

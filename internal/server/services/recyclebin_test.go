package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvoronova/journeykeeper/internal/common"
	"github.com/mvoronova/journeykeeper/internal/server/models"
)

func TestRecycleBinList_OnlyDeletedWithinGraceWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	fresh := daysAgo(2)
	old := daysAgo(31)
	env.seedNote(t, "n-live", "u1", "live", "", nil)
	env.seedNote(t, "n-fresh", "u1", "fresh", "still here", &fresh)
	env.seedNote(t, "n-expired", "u1", "expired", "", &old)

	list, err := env.recycle.ListDeleted(ctx, "u1", models.KindNote)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "n-fresh", list[0].ID)
	assert.Equal(t, "fresh", list[0].Label)
	assert.Equal(t, "still here", list[0].Detail)
	assert.Equal(t, 28, list[0].DaysLeft)
}

func TestRecycleBinList_TwentyNineDaysAgoShowsOneDayLeft(t *testing.T) {
	env := newTestEnv(t)

	deleted := daysAgo(29)
	env.seedNote(t, "n1", "u1", "almost gone", "", &deleted)

	list, err := env.recycle.ListDeleted(context.Background(), "u1", models.KindNote)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].DaysLeft)
}

func TestRecycleBinList_ScopedToOwner(t *testing.T) {
	env := newTestEnv(t)

	deleted := daysAgo(1)
	env.seedNote(t, "n1", "u1", "mine", "", &deleted)

	list, err := env.recycle.ListDeleted(context.Background(), "u2", models.KindNote)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecycleBinList_UnknownKindRejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.recycle.ListDeleted(context.Background(), "u1", models.RecoverableKind("bogus"))
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestRecycleBinRestore_ClearsDeletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	deleted := daysAgo(5)
	env.seedNote(t, "n1", "u1", "packing list", "warm socks", &deleted)

	rec, err := env.recycle.Restore(ctx, "u1", models.KindNote, "n1")
	require.NoError(t, err)
	assert.Equal(t, "n1", rec.ID)
	assert.Equal(t, "packing list", rec.Label)

	list, err := env.recycle.ListDeleted(ctx, "u1", models.KindNote)
	require.NoError(t, err)
	assert.Empty(t, list)

	var deletedAt any
	require.NoError(t, env.db.QueryRow(`SELECT deleted_at FROM notes WHERE id = 'n1'`).Scan(&deletedAt))
	assert.Nil(t, deletedAt)
}

func TestRecycleBinRestore_PastGraceWindowNotFound(t *testing.T) {
	env := newTestEnv(t)

	deleted := daysAgo(31)
	env.seedNote(t, "n1", "u1", "too late", "", &deleted)

	_, err := env.recycle.Restore(context.Background(), "u1", models.KindNote, "n1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRecycleBinRestore_LiveRecordNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seedNote(t, "n1", "u1", "live", "", nil)

	_, err := env.recycle.Restore(context.Background(), "u1", models.KindNote, "n1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRecycleBinRestore_ForeignRecordNotFound(t *testing.T) {
	env := newTestEnv(t)

	deleted := daysAgo(1)
	env.seedNote(t, "n1", "u1", "mine", "", &deleted)

	_, err := env.recycle.Restore(context.Background(), "u2", models.KindNote, "n1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRecycleBinPurge_RemovesRecordForGood(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	deleted := daysAgo(3)
	env.seedNote(t, "n1", "u1", "gone for good", "", &deleted)

	found, err := env.recycle.PurgeOne(ctx, "u1", models.KindNote, "n1")
	require.NoError(t, err)
	assert.True(t, found)

	_, err = env.recycle.Restore(ctx, "u1", models.KindNote, "n1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRecycleBinPurge_WorksPastGraceWindow(t *testing.T) {
	env := newTestEnv(t)

	deleted := daysAgo(45)
	env.seedNote(t, "n1", "u1", "expired", "", &deleted)

	found, err := env.recycle.PurgeOne(context.Background(), "u1", models.KindNote, "n1")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestRecycleBinPurge_LiveRecordNotTouched(t *testing.T) {
	env := newTestEnv(t)
	env.seedNote(t, "n1", "u1", "live", "", nil)

	found, err := env.recycle.PurgeOne(context.Background(), "u1", models.KindNote, "n1")
	require.NoError(t, err)
	assert.False(t, found)

	var count int
	require.NoError(t, env.db.QueryRow(`SELECT count(*) FROM notes WHERE id = 'n1'`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRecycleBinBulkDelete_MovesLiveRecordsAndTakesBackup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedJourney(t, "u1", []byte(`{"milestones":["a"]}`), nil)

	already := daysAgo(10)
	env.seedNote(t, "n1", "u1", "one", "", nil)
	env.seedNote(t, "n2", "u1", "two", "", nil)
	env.seedNote(t, "n3", "u1", "three", "", nil)
	env.seedNote(t, "n4", "u1", "old", "", &already)

	res, err := env.recycle.BulkDelete(ctx, "u1", models.KindNote)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Deleted)
	require.NotNil(t, res.Backup)
	assert.Equal(t, models.TriggerPreBulkDelete, res.Backup.Trigger)

	bin, err := env.recycle.ListDeleted(ctx, "u1", models.KindNote)
	require.NoError(t, err)
	assert.Len(t, bin, 4)

	snap, err := env.repos.Snapshots(env.db).GetByID(ctx, "u1", res.Backup.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"milestones":["a"]}`), snap.State)
}

func TestRecycleBinBulkDelete_FreshGraceWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedJourney(t, "u1", []byte(`{}`), nil)
	env.seedNote(t, "n1", "u1", "note", "", nil)

	_, err := env.recycle.BulkDelete(ctx, "u1", models.KindNote)
	require.NoError(t, err)

	bin, err := env.recycle.ListDeleted(ctx, "u1", models.KindNote)
	require.NoError(t, err)
	require.Len(t, bin, 1)
	assert.Equal(t, common.GracePeriodDays, bin[0].DaysLeft)
}

func TestRecycleBinBulkDelete_UnknownOwnerFails(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.recycle.BulkDelete(context.Background(), "ghost", models.KindNote)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDaysLeft_ClampsAtZero(t *testing.T) {
	now := time.Now().UTC()
	assert.Equal(t, 0, daysLeft(now.AddDate(0, 0, -40), now))
	assert.Equal(t, 0, daysLeft(now.AddDate(0, 0, -common.GracePeriodDays), now))
	assert.Equal(t, 1, daysLeft(now.AddDate(0, 0, -29), now))
	assert.Equal(t, common.GracePeriodDays, daysLeft(now, now))
}

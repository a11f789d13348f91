package recoverables

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mvoronova/journeykeeper/internal/common"
	"github.com/mvoronova/journeykeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestListDeleted_NoteProjection(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	cutoff := time.Now().AddDate(0, 0, -30)
	deletedAt := time.Now().Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "owner_id", "title", "content", "deleted_at"}).
		AddRow("n1", "u1", "packing list", "warm socks", deletedAt)

	mock.ExpectQuery(`SELECT id, owner_id, title, content, deleted_at FROM notes\s+WHERE owner_id = \$1 AND deleted_at IS NOT NULL AND deleted_at >= \$2\s+ORDER BY deleted_at DESC, id DESC`).
		WithArgs("u1", cutoff).
		WillReturnRows(rows)

	got, err := repo.ListDeleted(context.Background(), "u1", models.KindNote, cutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 record, got %d", len(got))
	}
	rec := got[0]
	if rec.ID != "n1" || rec.Kind != models.KindNote || rec.Label != "packing list" || rec.Detail != "warm socks" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.DeletedAt == nil || !rec.DeletedAt.Equal(deletedAt) {
		t.Fatalf("unexpected deleted_at: %v", rec.DeletedAt)
	}
}

func TestListDeleted_SavedItemHasEmptyDetail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	cutoff := time.Now().AddDate(0, 0, -30)
	rows := sqlmock.NewRows([]string{"id", "owner_id", "title", "detail", "deleted_at"}).
		AddRow("i1", "u1", "mountain lodge", "", time.Now())

	mock.ExpectQuery(`SELECT id, owner_id, title, '', deleted_at FROM saved_items`).
		WithArgs("u1", cutoff).
		WillReturnRows(rows)

	got, err := repo.ListDeleted(context.Background(), "u1", models.KindSavedItem, cutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Detail != "" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestListDeleted_UnknownKind(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.ListDeleted(context.Background(), "u1", models.RecoverableKind("bogus"), time.Now())
	if err == nil || !regexp.MustCompile(`unknown recoverable kind`).MatchString(err.Error()) {
		t.Fatalf("expected unknown kind error, got %v", err)
	}
}

func TestRestoreDeleted_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	cutoff := time.Now().AddDate(0, 0, -30)
	rows := sqlmock.NewRows([]string{"id", "owner_id", "title", "content"}).
		AddRow("n1", "u1", "packing list", "warm socks")

	mock.ExpectQuery(`UPDATE notes SET deleted_at = NULL, updated_at = now\(\)\s+WHERE id = \$1 AND owner_id = \$2 AND deleted_at IS NOT NULL AND deleted_at >= \$3\s+RETURNING id, owner_id, title, content`).
		WithArgs("n1", "u1", cutoff).
		WillReturnRows(rows)

	got, err := repo.RestoreDeleted(context.Background(), "u1", models.KindNote, "n1", cutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "n1" || got.Label != "packing list" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestRestoreDeleted_ExpiredOrLiveIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	cutoff := time.Now().AddDate(0, 0, -30)

	mock.ExpectQuery(`UPDATE notes SET deleted_at = NULL`).
		WithArgs("n1", "u1", cutoff).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.RestoreDeleted(context.Background(), "u1", models.KindNote, "n1", cutoff)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestPurge_OnlyTouchesDeletedRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM trait_observations\s+WHERE id = \$1 AND owner_id = \$2 AND deleted_at IS NOT NULL`).
		WithArgs("t1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Purge(context.Background(), "u1", models.KindTraitObservation, "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("want true for matched row")
	}
}

func TestPurge_LiveRecordNotMatched(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM notes`).
		WithArgs("n1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Purge(context.Background(), "u1", models.KindNote, "n1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("want false when nothing was purged")
	}
}

func TestSoftDeleteLive_ReportsCount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	deletedAt := time.Now()
	mock.ExpectExec(`UPDATE saved_items SET deleted_at = \$2, updated_at = now\(\)\s+WHERE owner_id = \$1 AND deleted_at IS NULL`).
		WithArgs("u1", deletedAt).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.SoftDeleteLive(context.Background(), "u1", models.KindSavedItem, deletedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("want 3 rows, got %d", n)
	}
}

func TestSoftDeleteLive_DBExecError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE notes SET deleted_at`).
		WillReturnError(errors.New("db is down"))

	_, err := repo.SoftDeleteLive(context.Background(), "u1", models.KindNote, time.Now())
	if err == nil || !regexp.MustCompile(`db error: .*db is down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

// internal/tutorial/repository_test.go
//
// Unit-tests for the MySQL Repository using sqlmock.
//
// Run: go test ./internal/tutorial -v

package tutorial

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

var cols = []string{
	"id", "title", "description", "category", "author", "difficulty_level",
	"duration_minutes", "published", "featured", "image_url", "video_url",
	"created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet SQL expectations: %v", err)
		}
		db.Close()
	})
	return NewRepository(sqlx.NewDb(db, "mysql")), mock
}

func TestRepository_Insert(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tutorials")).
		WillReturnResult(sqlmock.NewResult(5, 1))

	in := New(Input{Title: ptr("Intro")}, t0)
	in.ID = 999 // ignored

	got, err := r.Insert(context.Background(), in)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got.ID != 5 || got.Title != "Intro" || !got.CreatedAt.Equal(t0) {
		t.Fatalf("Insert result = %+v", got)
	}
}

func TestRepository_Get(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM tutorials WHERE id = ?")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			int64(1), "Intro", "desc", nil, "Ada", Beginner,
			int64(45), true, false, nil, nil, t0, t0))

	got, found, err := r.Get(context.Background(), 1)
	if err != nil || !found {
		t.Fatalf("Get: found %v err %v", found, err)
	}
	if got.Title != "Intro" || *got.Description != "desc" || got.Category != nil {
		t.Fatalf("text columns = %+v", got)
	}
	if *got.DurationMinutes != 45 || !got.Published || *got.DifficultyLevel != Beginner {
		t.Fatalf("typed columns = %+v", got)
	}
}

func TestRepository_GetAbsent(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM tutorials WHERE id = ?")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(cols))

	_, found, err := r.Get(context.Background(), 9)
	if err != nil || found {
		t.Fatalf("Get(9) = found %v err %v; want absent, nil", found, err)
	}
}

func TestRepository_GetStorageFailure(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM tutorials WHERE id = ?")).
		WillReturnError(errors.New("bad connection"))

	_, _, err := r.Get(context.Background(), 1)
	if !IsStorage(err) {
		t.Fatalf("err = %v, want StorageError", err)
	}
}

func TestRepository_All(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM tutorials ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), "a", nil, nil, nil, nil, nil, false, false, nil, nil, t0, t0).
			AddRow(int64(2), "b", nil, nil, nil, nil, nil, true, true, nil, nil, t0, t0))

	got, err := r.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 || !got[1].Featured {
		t.Fatalf("All = %+v", got)
	}
}

func TestRepository_FindByTitleContaining(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(title) LIKE ? ESCAPE '!' ORDER BY id")).
		WithArgs("%go!_lang!%!!%").
		WillReturnRows(sqlmock.NewRows(cols))

	got, err := r.FindByTitleContaining(context.Background(), "Go_Lang%!")
	if err != nil {
		t.Fatalf("FindByTitleContaining: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestRepository_FindByPublished(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE published = ? ORDER BY id")).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(3), "c", nil, nil, nil, nil, nil, true, false, nil, nil, t0, t0))

	got, err := r.FindByPublished(context.Background(), true)
	if err != nil || len(got) != 1 || !got[0].Published {
		t.Fatalf("FindByPublished = %+v, %v", got, err)
	}
}

func TestRepository_UpdateLocksAndWrites(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM tutorials WHERE id = ? FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), "Intro", nil, nil, nil, nil, nil, false, false, nil, nil, t0, t0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tutorials")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, found, err := r.Update(context.Background(), 1, func(cur Tutorial) Tutorial {
		cur.Published = true
		cur.ID = 77
		return cur
	})
	if err != nil || !found {
		t.Fatalf("Update: found %v err %v", found, err)
	}
	if got.ID != 1 || !got.Published || !got.CreatedAt.Equal(t0) {
		t.Fatalf("Update result = %+v", got)
	}
}

func TestRepository_UpdateAbsentRollsBack(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(cols))
	mock.ExpectRollback()

	called := false
	_, found, err := r.Update(context.Background(), 4, func(cur Tutorial) Tutorial {
		called = true
		return cur
	})
	if err != nil || found || called {
		t.Fatalf("found %v err %v called %v", found, err, called)
	}
}

func TestRepository_UpdateWriteFailureRollsBack(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), "Intro", nil, nil, nil, nil, nil, false, false, nil, nil, t0, t0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tutorials")).
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	_, _, err := r.Update(context.Background(), 1, func(cur Tutorial) Tutorial { return cur })
	if !IsStorage(err) {
		t.Fatalf("err = %v, want StorageError", err)
	}
}

func TestRepository_Delete(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tutorials WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tutorials WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	if ok, err := r.Delete(ctx, 3); err != nil || !ok {
		t.Fatalf("first Delete = %v, %v", ok, err)
	}
	if ok, err := r.Delete(ctx, 3); err != nil || ok {
		t.Fatalf("second Delete = %v, %v", ok, err)
	}
}

func TestRepository_DeleteAll(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectExec("^DELETE FROM tutorials$").
		WillReturnResult(sqlmock.NewResult(0, 12))

	if err := r.DeleteAll(context.Background()); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"plain":  "plain",
		"50%":    "50!%",
		"a_b":    "a!_b",
		"wow!":   "wow!!",
		`back\s`: `back\s`,
	}
	for in, want := range tests {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

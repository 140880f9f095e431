// internal/tutorial/repository.go
//
// MySQL-backed Store.
//
// Context
// -------
// One table, one row per Tutorial, primary key `id` (see conf/schema.sql).
// Each method runs a single parameterised statement, except Update, which
// wraps `SELECT ... FOR UPDATE` and the UPDATE in one transaction so two
// concurrent updates to the same id never interleave.
//
// Notes
// -----
//   - Column list matches the `db` tags on Tutorial; update both together.
//   - DeleteAll uses DELETE, not TRUNCATE.  TRUNCATE resets AUTO_INCREMENT
//     and would hand out deleted ids again.
//   - Driver errors are wrapped in *StorageError and otherwise returned
//     verbatim.
package tutorial

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

const columns = `id, title, description, category, author, difficulty_level,
       duration_minutes, published, featured, image_url, video_url,
       created_at, updated_at`

// Repository implements Store on top of a *sqlx.DB.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wraps an open pool.  The caller owns db and closes it.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, t Tutorial) (Tutorial, error) {
	const q = `
        INSERT INTO tutorials (title, description, category, author,
               difficulty_level, duration_minutes, published, featured,
               image_url, video_url, created_at, updated_at)
        VALUES (:title, :description, :category, :author,
               :difficulty_level, :duration_minutes, :published, :featured,
               :image_url, :video_url, :created_at, :updated_at)`
	res, err := r.db.NamedExecContext(ctx, q, t)
	if err != nil {
		return Tutorial{}, storageErr("insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Tutorial{}, storageErr("insert", err)
	}
	t.ID = id
	return t, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (Tutorial, bool, error) {
	const q = `SELECT ` + columns + ` FROM tutorials WHERE id = ?`
	var t Tutorial
	if err := r.db.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tutorial{}, false, nil
		}
		return Tutorial{}, false, storageErr("get", err)
	}
	return t, true, nil
}

func (r *Repository) All(ctx context.Context) ([]Tutorial, error) {
	const q = `SELECT ` + columns + ` FROM tutorials ORDER BY id`
	return r.selectMany(ctx, "all", q)
}

// FindByTitleContaining lower-cases both sides and escapes LIKE wildcards
// with `!`, so the term is matched literally and case-insensitively.
func (r *Repository) FindByTitleContaining(ctx context.Context, term string) ([]Tutorial, error) {
	const q = `SELECT ` + columns + ` FROM tutorials
        WHERE LOWER(title) LIKE ? ESCAPE '!' ORDER BY id`
	return r.selectMany(ctx, "find by title", q, "%"+escapeLike(strings.ToLower(term))+"%")
}

func (r *Repository) FindByPublished(ctx context.Context, published bool) ([]Tutorial, error) {
	const q = `SELECT ` + columns + ` FROM tutorials WHERE published = ? ORDER BY id`
	return r.selectMany(ctx, "find by published", q, published)
}

func (r *Repository) Update(ctx context.Context, id int64, fn Mutator) (out Tutorial, found bool, err error) {
	const (
		qLock   = `SELECT ` + columns + ` FROM tutorials WHERE id = ? FOR UPDATE`
		qUpdate = `
        UPDATE tutorials
           SET title = :title, description = :description,
               category = :category, author = :author,
               difficulty_level = :difficulty_level,
               duration_minutes = :duration_minutes,
               published = :published, featured = :featured,
               image_url = :image_url, video_url = :video_url,
               updated_at = :updated_at
         WHERE id = :id`
	)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return Tutorial{}, false, storageErr("update", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var cur Tutorial
	if err := tx.GetContext(ctx, &cur, qLock, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tutorial{}, false, nil
		}
		return Tutorial{}, false, storageErr("update", err)
	}

	next := fn(cur)
	next.ID = cur.ID
	next.CreatedAt = cur.CreatedAt
	if _, err := tx.NamedExecContext(ctx, qUpdate, next); err != nil {
		return Tutorial{}, false, storageErr("update", err)
	}
	if err := tx.Commit(); err != nil {
		return Tutorial{}, false, storageErr("update", err)
	}
	committed = true
	return next, true, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tutorials WHERE id = ?`, id)
	if err != nil {
		return false, storageErr("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("delete", err)
	}
	return n > 0, nil
}

func (r *Repository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tutorials`)
	return storageErr("delete all", err)
}

func (r *Repository) selectMany(ctx context.Context, op, q string, args ...any) ([]Tutorial, error) {
	out := make([]Tutorial, 0, 16)
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike neutralises LIKE wildcards for use with ESCAPE '!'.
func escapeLike(s string) string { return likeEscaper.Replace(s) }

// internal/tutorial/model.go
//
// Tutorial entity, create/update payload, and the pure update rule.
//
// Context
// -------
// A Tutorial mirrors one row in the `tutorials` table.  Nullable columns are
// pointers so a NULL survives a round trip through sqlx and JSON alike.  The
// server-controlled fields (ID, CreatedAt, UpdatedAt) never come from a
// caller; Input simply has no place to carry them.
//
// Workflow
// --------
//  1. Create:  New(input, now) builds a fresh record, the Store assigns ID.
//  2. Update:  Apply(existing, patch, now) merges non-nil patch fields and
//     refreshes UpdatedAt.  No persistence hook fires behind the caller's
//     back; the Catalog Service calls Apply explicitly.
//
// Notes
// -----
//   - Timestamps are UTC and truncated to microseconds, matching the
//     DATETIME(6) columns, so a stored record compares equal to the value
//     that was written.
//   - Oxford commas, two spaces after periods.
package tutorial

import "time"

// Difficulty levels in common use.  The set is open; any string is stored
// verbatim.
const (
	Beginner     = "Beginner"
	Intermediate = "Intermediate"
	Advanced     = "Advanced"
)

// Tutorial is the sole catalog entity.
type Tutorial struct {
	ID              int64     `db:"id"               json:"id"`
	Title           string    `db:"title"            json:"title"`
	Description     *string   `db:"description"      json:"description"`
	Category        *string   `db:"category"         json:"category"`
	Author          *string   `db:"author"           json:"author"`
	DifficultyLevel *string   `db:"difficulty_level" json:"difficultyLevel"`
	DurationMinutes *int      `db:"duration_minutes" json:"durationMinutes"`
	Published       bool      `db:"published"        json:"published"`
	Featured        bool      `db:"featured"         json:"featured"`
	ImageURL        *string   `db:"image_url"        json:"imageUrl"`
	VideoURL        *string   `db:"video_url"        json:"videoUrl"`
	CreatedAt       time.Time `db:"created_at"       json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at"       json:"updatedAt"`
}

// Input is the create/update payload.  A nil field means "not provided":
// on create it takes the column default, on update it keeps the stored value.
type Input struct {
	Title           *string `json:"title"           validate:"omitnil,min=1,max=255"`
	Description     *string `json:"description"     validate:"omitnil,max=1000"`
	Category        *string `json:"category"        validate:"omitnil,max=255"`
	Author          *string `json:"author"          validate:"omitnil,max=255"`
	DifficultyLevel *string `json:"difficultyLevel" validate:"omitnil,max=255"`
	DurationMinutes *int    `json:"durationMinutes" validate:"omitnil,min=0,max=2147483647"`
	Published       *bool   `json:"published"`
	Featured        *bool   `json:"featured"`
	ImageURL        *string `json:"imageUrl"        validate:"omitnil,max=255"`
	VideoURL        *string `json:"videoUrl"        validate:"omitnil,max=255"`
}

// Timestamp normalises t to the resolution the store keeps.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// New builds an unsaved Tutorial from in.  CreatedAt and UpdatedAt are both
// set to now; ID stays zero until the Store assigns one.
func New(in Input, now time.Time) Tutorial {
	now = Timestamp(now)
	t := Tutorial{CreatedAt: now, UpdatedAt: now}
	merge(&t, in)
	return t
}

// Apply returns existing with every non-nil field of patch copied over.
// CreatedAt and ID are preserved.  UpdatedAt becomes now, or stays put when
// the clock reads earlier than the stored value.
func Apply(existing Tutorial, patch Input, now time.Time) Tutorial {
	out := existing
	merge(&out, patch)

	now = Timestamp(now)
	if now.Before(existing.UpdatedAt) {
		now = existing.UpdatedAt
	}
	out.UpdatedAt = now
	return out
}

func merge(t *Tutorial, in Input) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = clone(in.Description)
	}
	if in.Category != nil {
		t.Category = clone(in.Category)
	}
	if in.Author != nil {
		t.Author = clone(in.Author)
	}
	if in.DifficultyLevel != nil {
		t.DifficultyLevel = clone(in.DifficultyLevel)
	}
	if in.DurationMinutes != nil {
		t.DurationMinutes = clone(in.DurationMinutes)
	}
	if in.Published != nil {
		t.Published = *in.Published
	}
	if in.Featured != nil {
		t.Featured = *in.Featured
	}
	if in.ImageURL != nil {
		t.ImageURL = clone(in.ImageURL)
	}
	if in.VideoURL != nil {
		t.VideoURL = clone(in.VideoURL)
	}
}

// clone copies the pointee so a record never aliases caller memory.
func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Copy returns a deep copy of t; no pointer field aliases the source.
func (t Tutorial) Copy() Tutorial {
	t.Description = clone(t.Description)
	t.Category = clone(t.Category)
	t.Author = clone(t.Author)
	t.DifficultyLevel = clone(t.DifficultyLevel)
	t.DurationMinutes = clone(t.DurationMinutes)
	t.ImageURL = clone(t.ImageURL)
	t.VideoURL = clone(t.VideoURL)
	return t
}

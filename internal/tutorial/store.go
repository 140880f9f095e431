// internal/tutorial/store.go
//
// Record Store contract.
//
// Context
// -------
// Three implementations satisfy Store:
//
//   - Repository  - MySQL via sqlx, the durable store.
//   - MemoryStore - process-local map, used by dev runs and tests.
//   - CachedStore - LRU read-through decorator around either of the above.
//
// Lookups report absence with a found flag, never with an error.  Errors
// are reserved for the storage medium and arrive as *StorageError.
//
// Matching rules
// --------------
//   - FindByTitleContaining is a case-insensitive substring match.  `%`,
//     `_`, and `\` in the term are literal.  An empty term matches every
//     record.
//   - Every sequence is ordered by ID, which is insertion order.
package tutorial

import "context"

// Mutator computes the next version of a record from its current one.
type Mutator func(current Tutorial) Tutorial

// Store is the durable keyed storage for Tutorial records.
type Store interface {
	// Insert assigns a fresh ID to t, persists it, and returns the stored
	// record.  Any ID on t is ignored.
	Insert(ctx context.Context, t Tutorial) (Tutorial, error)
	Get(ctx context.Context, id int64) (Tutorial, bool, error)
	All(ctx context.Context) ([]Tutorial, error)
	FindByTitleContaining(ctx context.Context, term string) ([]Tutorial, error)
	FindByPublished(ctx context.Context, published bool) ([]Tutorial, error)
	// Update runs fn against the record at id and persists its result as one
	// atomic read-modify-write.  ID and CreatedAt from the current record
	// always win over whatever fn returns.  found is false when id is
	// unknown, in which case fn is not called.
	Update(ctx context.Context, id int64, fn Mutator) (Tutorial, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteAll(ctx context.Context) error
}

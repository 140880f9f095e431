// internal/catalog/service.go
//
// Catalog Service: the operation set the transport layer calls.
//
// Context
// -------
// Service holds no state beyond a Store, a clock, and a logger.  Each method
// is one synchronous call against current store state:
//
//   - reads delegate to the Store unchanged,
//   - CreateTutorial builds the record with tutorial.New and lets the Store
//     assign the id,
//   - UpdateTutorial runs tutorial.Apply inside Store.Update, so the merge
//     and the write form one atomic read-modify-write.
//
// Absence is reported with a found flag.  Errors are either
// tutorial.ErrInvalidInput (wrapped) or *tutorial.StorageError; the service
// never retries.
//
// Instrumentation
// ---------------
//   - DEBUG per call with id or result count.
//   - ERROR when the store fails, tagged with the operation name.
//   - catalog_operations_total{operation,outcome} and latency histogram.
package catalog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/tutorials/internal/metrics"
	"github.com/yanizio/tutorials/internal/tutorial"
)

// Service orchestrates tutorial.Store calls.  Safe for concurrent use.
type Service struct {
	store tutorial.Store
	now   func() time.Time
	log   *zap.SugaredLogger
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a Service backed by store.  A nil logger falls back to zap.S().
func New(store tutorial.Store, log *zap.SugaredLogger, opts ...Option) *Service {
	if log == nil {
		log = zap.S()
	}
	s := &Service{store: store, now: time.Now, log: log}
	for _, o := range opts {
		o(s)
	}
	return s
}

// GetAllTutorials returns every record in id order.
func (s *Service) GetAllTutorials(ctx context.Context) (out []tutorial.Tutorial, err error) {
	defer s.observe("get_all", time.Now(), &err, nil)
	out, err = s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Debugw("tutorials listed", "count", len(out))
	return out, nil
}

// GetTutorialsByTitle returns records whose title contains title, ignoring
// case.  An empty title means no filter.
func (s *Service) GetTutorialsByTitle(ctx context.Context, title string) (out []tutorial.Tutorial, err error) {
	if title == "" {
		return s.GetAllTutorials(ctx)
	}
	defer s.observe("get_by_title", time.Now(), &err, nil)
	out, err = s.store.FindByTitleContaining(ctx, title)
	if err != nil {
		return nil, err
	}
	s.log.Debugw("tutorials searched", "title", title, "count", len(out))
	return out, nil
}

// GetTutorialByID returns the record at id; found is false when none exists.
func (s *Service) GetTutorialByID(ctx context.Context, id int64) (t tutorial.Tutorial, found bool, err error) {
	defer s.observe("get_by_id", time.Now(), &err, &found)
	t, found, err = s.store.Get(ctx, id)
	if err != nil {
		return tutorial.Tutorial{}, false, err
	}
	s.log.Debugw("tutorial lookup", "id", id, "found", found)
	return t, found, nil
}

// CreateTutorial persists a new record built from in.  The store assigns the
// id; CreatedAt and UpdatedAt are both the current time.
func (s *Service) CreateTutorial(ctx context.Context, in tutorial.Input) (t tutorial.Tutorial, err error) {
	defer s.observe("create", time.Now(), &err, nil)
	if err = in.ValidateCreate(); err != nil {
		return tutorial.Tutorial{}, err
	}
	t, err = s.store.Insert(ctx, tutorial.New(in, s.now()))
	if err != nil {
		return tutorial.Tutorial{}, err
	}
	s.log.Debugw("tutorial created", "id", t.ID)
	return t, nil
}

// UpdateTutorial merges the non-nil fields of in into the record at id and
// refreshes UpdatedAt.  found is false, and nothing is written, when id is
// unknown.
func (s *Service) UpdateTutorial(ctx context.Context, id int64, in tutorial.Input) (t tutorial.Tutorial, found bool, err error) {
	defer s.observe("update", time.Now(), &err, &found)
	if err = in.Validate(); err != nil {
		return tutorial.Tutorial{}, false, err
	}
	t, found, err = s.store.Update(ctx, id, func(cur tutorial.Tutorial) tutorial.Tutorial {
		return tutorial.Apply(cur, in, s.now())
	})
	if err != nil {
		return tutorial.Tutorial{}, false, err
	}
	s.log.Debugw("tutorial updated", "id", id, "found", found)
	return t, found, nil
}

// DeleteTutorial reports whether a record existed at id and was removed.
func (s *Service) DeleteTutorial(ctx context.Context, id int64) (deleted bool, err error) {
	defer s.observe("delete", time.Now(), &err, &deleted)
	deleted, err = s.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	s.log.Debugw("tutorial delete", "id", id, "deleted", deleted)
	return deleted, nil
}

// DeleteAllTutorials removes every record.  Idempotent.
func (s *Service) DeleteAllTutorials(ctx context.Context) (err error) {
	defer s.observe("delete_all", time.Now(), &err, nil)
	if err = s.store.DeleteAll(ctx); err != nil {
		return err
	}
	s.log.Infow("all tutorials deleted")
	return nil
}

// FindByPublished returns records whose Published flag equals published.
func (s *Service) FindByPublished(ctx context.Context, published bool) (out []tutorial.Tutorial, err error) {
	defer s.observe("find_by_published", time.Now(), &err, nil)
	out, err = s.store.FindByPublished(ctx, published)
	if err != nil {
		return nil, err
	}
	s.log.Debugw("tutorials filtered", "published", published, "count", len(out))
	return out, nil
}

// observe records metrics for one call and logs store failures.  found is
// nil for operations without an absent outcome.
func (s *Service) observe(op string, start time.Time, err *error, found *bool) {
	metrics.CatalogLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())

	outcome := metrics.OutcomeOK
	switch {
	case *err != nil && errors.Is(*err, tutorial.ErrInvalidInput):
		outcome = metrics.OutcomeInvalid
	case *err != nil:
		outcome = metrics.OutcomeError
		s.log.Errorw("catalog operation failed", "op", op, "err", *err)
	case found != nil && !*found:
		outcome = metrics.OutcomeNotFound
	}
	metrics.CatalogOps.WithLabelValues(op, outcome).Inc()
}

// internal/api/router.go
//
// HTTP adapter around catalog.Service.
//
// Routes
// ------
//
//	GET    /api/tutorials             all, or ?title= substring search
//	GET    /api/tutorials/published   published records only
//	GET    /api/tutorials/{id}        one record, 404 when absent
//	POST   /api/tutorials             create, 201
//	PUT    /api/tutorials/{id}        partial update, 404 when absent
//	DELETE /api/tutorials/{id}        204, 404 when absent
//	DELETE /api/tutorials             204
//	GET    /healthz
//
// Status mapping: tutorial.ErrInvalidInput -> 400, not found -> 404, any
// other error -> 500.  The adapter does no business logic of its own.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/tutorials/internal/tutorial"
)

// Catalog is the subset of catalog.Service the adapter needs.
type Catalog interface {
	GetAllTutorials(ctx context.Context) ([]tutorial.Tutorial, error)
	GetTutorialsByTitle(ctx context.Context, title string) ([]tutorial.Tutorial, error)
	GetTutorialByID(ctx context.Context, id int64) (tutorial.Tutorial, bool, error)
	CreateTutorial(ctx context.Context, in tutorial.Input) (tutorial.Tutorial, error)
	UpdateTutorial(ctx context.Context, id int64, in tutorial.Input) (tutorial.Tutorial, bool, error)
	DeleteTutorial(ctx context.Context, id int64) (bool, error)
	DeleteAllTutorials(ctx context.Context) error
	FindByPublished(ctx context.Context, published bool) ([]tutorial.Tutorial, error)
}

type handler struct {
	cat Catalog
	log *zap.SugaredLogger
}

// Routes mounts the tutorial endpoints and /healthz on r.
func Routes(r chi.Router, cat Catalog, log *zap.SugaredLogger) {
	h := &handler{cat: cat, log: log}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/tutorials", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Delete("/", h.deleteAll)
		r.Get("/published", h.published)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.cat.GetTutorialsByTitle(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) published(w http.ResponseWriter, r *http.Request) {
	out, err := h.cat.FindByPublished(r.Context(), true)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, found, err := h.cat.GetTutorialByID(r.Context(), id)
	switch {
	case err != nil:
		h.fail(w, err)
	case !found:
		writeError(w, http.StatusNotFound, "tutorial not found")
	default:
		writeJSON(w, http.StatusOK, t)
	}
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	t, err := h.cat.CreateTutorial(r.Context(), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	t, found, err := h.cat.UpdateTutorial(r.Context(), id, in)
	switch {
	case err != nil:
		h.fail(w, err)
	case !found:
		writeError(w, http.StatusNotFound, "tutorial not found")
	default:
		writeJSON(w, http.StatusOK, t)
	}
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.cat.DeleteTutorial(r.Context(), id)
	switch {
	case err != nil:
		h.fail(w, err)
	case !deleted:
		writeError(w, http.StatusNotFound, "tutorial not found")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *handler) deleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.cat.DeleteAllTutorials(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps a service error to a status.  Storage details stay in the log.
func (h *handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, tutorial.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Errorw("request failed", "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// decodeInput reads a JSON payload.  Unknown keys such as id, createdAt, and
// updatedAt are ignored rather than rejected.
func decodeInput(w http.ResponseWriter, r *http.Request) (tutorial.Input, bool) {
	var in tutorial.Input
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return in, false
	}
	return in, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

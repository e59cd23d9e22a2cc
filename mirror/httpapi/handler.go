package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tunichain/tunichain-contract/mirror"
	"go.uber.org/zap"
)

// Handler serves mirror records.
type Handler struct {
	log   *zap.Logger
	store mirror.Store
}

// NewHandler returns Handler working over the given store.
func NewHandler(log *zap.Logger, store mirror.Store) *Handler {
	return &Handler{log: log, store: store}
}

// Routes registers record and totals endpoints on r. Kind path parameter
// accepts both singular and plural forms.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/sellers/{address}/totals", h.totals)
	r.With(middleware.AllowContentType("application/json")).Post("/{kind}", h.create)
	r.Get("/{kind}/{key}", h.get)
}

type createDraftRequest struct {
	Key     string          `json:"key"`
	Payload json.RawMessage `json:"payload"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	kind, err := mirror.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var req createDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key, err := mirror.NormalizeKey(kind, req.Key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.store.CreateDraft(r.Context(), kind, key, req.Payload)
	if err != nil {
		if errors.Is(err, mirror.ErrDraftExists) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		h.log.Error("failed to create draft", zap.String("kind", string(kind)), zap.String("key", key), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	h.respond(w, http.StatusCreated, toRecordResponse(rec))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	kind, err := mirror.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	key, err := mirror.NormalizeKey(kind, chi.URLParam(r, "key"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.store.Get(r.Context(), kind, key)
	if err != nil {
		if errors.Is(err, mirror.ErrNotFound) {
			http.Error(w, string(kind)+" not found", http.StatusNotFound)
			return
		}

		h.log.Error("failed to get record", zap.String("kind", string(kind)), zap.String("key", key), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	h.respond(w, http.StatusOK, toRecordResponse(rec))
}

func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	seller, err := mirror.NormalizeKey(mirror.KindSeller, chi.URLParam(r, "address"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, err := h.store.Totals(r.Context(), seller)
	if err != nil {
		if errors.Is(err, mirror.ErrNotFound) {
			http.Error(w, "totals not found", http.StatusNotFound)
			return
		}

		h.log.Error("failed to get totals", zap.String("seller", seller), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	h.respond(w, http.StatusOK, toTotalsResponse(t))
}

func (h *Handler) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}

package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/placementhub/portal-api/internal/data"
)

// CollectionsService is the interface collection handlers depend on.
type CollectionsService interface {
	Create(ctx context.Context, collection string, ownerID *string, body json.RawMessage) (*data.Document, error)
	GetByID(ctx context.Context, collection, id string) (*data.Document, error)
	List(ctx context.Context, collection string, opts data.CollectionListOptions) ([]*data.Document, error)
	Update(ctx context.Context, collection, id string, body json.RawMessage) (*data.Document, error)
	Delete(ctx context.Context, collection, id string) (bool, error)
}

// CollectionHandlers provides HTTP handlers for the generic document
// collections.
type CollectionHandlers struct {
	Svc CollectionsService
}

// documentRequest is the create/update payload.
type documentRequest struct {
	Body json.RawMessage `json:"body"`
}

// Create handles POST /api/collections/{collection}. The authenticated
// user becomes the document owner.
func (h *CollectionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	var ownerID *string
	if sess := GetSessionFromContext(r.Context()); sess.Identity != nil {
		ownerID = &sess.Identity.UserID
	}

	doc, err := h.Svc.Create(r.Context(), r.PathValue("collection"), ownerID, req.Body)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, doc)
}

// Get handles GET /api/collections/{collection}/{id}.
func (h *CollectionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Svc.GetByID(r.Context(), r.PathValue("collection"), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}

// List handles GET /api/collections/{collection}?limit=&offset=&filter=&mine=.
// filter is a JMESPath expression over document bodies; mine=true restricts
// to documents owned by the caller.
func (h *CollectionHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := data.CollectionListOptions{
		Filter: q.Get("filter"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		opts.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		opts.Offset = offset
	}
	if q.Get("mine") == "true" {
		if sess := GetSessionFromContext(r.Context()); sess.Identity != nil {
			opts.OwnerID = &sess.Identity.UserID
		}
	}

	docs, err := h.Svc.List(r.Context(), r.PathValue("collection"), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"documents": docs, "count": len(docs)})
}

// Update handles PUT /api/collections/{collection}/{id}.
func (h *CollectionHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	doc, err := h.Svc.Update(r.Context(), r.PathValue("collection"), r.PathValue("id"), req.Body)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}

// Delete handles DELETE /api/collections/{collection}/{id}.
func (h *CollectionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Svc.Delete(r.Context(), r.PathValue("collection"), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errNotFound,
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

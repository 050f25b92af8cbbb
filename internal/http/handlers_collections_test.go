package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placementhub/portal-api/internal/data"
	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	apperrors "github.com/placementhub/portal-api/internal/errors"
)

// stubCollections records calls and replays canned results.
type stubCollections struct {
	doc      *data.Document
	docs     []*data.Document
	err      error
	deleted  bool
	lastColl string
	lastOpts data.CollectionListOptions
	lastOwn  *string
}

func (s *stubCollections) Create(_ context.Context, collection string, ownerID *string, _ json.RawMessage) (*data.Document, error) {
	s.lastColl = collection
	s.lastOwn = ownerID
	return s.doc, s.err
}

func (s *stubCollections) GetByID(_ context.Context, collection, _ string) (*data.Document, error) {
	s.lastColl = collection
	return s.doc, s.err
}

func (s *stubCollections) List(_ context.Context, collection string, opts data.CollectionListOptions) ([]*data.Document, error) {
	s.lastColl = collection
	s.lastOpts = opts
	return s.docs, s.err
}

func (s *stubCollections) Update(_ context.Context, collection, _ string, _ json.RawMessage) (*data.Document, error) {
	s.lastColl = collection
	return s.doc, s.err
}

func (s *stubCollections) Delete(_ context.Context, collection, _ string) (bool, error) {
	s.lastColl = collection
	return s.deleted, s.err
}

func serveCollections(svc CollectionsService, sess domainauth.Session, method, target, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	registerCollectionRoutes(mux, &CollectionHandlers{Svc: svc})

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	req = req.WithContext(SetSessionInContext(req.Context(), sess))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func authedSession() domainauth.Session {
	return domainauth.Session{
		Identity: &domainauth.Identity{
			UserID:   "u-7",
			FullName: "Asha Menon",
			Role:     domainauth.RoleAlumni,
		},
		IsAuthenticated: true,
	}
}

func TestCollectionHandlers_RequireAuthentication(t *testing.T) {
	rec := serveCollections(&stubCollections{}, domainauth.Session{},
		http.MethodGet, "/api/collections/postings", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCollectionHandlers_CreateSetsOwner(t *testing.T) {
	stub := &stubCollections{doc: &data.Document{ID: "d-1", Collection: "postings"}}

	rec := serveCollections(stub, authedSession(),
		http.MethodPost, "/api/collections/postings", `{"body":{"title":"SDE Intern"}}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "postings", stub.lastColl)
	require.NotNil(t, stub.lastOwn)
	assert.Equal(t, "u-7", *stub.lastOwn)
}

func TestCollectionHandlers_ListParsesQuery(t *testing.T) {
	stub := &stubCollections{docs: []*data.Document{{ID: "d-1"}, {ID: "d-2"}}}

	rec := serveCollections(stub, authedSession(),
		http.MethodGet, "/api/collections/postings?limit=5&offset=10&filter=active&mine=true", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, stub.lastOpts.Limit)
	assert.Equal(t, 10, stub.lastOpts.Offset)
	assert.Equal(t, "active", stub.lastOpts.Filter)
	require.NotNil(t, stub.lastOpts.OwnerID)
	assert.Equal(t, "u-7", *stub.lastOpts.OwnerID)

	var payload struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 2, payload.Count)
}

func TestCollectionHandlers_GetPropagatesNotFound(t *testing.T) {
	stub := &stubCollections{err: apperrors.NotFound("document not found")}

	rec := serveCollections(stub, authedSession(),
		http.MethodGet, "/api/collections/postings/d-404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCollectionHandlers_UpdateRejectsBadJSON(t *testing.T) {
	rec := serveCollections(&stubCollections{}, authedSession(),
		http.MethodPut, "/api/collections/postings/d-1", `{"body":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCollectionHandlers_Delete(t *testing.T) {
	t.Run("deleted returns 204", func(t *testing.T) {
		rec := serveCollections(&stubCollections{deleted: true}, authedSession(),
			http.MethodDelete, "/api/collections/postings/d-1", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing returns 404", func(t *testing.T) {
		rec := serveCollections(&stubCollections{deleted: false}, authedSession(),
			http.MethodDelete, "/api/collections/postings/d-404", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("validation error returns 400", func(t *testing.T) {
		rec := serveCollections(&stubCollections{err: apperrors.Validation("bad collection name")}, authedSession(),
			http.MethodDelete, "/api/collections/NOPE/d-1", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

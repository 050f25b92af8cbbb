package service

import (
	"context"
	"encoding/json"

	"github.com/placementhub/portal-api/internal/data"
)

// CollectionServiceOptions groups dependencies for CollectionService.
type CollectionServiceOptions struct {
	Repo *data.CollectionRepo
}

// CollectionService fronts the generic document collections. Access
// control happens at the route layer; this service only normalizes
// requests and delegates to the repository.
type CollectionService struct {
	repo *data.CollectionRepo
}

// NewCollectionService constructs a new CollectionService.
func NewCollectionService(opts CollectionServiceOptions) *CollectionService {
	return &CollectionService{repo: opts.Repo}
}

// Create inserts a document into a collection.
func (s *CollectionService) Create(
	ctx context.Context,
	collection string,
	ownerID *string,
	body json.RawMessage,
) (*data.Document, error) {
	return s.repo.Create(ctx, collection, ownerID, body)
}

// GetByID retrieves a document.
func (s *CollectionService) GetByID(ctx context.Context, collection, id string) (*data.Document, error) {
	return s.repo.GetByID(ctx, collection, id)
}

// List returns a page of documents with normalized options.
func (s *CollectionService) List(
	ctx context.Context,
	collection string,
	opts data.CollectionListOptions,
) ([]*data.Document, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.repo.List(ctx, collection, opts)
}

// Update replaces a document body.
func (s *CollectionService) Update(
	ctx context.Context,
	collection, id string,
	body json.RawMessage,
) (*data.Document, error) {
	return s.repo.Update(ctx, collection, id, body)
}

// Delete removes a document. Returns false when nothing matched.
func (s *CollectionService) Delete(ctx context.Context, collection, id string) (bool, error) {
	return s.repo.Delete(ctx, collection, id)
}

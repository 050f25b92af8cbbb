package data

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/placementhub/portal-api/internal/errors"
	"github.com/placementhub/portal-api/internal/testutil"
)

func setupRepo(t *testing.T) *CollectionRepo {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return NewCollectionRepo(db)
}

func TestCollectionRepo_CreateGetRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	doc, err := repo.Create(ctx, "postings", nil, json.RawMessage(`{"title":"SDE Intern","ctc":12}`))
	require.NoError(t, err)
	require.NotEmpty(t, doc.ID)
	assert.Equal(t, "postings", doc.Collection)

	got, err := repo.GetByID(ctx, "postings", doc.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"SDE Intern","ctc":12}`, string(got.Body))

	// Same id under another collection does not resolve.
	_, err = repo.GetByID(ctx, "events", doc.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCollectionRepo_ListFilterAndPaging(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for _, body := range []string{
		`{"title":"SDE Intern","active":true}`,
		`{"title":"Analyst","active":false}`,
		`{"title":"Data Engineer","active":true}`,
	} {
		_, err := repo.Create(ctx, "postings", nil, json.RawMessage(body))
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, "postings", CollectionListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := repo.List(ctx, "postings", CollectionListOptions{Filter: "active"})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	paged, err := repo.List(ctx, "postings", CollectionListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, paged, 2)
}

func TestCollectionRepo_UpdateAndDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	doc, err := repo.Create(ctx, "postings", nil, json.RawMessage(`{"title":"SDE Intern"}`))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, "postings", doc.ID, json.RawMessage(`{"title":"SDE"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"SDE"}`, string(updated.Body))
	assert.NotNil(t, updated.UpdatedAt)

	ok, err := repo.Delete(ctx, "postings", doc.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, "postings", doc.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCollectionRepo_RejectsInvalidInput(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, "Bad Name!", nil, json.RawMessage(`{}`))
	assert.True(t, apperrors.IsValidation(err))

	_, err = repo.Create(ctx, "postings", nil, json.RawMessage(`{not json`))
	assert.True(t, apperrors.IsValidation(err))
}

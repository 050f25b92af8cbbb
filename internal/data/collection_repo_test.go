package data

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/placementhub/portal-api/internal/errors"
)

func doc(id string, body string) *Document {
	return &Document{ID: id, Collection: "job_postings", Body: json.RawMessage(body)}
}

func TestFilterDocuments(t *testing.T) {
	docs := []*Document{
		doc("1", `{"company":"Acme","ctc":12,"open":true}`),
		doc("2", `{"company":"Globex","ctc":8,"open":false}`),
		doc("3", `{"company":"Initech","ctc":20,"open":true}`),
	}

	t.Run("boolean field", func(t *testing.T) {
		kept, err := filterDocuments(docs, "open")
		require.NoError(t, err)
		require.Len(t, kept, 2)
		assert.Equal(t, "1", kept[0].ID)
		assert.Equal(t, "3", kept[1].ID)
	})

	t.Run("comparison", func(t *testing.T) {
		kept, err := filterDocuments(docs, "ctc > `10`")
		require.NoError(t, err)
		require.Len(t, kept, 2)
	})

	t.Run("string match", func(t *testing.T) {
		kept, err := filterDocuments(docs, "company == 'Globex'")
		require.NoError(t, err)
		require.Len(t, kept, 1)
		assert.Equal(t, "2", kept[0].ID)
	})

	t.Run("missing field is falsy", func(t *testing.T) {
		kept, err := filterDocuments(docs, "nonexistent")
		require.NoError(t, err)
		assert.Empty(t, kept)
	})

	t.Run("invalid expression", func(t *testing.T) {
		_, err := filterDocuments(docs, "][")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("undecodable body skipped", func(t *testing.T) {
		mixed := append([]*Document{doc("x", `{broken`)}, docs...)
		kept, err := filterDocuments(mixed, "open")
		require.NoError(t, err)
		assert.Len(t, kept, 2)
	})
}

func TestTruthy(t *testing.T) {
	assert.False(t, truthy(nil))
	assert.False(t, truthy(false))
	assert.False(t, truthy(""))
	assert.False(t, truthy([]any{}))
	assert.False(t, truthy(map[string]any{}))
	assert.True(t, truthy(true))
	assert.True(t, truthy("x"))
	assert.True(t, truthy(float64(0)), "numbers are always truthy in JMESPath")
	assert.True(t, truthy([]any{1}))
}

func TestValidateCollection(t *testing.T) {
	assert.NoError(t, validateCollection("job_postings"))
	assert.NoError(t, validateCollection("interviews-2026"))

	for _, bad := range []string{"", "Drop Table", "users;--", `a"b`, "-lead", "UPPER"} {
		err := validateCollection(bad)
		assert.Error(t, err, bad)
		assert.True(t, apperrors.IsValidation(err), bad)
	}
}

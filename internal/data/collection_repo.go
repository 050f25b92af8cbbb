// Package data provides PostgreSQL repositories for the portal's generic
// document collections.
package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/placementhub/portal-api/internal/data/pgxutil"
	apperrors "github.com/placementhub/portal-api/internal/errors"
)

// Document is one record in a named collection. The body is opaque to the
// portal core; collections give role-gated views a place to read and write
// their data without the gating layer knowing its shape.
type Document struct {
	ID         string          `db:"id"          json:"id"`
	Collection string          `db:"collection"  json:"collection"`
	OwnerID    *string         `db:"owner_id"    json:"owner_id,omitempty"`
	Body       json.RawMessage `db:"body"        json:"body"`
	CreatedAt  time.Time       `db:"created_at"  json:"created_at"`
	UpdatedAt  *time.Time      `db:"updated_at"  json:"updated_at,omitempty"`
}

// CollectionListOptions control List pagination and filtering. Filter is a
// JMESPath expression evaluated against each document body; documents whose
// result is falsy are dropped after the page is fetched.
type CollectionListOptions struct {
	Limit   int
	Offset  int
	OwnerID *string
	Filter  string
}

// CollectionRepo provides database operations for documents.
type CollectionRepo struct {
	DB *sql.DB
}

// NewCollectionRepo creates a new CollectionRepo.
func NewCollectionRepo(db *sql.DB) *CollectionRepo {
	return &CollectionRepo{DB: db}
}

const documentColumns = "id, collection, owner_id, body, created_at, updated_at"

// Create inserts a document into a collection.
func (r *CollectionRepo) Create(
	ctx context.Context,
	collection string,
	ownerID *string,
	body json.RawMessage,
) (*Document, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}
	if len(body) == 0 || !json.Valid(body) {
		return nil, apperrors.ValidationField("body", "body must be a JSON document")
	}

	var out Document
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO documents (collection, owner_id, body)
			VALUES ($1, $2, $3)
			RETURNING `+documentColumns,
			collection, ownerID, body,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[Document])
		return err
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "document")
	}
	return &out, nil
}

// GetByID retrieves a document. The collection name is part of the key so
// one collection cannot read another's records by ID.
func (r *CollectionRepo) GetByID(ctx context.Context, collection, id string) (*Document, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}

	var out Document
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+documentColumns+`
			FROM documents
			WHERE collection = $1 AND id = $2`,
			collection, id,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[Document])
		return err
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "document")
	}
	return &out, nil
}

// List returns a page of documents, newest first, with an optional owner
// restriction and optional JMESPath body filter.
func (r *CollectionRepo) List(
	ctx context.Context,
	collection string,
	opts CollectionListOptions,
) ([]*Document, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE collection = $1`
	args := []any{collection}
	if opts.OwnerID != nil {
		args = append(args, *opts.OwnerID)
		query += fmt.Sprintf(" AND owner_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	var rowsOut []Document
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[Document])
		return err
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "document")
	}

	docs := make([]*Document, len(rowsOut))
	for i := range rowsOut {
		docs[i] = &rowsOut[i]
	}
	if opts.Filter == "" {
		return docs, nil
	}
	return filterDocuments(docs, opts.Filter)
}

// Update replaces a document body. Missing documents surface as not-found.
func (r *CollectionRepo) Update(
	ctx context.Context,
	collection, id string,
	body json.RawMessage,
) (*Document, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}
	if len(body) == 0 || !json.Valid(body) {
		return nil, apperrors.ValidationField("body", "body must be a JSON document")
	}

	var out Document
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE documents
			SET body = $3, updated_at = now()
			WHERE collection = $1 AND id = $2
			RETURNING `+documentColumns,
			collection, id, body,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[Document])
		return err
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "document")
	}
	return &out, nil
}

// Delete removes a document. Returns false when nothing matched.
func (r *CollectionRepo) Delete(ctx context.Context, collection, id string) (bool, error) {
	if err := validateCollection(collection); err != nil {
		return false, err
	}

	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`DELETE FROM documents WHERE collection = $1 AND id = $2`,
			collection, id,
		)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, apperrors.FromDB(err, "document")
	}
	return affected > 0, nil
}

// filterDocuments keeps documents whose body satisfies the JMESPath
// expression. A body that fails to decode is skipped rather than failing
// the whole page.
func filterDocuments(docs []*Document, expr string) ([]*Document, error) {
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, apperrors.ValidationField("filter", "invalid filter expression")
	}

	kept := make([]*Document, 0, len(docs))
	for _, doc := range docs {
		var decoded any
		if json.Unmarshal(doc.Body, &decoded) != nil {
			continue
		}
		result, searchErr := jmespath.Search(expr, decoded)
		if searchErr != nil {
			continue
		}
		if truthy(result) {
			kept = append(kept, doc)
		}
	}
	return kept, nil
}

// truthy follows JMESPath semantics: false, null, empty strings, empty
// collections are falsy, everything else is truthy.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

// validateCollection enforces safe collection names: short lowercase
// identifiers, no path or quote characters.
func validateCollection(name string) error {
	if name == "" {
		return apperrors.ValidationField("collection", "collection name is required")
	}
	if len(name) > 64 {
		return apperrors.ValidationField("collection", "collection name too long")
	}
	for _, r := range name {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-'
		if !ok {
			return apperrors.ValidationField("collection", "collection name must be lowercase alphanumeric")
		}
	}
	if strings.HasPrefix(name, "-") {
		return apperrors.ValidationField("collection", "collection name must start with a letter or digit")
	}
	return nil
}

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsSetCodes(t *testing.T) {
	cases := []struct {
		err  *AppError
		code ErrorCode
	}{
		{Validation("bad input"), ErrCodeValidation},
		{Auth("rejected"), ErrCodeAuth},
		{PersistenceCorruption("garbled payload"), ErrCodePersistenceCorruption},
		{StaleResponse("old generation"), ErrCodeStaleResponse},
		{NotFound("missing"), ErrCodeNotFound},
		{Conflict("duplicate"), ErrCodeConflict},
		{Internal("boom"), ErrCodeInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.code, GetCode(tc.err))
	}
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsValidation(Validation("x")))
	assert.True(t, IsAuth(Auth("x")))
	assert.True(t, IsStaleResponse(StaleResponse("x")))
	assert.True(t, IsPersistenceCorruption(PersistenceCorruption("x")))
	assert.False(t, IsAuth(Validation("x")))
	assert.False(t, IsValidation(errors.New("plain")))
	assert.False(t, IsAuth(nil))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, ErrCodeAuth, "backend unreachable")

	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "backend unreachable")
	assert.Contains(t, err.Error(), "connection refused")

	// Wrapping through another fmt layer still resolves with errors.As.
	outer := fmt.Errorf("login: %w", err)
	assert.True(t, IsAuth(outer))
	assert.Equal(t, ErrCodeAuth, GetCode(outer))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "ignored %d", 1))
}

func TestValidationField(t *testing.T) {
	err := ValidationField("password", "too short")
	assert.True(t, IsValidation(err))
	assert.Equal(t, "password", GetField(err))
	assert.Empty(t, GetField(errors.New("plain")))
}

func TestFromDB(t *testing.T) {
	assert.Nil(t, FromDB(nil, "user"))

	notFound := FromDB(pgx.ErrNoRows, "user")
	assert.True(t, IsNotFound(notFound))

	dup := FromDB(&pgconn.PgError{Code: pgerrcode.UniqueViolation}, "user")
	assert.True(t, IsConflict(dup))

	fk := FromDB(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, "profile")
	assert.True(t, IsConflict(fk))

	check := FromDB(&pgconn.PgError{Code: pgerrcode.CheckViolation}, "document")
	assert.True(t, IsValidation(check))

	other := FromDB(errors.New("socket closed"), "user")
	assert.True(t, IsInternal(other))
}

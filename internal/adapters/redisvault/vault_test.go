package redisvault

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placementhub/portal-api/internal/ports"
	"github.com/placementhub/portal-api/internal/testutil"
)

func TestSlot_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	vault := New(client, WithPrefix("test-identity:"), WithTTL(time.Minute))
	slot := vault.ForClient("client-1")
	ctx := context.Background()

	_, err := slot.ReadIdentity(ctx)
	assert.ErrorIs(t, err, ports.ErrIdentityAbsent)

	payload := []byte(`{"user_id":"u-1","role":"student"}`)
	require.NoError(t, slot.WriteIdentity(ctx, payload))

	got, err := slot.ReadIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NoError(t, slot.ClearIdentity(ctx))
	_, err = slot.ReadIdentity(ctx)
	assert.ErrorIs(t, err, ports.ErrIdentityAbsent)
}

func TestSlot_ClientsAreIsolated(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	vault := New(client, WithPrefix("test-identity:"))
	ctx := context.Background()

	require.NoError(t, vault.ForClient("client-a").WriteIdentity(ctx, []byte(`{"user_id":"a"}`)))

	_, err := vault.ForClient("client-b").ReadIdentity(ctx)
	assert.ErrorIs(t, err, ports.ErrIdentityAbsent)
}

func TestSlot_WriteRejectsEmptyPayload(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	slot := New(client).ForClient("client-1")
	assert.Error(t, slot.WriteIdentity(context.Background(), nil))
}

func TestSlot_TTLApplied(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	client := testutil.SetupTestRedis(t)
	defer func() { _ = client.Close() }()

	vault := New(client, WithPrefix("test-identity:"), WithTTL(time.Hour))
	ctx := context.Background()
	require.NoError(t, vault.ForClient("client-1").WriteIdentity(ctx, []byte(`{}`)))

	ttl, err := client.TTL(ctx, "test-identity:client-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Minute)
}

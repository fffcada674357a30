package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryKV struct {
	data map[string]time.Duration
	err  error
}

func (m *memoryKV) SetWithTTL(_ context.Context, key, _ string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.data[key] = ttl
	return nil
}

func (m *memoryKV) Exists(_ context.Context, key string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.data[key]
	return ok, nil
}

func TestKVRevoker(t *testing.T) {
	ctx := context.Background()
	kv := &memoryKV{data: map[string]time.Duration{}}
	r := NewKVRevoker(kv)

	require.NoError(t, r.Revoke(ctx, "jti-1", time.Hour))
	assert.Equal(t, time.Hour, kv.data["auth:revoked:jti-1"])

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	// already expired tokens need no entry
	require.NoError(t, r.Revoke(ctx, "jti-3", -time.Second))
	assert.NotContains(t, kv.data, "auth:revoked:jti-3")
}

func TestKVRevoker_StoreError(t *testing.T) {
	ctx := context.Background()
	r := NewKVRevoker(&memoryKV{err: errors.New("connection refused")})

	assert.ErrorContains(t, r.Revoke(ctx, "jti-1", time.Hour), "failed to revoke token")

	_, err := r.IsRevoked(ctx, "jti-1")
	assert.ErrorContains(t, err, "connection refused")
}

func TestNopRevoker(t *testing.T) {
	var r Revoker = NopRevoker{}
	require.NoError(t, r.Revoke(context.Background(), "jti", time.Hour))

	revoked, err := r.IsRevoked(context.Background(), "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}

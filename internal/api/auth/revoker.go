package auth

import (
	"context"
	"fmt"
	"time"
)

const revokedKeyPrefix = "auth:revoked:"

// Revoker tracks tokens that were logged out before they expired
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// KV is the subset of a key-value store the Redis revoker needs
type KV interface {
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

// KVRevoker keeps revoked token ids in a key-value store until they would have expired anyway
type KVRevoker struct {
	kv KV
}

func NewKVRevoker(kv KV) *KVRevoker {
	return &KVRevoker{kv: kv}
}

func (r *KVRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.kv.SetWithTTL(ctx, revokedKeyPrefix+tokenID, "1", ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *KVRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	revoked, err := r.kv.Exists(ctx, revokedKeyPrefix+tokenID)
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return revoked, nil
}

// NopRevoker is used when no denylist store is configured
type NopRevoker struct{}

func (NopRevoker) Revoke(context.Context, string, time.Duration) error { return nil }

func (NopRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }

package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestDenylistKey(t *testing.T) {
	a := denylistKey("token-a")
	b := denylistKey("token-b")

	if !strings.HasPrefix(a, "revoked:") {
		t.Fatalf("unexpected prefix: %s", a)
	}
	if len(a) != len("revoked:")+64 {
		t.Fatalf("expected sha256 hex suffix, got %s", a)
	}
	if a == b {
		t.Fatalf("distinct tokens must map to distinct keys")
	}
	if strings.Contains(a, "token-a") {
		t.Fatalf("raw token must not appear in the key")
	}
	if denylistKey("token-a") != a {
		t.Fatalf("key must be deterministic")
	}
}

func TestTokenDenylist_RevokeExpiredIsNoop(t *testing.T) {
	client := unreachableClient()
	defer client.Close()
	d := NewTokenDenylist(client)

	if err := d.Revoke(context.Background(), "tok", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("expected no store access for an expired token, got %v", err)
	}
}

func TestTokenDenylist_StoreUnavailable(t *testing.T) {
	client := unreachableClient()
	defer client.Close()
	d := NewTokenDenylist(client)

	if _, err := d.IsRevoked(context.Background(), "tok"); err == nil {
		t.Fatalf("expected error from unreachable store")
	}
	if err := d.Revoke(context.Background(), "tok", time.Now().Add(time.Hour)); err == nil {
		t.Fatalf("expected error from unreachable store")
	}
}

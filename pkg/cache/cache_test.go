package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss before set
	_, hit, err := c.Get(ctx, "view-key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss before Set")
	}

	// Round trip
	payload := []byte("1####\n#####\n2####\n#####\n")
	if err := c.Set(ctx, "view-key", payload, time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, hit, err := c.Get(ctx, "view-key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(got) != string(payload) {
		t.Errorf("payload mismatch: %q", got)
	}

	// Delete
	if err := c.Delete(ctx, "view-key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "view-key"); hit {
		t.Error("expected miss after Delete")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "ghost"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestFileCacheLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	key := NewDefaultKeyer().ViewKey("hash123", ViewKeyOpts{Units: 20})
	if err := c.Set(ctx, key, []byte("grid"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// The artifact kind from the key prefix names the top-level directory.
	entries, err := os.ReadDir(filepath.Join(dir, "view"))
	if err != nil {
		t.Fatalf("view directory missing: %v", err)
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		t.Fatalf("want one shard directory under view/, got %v", entries)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should be a miss")
	}

	// Zero TTL never expires
	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero-TTL entry should not expire")
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// OrderKey should include options in hash
	ok1 := k.OrderKey("hash123", OrderKeyOpts{Inference: true})
	ok2 := k.OrderKey("hash123", OrderKeyOpts{Inference: false})
	if ok1 == ok2 {
		t.Error("Different OrderKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(ok1, "order:") {
		t.Errorf("OrderKey should carry the order prefix: %s", ok1)
	}

	// ViewKey
	vk1 := k.ViewKey("hash123", ViewKeyOpts{Units: 20, ShowOrder: true})
	vk2 := k.ViewKey("hash123", ViewKeyOpts{Units: 40, ShowOrder: true})
	if vk1 == vk2 {
		t.Error("Different ViewKeyOpts should produce different keys")
	}

	// RenderKey
	rk1 := k.RenderKey("hash123", RenderKeyOpts{Format: "svg"})
	rk2 := k.RenderKey("hash123", RenderKeyOpts{Format: "png"})
	if rk1 == rk2 {
		t.Error("Different RenderKeyOpts should produce different keys")
	}

	// Ordering options participate in view and render keys: a tie-break
	// change renumbers view labels, inference changes the rendered edges.
	vkID := k.ViewKey("hash123", ViewKeyOpts{Units: 20, ShowOrder: true})
	vkArea := k.ViewKey("hash123", ViewKeyOpts{Order: OrderKeyOpts{TieBreak: "area"}, Units: 20, ShowOrder: true})
	if vkID == vkArea {
		t.Error("Different ordering options should produce different view keys")
	}
	rkPlain := k.RenderKey("hash123", RenderKeyOpts{Format: "svg"})
	rkInfer := k.RenderKey("hash123", RenderKeyOpts{Order: OrderKeyOpts{Inference: true}, Format: "svg"})
	if rkPlain == rkInfer {
		t.Error("Different ordering options should produce different render keys")
	}

	// Different documents produce different keys
	if k.ViewKey("hash123", ViewKeyOpts{Units: 20}) == k.ViewKey("hash456", ViewKeyOpts{Units: 20}) {
		t.Error("Different document hashes should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:123:")

	// All keys should be prefixed
	vk := scoped.ViewKey("hash123", ViewKeyOpts{Units: 20})
	if !strings.HasPrefix(vk, "tenant:123:view:") {
		t.Errorf("ScopedKeyer ViewKey should be prefixed: %s", vk)
	}

	ok := scoped.OrderKey("hash123", OrderKeyOpts{})
	if !strings.HasPrefix(ok, "tenant:123:order:") {
		t.Errorf("ScopedKeyer OrderKey should be prefixed: %s", ok)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.RenderKey("hash123", RenderKeyOpts{Format: "dot"})
	if !strings.HasPrefix(key, "prefix:render:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrUnavailable)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(errors.New("permanent")) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	permanent := errors.New("permanent")
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return permanent
	})
	if err != permanent {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

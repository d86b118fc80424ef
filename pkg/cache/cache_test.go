package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/graphma/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get after Set = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	mod := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	hk1 := k.HeaderKey("/data/a.mtx", 100, mod, "mtx")
	hk2 := k.HeaderKey("/data/a.mtx", 101, mod, "mtx")
	hk3 := k.HeaderKey("/data/a.mtx", 100, mod.Add(time.Second), "mtx")
	if hk1 == hk2 || hk1 == hk3 {
		t.Error("size and modification time should change the header key")
	}
	if hk1 != k.HeaderKey("/data/a.mtx", 100, mod, "mtx") {
		t.Error("HeaderKey should be deterministic")
	}
	if !strings.HasPrefix(hk1, "header:") {
		t.Errorf("HeaderKey unexpected: %s", hk1)
	}

	sk := k.StatsKey("/data/a.mtx", 100, mod)
	if !strings.HasPrefix(sk, "stats:") || sk == hk1 {
		t.Errorf("StatsKey unexpected: %s", sk)
	}
}

func TestKeyType(t *testing.T) {
	k := NewDefaultKeyer()
	now := time.Now()
	tests := []struct {
		key  string
		want string
	}{
		{k.HeaderKey("a", 1, now, "dot"), "header"},
		{k.StatsKey("a", 1, now), "stats"},
		{NewScopedKeyer(k, "team:").HeaderKey("a", 1, now, "dot"), "header"},
		{"plain", "unknown"},
	}
	for _, tt := range tests {
		if got := KeyType(tt.key); got != tt.want {
			t.Errorf("KeyType(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "suitesparse:")
	now := time.Now()

	key := scoped.HeaderKey("a.mtx", 1, now, "mtx")
	if key != "suitesparse:"+inner.HeaderKey("a.mtx", 1, now, "mtx") {
		t.Errorf("ScopedKeyer HeaderKey unexpected: %s", key)
	}
	if !strings.HasPrefix(scoped.StatsKey("a.mtx", 1, now), "suitesparse:stats:") {
		t.Error("ScopedKeyer StatsKey should be prefixed")
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	now := time.Now()
	if got, want := scoped.StatsKey("x", 0, now), "prefix:"+NewDefaultKeyer().StatsKey("x", 0, now); got != want {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

type recordingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *recordingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *recordingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *recordingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	hooks := &recordingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("Get(missing) = %v, %v", hit, err)
	}
	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get(key) = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get after Delete should miss")
	}

	if hooks.hits != 1 || hooks.misses != 2 || hooks.sets != 1 {
		t.Errorf("hooks = %d hits, %d misses, %d sets", hooks.hits, hooks.misses, hooks.sets)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "key", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheInvalidEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fc := c.(*FileCache)
	path := fc.path("key")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("Get(corrupt) = %v, %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	fc := c.(*FileCache)
	n, err := fc.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}
	if fc.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir should survive Clear: %v", err)
	}
}

func TestFileCacheConcurrentSet(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Set(ctx, "shared", []byte(strings.Repeat("x", 64*(i+1))), 0); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	data, hit, err := c.Get(ctx, "shared")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v", hit, err)
	}
	if len(data)%64 != 0 || strings.Trim(string(data), "x") != "" {
		t.Errorf("torn entry of %d bytes", len(data))
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("GRAPHMA_TEST_REDIS")
	if addr == "" {
		t.Skip("GRAPHMA_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "graphma-test:"})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	key := NewDefaultKeyer().StatsKey(t.Name(), 1, time.Now())
	if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// Port 1 on localhost refuses connections.
	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	if err == nil {
		t.Fatal("expected connection error")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should stay nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) || !errors.Is(err, ErrNetwork) {
		t.Errorf("Retryable(ErrNetwork) = %v, should unwrap to ErrNetwork", err)
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("message = %q", err.Error())
	}
	if IsRetryable(ErrClosed) {
		t.Error("plain errors are not retryable")
	}
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		failWith  error
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{"first try", 0, nil, 3, 1, nil},
		{"permanent error", 5, ErrClosed, 3, 1, ErrClosed},
		{"recovers", 1, Retryable(ErrNetwork), 3, 2, nil},
		{"exhausted", 5, Retryable(ErrNetwork), 3, 3, ErrNetwork},
		{"single attempt", 5, Retryable(ErrNetwork), 1, 1, ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Backoff{Attempts: tt.attempts, Delay: time.Millisecond}.Do(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.failWith
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

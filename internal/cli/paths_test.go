package cli

import (
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", "graphma")},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", "graphma")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewCacheBackends(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := t.Context()

	for _, b := range []backend{backendFile, backendNone} {
		store, err := newCache(ctx, cacheConfig{Backend: b})
		if err != nil {
			t.Fatalf("newCache(%s) error: %v", b, err)
		}
		if err := store.Set(ctx, "k", []byte("v"), 0); err != nil {
			t.Fatalf("Set(%s) error: %v", b, err)
		}
		_, hit, err := store.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get(%s) error: %v", b, err)
		}
		if want := b == backendFile; hit != want {
			t.Errorf("backend %s: hit = %v, want %v", b, hit, want)
		}
		store.Close()
	}
}

package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

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

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("empty cache should miss")
	}

	if err := c.Set(ctx, "markup", []byte("\\begin{tikzpicture}"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "markup")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != "\\begin{tikzpicture}" {
		t.Errorf("Get = %q", data)
	}

	if err := c.Delete(ctx, "markup"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "markup"); hit {
		t.Error("expected miss after Delete")
	}
	if err := c.Delete(ctx, "markup"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "ttl", []byte("x"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "ttl"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCachePurge(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte(key), 0); err != nil {
			t.Fatalf("Set %q: %v", key, err)
		}
	}

	removed, err := c.Purge()
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if removed != 3 {
		t.Errorf("Purge removed %d entries, want 3", removed)
	}
	for _, key := range []string{"a", "b", "c"} {
		if _, hit, _ := c.Get(ctx, key); hit {
			t.Errorf("key %q survived Purge", key)
		}
	}
}

func TestKeyerDistinguishesOptions(t *testing.T) {
	k := NewDefaultKeyer()

	treeA := k.TreeKey([]byte("players A B"))
	treeB := k.TreeKey([]byte("players A C"))
	if treeA == treeB {
		t.Error("different sources must produce different tree keys")
	}
	if !strings.HasPrefix(treeA, "tree:") {
		t.Errorf("tree key %q should carry the tree prefix", treeA)
	}

	base := LayoutKeyOpts{HorizontalUnit: 1.2, VerticalUnit: 1.5, Scale: 1, MinGap: 0.4, WidenLimit: 12}
	scaled := base
	scaled.Scale = 2
	if k.LayoutKey(treeA, base) == k.LayoutKey(treeA, scaled) {
		t.Error("layout key must depend on scale")
	}
	if k.LayoutKey(treeA, base) != k.LayoutKey(treeA, base) {
		t.Error("layout key must be stable")
	}

	pdf := ArtifactKeyOpts{Format: "pdf"}
	png := ArtifactKeyOpts{Format: "png", DPI: 300}
	if k.ArtifactKey("h", pdf) == k.ArtifactKey("h", png) {
		t.Error("artifact key must depend on format")
	}
}

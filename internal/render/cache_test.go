package render

import (
	"sync"
	"testing"
)

func clearPools() {
	globalPool.mu.Lock()
	globalPool.pools = make(map[string]*sync.Pool)
	globalPool.mu.Unlock()
}

func poolCount() int {
	globalPool.mu.RLock()
	defer globalPool.mu.RUnlock()
	return len(globalPool.pools)
}

func TestCacheKey(t *testing.T) {
	base := DefaultOptions()

	if cacheKey(base) == cacheKey(base.WithWidth(100)) {
		t.Error("different widths should produce different keys")
	}
	if cacheKey(base) == cacheKey(base.WithStyle("light")) {
		t.Error("different styles should produce different keys")
	}
	if cacheKey(base) != cacheKey(DefaultOptions()) {
		t.Error("same options should produce same key")
	}
}

func TestPoolGetAndPut(t *testing.T) {
	clearPools()
	defer clearPools()

	opts := DefaultOptions()
	r1, err := globalPool.get(opts)
	if err != nil || r1 == nil {
		t.Fatalf("expected renderer, got %v (err %v)", r1, err)
	}
	if poolCount() != 1 {
		t.Errorf("expected pool count 1, got %d", poolCount())
	}
	globalPool.put(opts, r1)

	opts2 := opts.WithWidth(100)
	r2, err := globalPool.get(opts2)
	if err != nil || r2 == nil {
		t.Fatalf("expected renderer, got %v (err %v)", r2, err)
	}
	globalPool.put(opts2, r2)

	if poolCount() != 2 {
		t.Errorf("expected pool count 2, got %d", poolCount())
	}

	globalPool.put(opts, nil)
}

func TestPoolConcurrency(t *testing.T) {
	clearPools()
	defer clearPools()

	var wg sync.WaitGroup
	errs := make(chan error, 40)

	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			opts := DefaultOptions().WithWidth(60 + i%2*20)
			if _, err := Markdown("# Vraag\n\nEen **antwoord**", opts); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent render failed: %v", err)
	}
	if poolCount() != 2 {
		t.Errorf("expected 2 pools, got %d", poolCount())
	}
}

func TestMarkdown_ReusesPoolForSameOptions(t *testing.T) {
	clearPools()
	defer clearPools()

	opts := DefaultOptions().WithWidth(70)
	for i := 0; i < 3; i++ {
		if _, err := Markdown("x", opts); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if poolCount() != 1 {
		t.Errorf("expected 1 pool, got %d", poolCount())
	}
}

func TestCreateRenderer_BuiltinAndGlamourStyles(t *testing.T) {
	for _, style := range []string{ThemeWabliefteru, ThemeDark, ThemeNoTTY} {
		r, err := createRenderer(DefaultOptions().WithStyle(style))
		if err != nil {
			t.Fatalf("style %q: %v", style, err)
		}
		out, err := r.Render("**hallo**")
		if err != nil {
			t.Fatalf("style %q render: %v", style, err)
		}
		if out == "" {
			t.Errorf("style %q produced empty output", style)
		}
	}
}

func TestCreateRendererWithInvalidStyle(t *testing.T) {
	if _, err := createRenderer(DefaultOptions().WithStyle("invalid_style_path")); err == nil {
		t.Error("expected error for invalid style")
	}
}

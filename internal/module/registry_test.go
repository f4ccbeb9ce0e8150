package module

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"ember/internal/vmctx"
)

func newTestRegistry(t *testing.T, dir string) *Registry {
	t.Helper()
	ctx := vmctx.NewContext()
	ctx.BootstrapClasses()
	return NewRegistry(ctx, dir)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRegistryLoadsDirectFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "greet.ember", "var greeting = 1;")

	r := newTestRegistry(t, dir)
	mod, err := r.Load("greet.ember")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if mod == nil {
		t.Fatal("Load returned nil module")
	}
}

func TestRegistryLoadsWithImpliedExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.ember", "var n = 1;")

	r := newTestRegistry(t, dir)
	mod, err := r.Load("util")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if mod == nil {
		t.Fatal("Load returned nil module")
	}
}

func TestRegistryLoadsIndexFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, filepath.Join("pkg", "index.ember"), "var n = 1;")

	r := newTestRegistry(t, dir)
	mod, err := r.Load("pkg")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if mod == nil {
		t.Fatal("Load returned nil module")
	}
}

func TestRegistryCachesSecondLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "once.ember", "var n = 1;")

	r := newTestRegistry(t, dir)
	first, err := r.Load("once")
	if err != nil {
		t.Fatalf("first Load error: %v", err)
	}
	second, err := r.Load("once")
	if err != nil {
		t.Fatalf("second Load error: %v", err)
	}
	if first != second {
		t.Fatal("expected the second Load to return the cached module instance")
	}
}

func TestRegistryNotFoundError(t *testing.T) {
	dir := t.TempDir()
	r := newTestRegistry(t, dir)
	if _, err := r.Load("does_not_exist"); err == nil {
		t.Fatal("expected a not-found error")
	}
}

// TestRegistryCollapsesConcurrentLoads covers the singleflight dedup path:
// many goroutines requesting the same not-yet-cached module concurrently
// should all observe the same compiled module instance.
func TestRegistryCollapsesConcurrentLoads(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.ember", "var n = 1;")

	r := newTestRegistry(t, dir)

	const goroutines = 16
	results := make([]any, goroutines)
	errs := make([]error, goroutines)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			mod, err := r.Load("shared")
			results[i] = mod
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("goroutine %d: Load error: %v", i, err)
		}
	}
	for i := 1; i < goroutines; i++ {
		if results[i] != results[0] {
			t.Fatalf("goroutine %d returned a different module instance than goroutine 0", i)
		}
	}
}

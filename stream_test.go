package flexpersist_test

import (
	"errors"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"github.com/bourbaki-go/flexpersist"
)

func TestDumpLoadStreamDir(t *testing.T) {
	p, err := flexpersist.New("json")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	values := make([]any, 10)
	for i := range values {
		values[i] = map[string]any{"index": float64(i)}
	}

	dir := filepath.Join(t.TempDir(), "out")
	if err := p.DumpStreamToDir(slices.Values(values), dir, "item"); err != nil {
		t.Fatalf("DumpStreamToDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "item000000.json")); err != nil {
		t.Fatalf("expected zero-padded entry file: %v", err)
	}

	var got []any
	for v, err := range p.LoadStreamFromDir(dir, "item") {
		if err != nil {
			t.Fatalf("LoadStreamFromDir() element error = %v", err)
		}
		got = append(got, v)
	}
	if !reflect.DeepEqual(got, values) {
		t.Errorf("round-trip = %v, want %v", got, values)
	}

	// The sequence is restartable.
	var count int
	for _, err := range p.LoadStreamFromDir(dir, "item") {
		if err != nil {
			t.Fatalf("second pass element error = %v", err)
		}
		count++
	}
	if count != len(values) {
		t.Errorf("second pass yielded %d elements, want %d", count, len(values))
	}
}

// Numeric index order must hold even when filenames sort differently as
// strings, which single-digit padding provokes past ten elements.
func TestLoadStreamFromDir_NumericOrder(t *testing.T) {
	p, err := flexpersist.New("json", flexpersist.WithPadWidth(1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	values := make([]any, 12)
	for i := range values {
		values[i] = float64(i)
	}

	dir := t.TempDir()
	if err := p.DumpStreamToDir(slices.Values(values), dir, "v"); err != nil {
		t.Fatalf("DumpStreamToDir() error = %v", err)
	}

	var got []any
	for v, err := range p.LoadStreamFromDir(dir, "v") {
		if err != nil {
			t.Fatalf("element error = %v", err)
		}
		got = append(got, v)
	}
	if !reflect.DeepEqual(got, values) {
		t.Errorf("order = %v, want %v", got, values)
	}
}

func TestKeyedStreamDir(t *testing.T) {
	p, err := flexpersist.New("json", flexpersist.WithCompression("zstd"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	in := map[string]any{
		"alpha": float64(1),
		"beta":  float64(2),
		"gamma": float64(3),
	}

	dir := t.TempDir()
	if err := p.DumpKeyedStreamToDir(maps.All(in), dir, "k-"); err != nil {
		t.Fatalf("DumpKeyedStreamToDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "k-alpha.json.zst")); err != nil {
		t.Fatalf("expected keyed entry file: %v", err)
	}

	got := make(map[string]any)
	for e, err := range p.LoadKeyedStreamFromDir(dir, "k-") {
		if err != nil {
			t.Fatalf("LoadKeyedStreamFromDir() element error = %v", err)
		}
		got[e.Key.(string)] = e.Value
	}
	if !reflect.DeepEqual(got, in) {
		t.Errorf("round-trip = %v, want %v", got, in)
	}
}

func TestDumpStreamToDir_NotADirectory(t *testing.T) {
	p, err := flexpersist.New("json")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	err = p.DumpStreamToDir(slices.Values([]any{1}), path, "item")
	if !errors.Is(err, flexpersist.ErrResource) {
		t.Errorf("DumpStreamToDir() error = %v, want ErrResource", err)
	}
}

func TestLoadStreamFromDir_IgnoresUnrelatedFiles(t *testing.T) {
	p, err := flexpersist.New("json")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	dir := t.TempDir()
	if err := p.DumpStreamToDir(slices.Values([]any{"only"}), dir, "item"); err != nil {
		t.Fatalf("DumpStreamToDir() error = %v", err)
	}
	for _, name := range []string{"README.md", "item-notanumber.json", "other000000.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var count int
	for _, err := range p.LoadStreamFromDir(dir, "item") {
		if err != nil {
			t.Fatalf("element error = %v", err)
		}
		count++
	}
	if count != 1 {
		t.Errorf("loaded %d elements, want 1", count)
	}
}

func TestLoadStreamFromDir_MissingDir(t *testing.T) {
	p, err := flexpersist.New("json")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, err := range p.LoadStreamFromDir(filepath.Join(t.TempDir(), "absent"), "item") {
		if !errors.Is(err, flexpersist.ErrResource) {
			t.Errorf("element error = %v, want ErrResource", err)
		}
	}
}

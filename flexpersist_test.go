package flexpersist_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"unicode/utf8"

	"github.com/bourbaki-go/flexpersist"
	"github.com/bourbaki-go/flexpersist/codec"
	"github.com/bourbaki-go/flexpersist/pipeline"
)

var sampleValue = map[string]any{
	"name":   "sensor-7",
	"count":  float64(42),
	"labels": []any{"raw", "hourly"},
	"extra":  nil,
}

func TestNew_UnknownSerialization(t *testing.T) {
	_, err := flexpersist.New("xml")
	if !errors.Is(err, codec.ErrUnknownCodec) {
		t.Errorf("New(xml) error = %v, want ErrUnknownCodec", err)
	}
}

func TestPersister_DumpLoad(t *testing.T) {
	p, err := flexpersist.New("json")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := p.Extension(); got != ".json" {
		t.Errorf("Extension() = %q, want %q", got, ".json")
	}

	base := filepath.Join(t.TempDir(), "data")
	if err := p.Dump(sampleValue, base); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if _, err := os.Stat(base + ".json"); err != nil {
		t.Fatalf("auto-extension did not produce data.json: %v", err)
	}

	var got map[string]any
	if err := p.Load(&got, base); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, sampleValue) {
		t.Errorf("round-trip = %+v, want %+v", got, sampleValue)
	}
}

func TestPersister_DumpLoad_Compressed(t *testing.T) {
	p, err := flexpersist.New("json", flexpersist.WithCompression("gzip"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := p.Extension(); got != ".json.gzip" {
		t.Errorf("Extension() = %q, want %q", got, ".json.gzip")
	}
	if p.Mode() != pipeline.ModeBinary {
		t.Errorf("Mode() = %v, want binary", p.Mode())
	}

	base := filepath.Join(t.TempDir(), "data")
	if err := p.Dump(sampleValue, base); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	var got map[string]any
	if err := p.Load(&got, base); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, sampleValue) {
		t.Errorf("round-trip = %+v, want %+v", got, sampleValue)
	}
}

func TestPersister_ExplicitExtensionKept(t *testing.T) {
	p, err := flexpersist.New("json")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "data.out")
	if err := p.Dump(sampleValue, path); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("path with an extension should be used verbatim: %v", err)
	}
}

func TestPersister_NoAutoExtension(t *testing.T) {
	p, err := flexpersist.New("json", flexpersist.WithAutoExtension(false))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "data")
	if err := p.Dump(sampleValue, path); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Dump() with auto-extension off should write to the exact path: %v", err)
	}
}

func TestPersister_DumpToLoadFrom(t *testing.T) {
	p, err := flexpersist.New("msgpack", flexpersist.WithCompression("zstd"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	type record struct {
		Name string
		N    int
	}
	in := record{Name: "a", N: 7}

	var buf bytes.Buffer
	if err := p.DumpTo(&buf, in); err != nil {
		t.Fatalf("DumpTo() error = %v", err)
	}
	var out record
	if err := p.LoadFrom(&buf, &out); err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if out != in {
		t.Errorf("round-trip = %+v, want %+v", out, in)
	}
}

func TestPersister_LoadMissingFile(t *testing.T) {
	p, err := flexpersist.New("json")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	var v any
	if err := p.Load(&v, filepath.Join(t.TempDir(), "absent")); !errors.Is(err, flexpersist.ErrResource) {
		t.Errorf("Load() error = %v, want ErrResource", err)
	}
}

func TestPersister_TextNotSupported(t *testing.T) {
	p, err := flexpersist.New("gob")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := p.Text(); !errors.Is(err, flexpersist.ErrNotSupported) {
		t.Errorf("Text() error = %v, want ErrNotSupported", err)
	}

	// Compression strips text capability from a text serializer too.
	p, err = flexpersist.New("json", flexpersist.WithCompression("gzip"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := p.Text(); !errors.Is(err, flexpersist.ErrNotSupported) {
		t.Errorf("Text() error = %v, want ErrNotSupported", err)
	}
}

func TestPersister_TextEncodingNotInStoragePipeline(t *testing.T) {
	p, err := flexpersist.New("gob", flexpersist.WithTextEncoding("base64"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Whole-value storage stays binary; only the text operations encode.
	if got := p.Extension(); got != ".gob" {
		t.Errorf("Extension() = %q, want %q", got, ".gob")
	}
	txt, err := p.Text()
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if got := txt.Extension(); got != ".gob.base64" {
		t.Errorf("Text().Extension() = %q, want %q", got, ".gob.base64")
	}
}

func TestWithAlwaysTextEncoding_RequiresEncoding(t *testing.T) {
	_, err := flexpersist.New("json", flexpersist.WithAlwaysTextEncoding())
	if !errors.Is(err, codec.ErrConfiguration) {
		t.Errorf("New() error = %v, want ErrConfiguration", err)
	}
}

func TestFromExtension(t *testing.T) {
	p, err := flexpersist.FromExtension(".json.gzip.base64")
	if err != nil {
		t.Fatalf("FromExtension() error = %v", err)
	}

	// A text-encoding segment in the extension forces text storage.
	if got := p.Extension(); got != ".json.gzip.base64" {
		t.Errorf("Extension() = %q, want %q", got, ".json.gzip.base64")
	}
	if p.Mode() != pipeline.ModeText {
		t.Errorf("Mode() = %v, want text", p.Mode())
	}

	path := filepath.Join(t.TempDir(), "data")
	if err := p.Dump(sampleValue, path); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	raw, err := os.ReadFile(path + ".json.gzip.base64")
	if err != nil {
		t.Fatalf("reading dumped file: %v", err)
	}
	if !utf8.Valid(raw) {
		t.Error("stored representation is not valid text")
	}

	var got map[string]any
	if err := p.Load(&got, path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, sampleValue) {
		t.Errorf("round-trip = %+v, want %+v", got, sampleValue)
	}
}

func TestFromExtension_MatchesNew(t *testing.T) {
	orig, err := flexpersist.New("cbor", flexpersist.WithCompression("lz4"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	recovered, err := flexpersist.FromExtension(orig.Extension())
	if err != nil {
		t.Fatalf("FromExtension(%q) error = %v", orig.Extension(), err)
	}
	if !reflect.DeepEqual(recovered.Spec(), orig.Spec()) {
		t.Errorf("FromExtension(%q).Spec() = %+v, want %+v",
			orig.Extension(), recovered.Spec(), orig.Spec())
	}
}

func TestFromExtension_Invalid(t *testing.T) {
	if _, err := flexpersist.FromExtension(".json.gzip.base64.extra"); !errors.Is(err, codec.ErrTooManySegments) {
		t.Errorf("FromExtension() error = %v, want ErrTooManySegments", err)
	}
	if _, err := flexpersist.FromExtension(".wat"); !errors.Is(err, codec.ErrUnknownExtension) {
		t.Errorf("FromExtension() error = %v, want ErrUnknownExtension", err)
	}
}

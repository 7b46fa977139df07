package jsoncodec

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/bourbaki-go/flexpersist/codec"
)

func TestCodec_Identity(t *testing.T) {
	c := New()
	if got := c.Name(); got != "json" {
		t.Errorf("Name() = %q, want %q", got, "json")
	}
	if got := c.Extension(); got != "json" {
		t.Errorf("Extension() = %q, want %q", got, "json")
	}
	if c.Binary() {
		t.Error("Binary() = true, want false")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	c := New()
	original := map[string]any{
		"foo": []any{"a", "b", []any{"c", "d"}},
		"bar": map[string]any{"baz": []any{1.0, 2.0, []any{3.0, 4.0}}},
		"baz": nil,
	}

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got any
	if err := c.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(got, original) {
		t.Errorf("round-trip = %#v, want %#v", got, original)
	}
}

func TestCodec_Streaming(t *testing.T) {
	c := New()
	var buf bytes.Buffer
	if err := c.MarshalTo(&buf, map[string]int{"n": 1}); err != nil {
		t.Fatalf("MarshalTo() error = %v", err)
	}

	var got map[string]int
	if err := c.UnmarshalFrom(&buf, &got); err != nil {
		t.Fatalf("UnmarshalFrom() error = %v", err)
	}
	if got["n"] != 1 {
		t.Errorf("UnmarshalFrom() = %v, want map[n:1]", got)
	}
}

func TestCodec_ConfigureIndent(t *testing.T) {
	c := New()
	configured, err := c.Configure(map[string]any{"indent": "  "}, nil)
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	data, err := configured.Marshal(map[string]int{"n": 1})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), "\n") {
		t.Errorf("indented output %q contains no newline", data)
	}

	// The receiver stays compact.
	data, err = c.Marshal(map[string]int{"n": 1})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "\n") {
		t.Errorf("unconfigured output %q should stay compact", data)
	}
}

func TestCodec_ConfigureUnknownOption(t *testing.T) {
	c := New()
	if _, err := c.Configure(map[string]any{"nope": "x"}, nil); !errors.Is(err, codec.ErrConfiguration) {
		t.Errorf("Configure() error = %v, want ErrConfiguration", err)
	}
	if _, err := c.Configure(nil, map[string]any{"nope": "x"}); !errors.Is(err, codec.ErrConfiguration) {
		t.Errorf("Configure() load option error = %v, want ErrConfiguration", err)
	}
}

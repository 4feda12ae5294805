package cache

import (
	"strings"
	"testing"
)

func TestKeyer_MapOrderIndependent(t *testing.T) {
	keyer := NewDefaultKeyer()

	inputs := []map[string]any{
		{"b": 2, "a": 1, "nested": map[string]any{"z": 26, "m": 13}},
		{"a": 1, "nested": map[string]any{"m": 13, "z": 26}, "b": 2},
	}

	keys := make([]string, len(inputs))
	for i, in := range inputs {
		key, err := keyer.Key("analyzer", in)
		if err != nil {
			t.Fatalf("Key() error = %v", err)
		}
		keys[i] = key
	}

	if keys[0] != keys[1] {
		t.Errorf("keys differ for equal content:\n%s\n%s", keys[0], keys[1])
	}
}

func TestKeyer_SliceOrderSignificant(t *testing.T) {
	keyer := NewDefaultKeyer()

	k1, err := keyer.Key("analyzer", map[string]any{"files": []any{"a.go", "b.go"}})
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	k2, err := keyer.Key("analyzer", map[string]any{"files": []any{"b.go", "a.go"}})
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}

	if k1 == k2 {
		t.Errorf("keys equal for different slice order: %s", k1)
	}
}

func TestKeyer_ToolPartitionsKeyspace(t *testing.T) {
	keyer := NewDefaultKeyer()
	input := map[string]any{"query": "coverage"}

	k1, _ := keyer.Key("analyzer", input)
	k2, _ := keyer.Key("generator", input)
	if k1 == k2 {
		t.Errorf("keys equal across tools: %s", k1)
	}
}

func TestKeyer_Format(t *testing.T) {
	keyer := NewDefaultKeyer()

	key, err := keyer.Key("analyzer", map[string]any{"q": 1})
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}

	if !strings.HasPrefix(key, "cache:analyzer:") {
		t.Fatalf("key = %q, want cache:analyzer: prefix", key)
	}
	hash := strings.TrimPrefix(key, "cache:analyzer:")
	if len(hash) != 16 {
		t.Errorf("hash length = %d, want 16", len(hash))
	}
	if ValidateKey(key) != nil {
		t.Errorf("derived key %q should satisfy ValidateKey", key)
	}
}

func TestKeyer_NilAndEmptyDiffer(t *testing.T) {
	keyer := NewDefaultKeyer()

	kNil, err := keyer.Key("analyzer", nil)
	if err != nil {
		t.Fatalf("Key(nil) error = %v", err)
	}
	kEmpty, err := keyer.Key("analyzer", map[string]any{})
	if err != nil {
		t.Fatalf("Key(empty) error = %v", err)
	}
	if kNil == kEmpty {
		t.Errorf("nil and empty map collide: %s", kNil)
	}
}

func TestKeyer_UnserializableInput(t *testing.T) {
	keyer := NewDefaultKeyer()

	if _, err := keyer.Key("analyzer", map[string]any{"ch": make(chan int)}); err == nil {
		t.Error("Key() error = nil for unserializable input, want error")
	}
}

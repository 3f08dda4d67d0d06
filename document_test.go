package jasondb

import (
	"reflect"
	"testing"
)

func TestCloneDeep(t *testing.T) {
	orig := Document{
		"s":    "v",
		"n":    float64(1),
		"nest": map[string]any{"inner": map[string]any{"x": 1}},
		"list": []any{"a", map[string]any{"y": 2}, []any{3}},
		"nil":  nil,
	}

	got := Clone(orig)
	if !reflect.DeepEqual(got, orig) {
		t.Fatalf("Clone = %#v, want %#v", got, orig)
	}

	got["s"] = "mutated"
	got["nest"].(map[string]any)["inner"].(map[string]any)["x"] = "mutated"
	got["list"].([]any)[1].(map[string]any)["y"] = "mutated"
	got["list"].([]any)[2].([]any)[0] = "mutated"

	if orig["s"] != "v" {
		t.Fatal("top-level value shared")
	}
	if orig["nest"].(map[string]any)["inner"].(map[string]any)["x"] != 1 {
		t.Fatal("nested map shared")
	}
	if orig["list"].([]any)[1].(map[string]any)["y"] != 2 {
		t.Fatal("map inside slice shared")
	}
	if orig["list"].([]any)[2].([]any)[0] != 3 {
		t.Fatal("nested slice shared")
	}
}

func TestCloneNil(t *testing.T) {
	if got := Clone(nil); got != nil {
		t.Fatalf("Clone(nil) = %#v, want nil", got)
	}
}

func TestCloneEmpty(t *testing.T) {
	got := Clone(Document{})
	if got == nil || len(got) != 0 {
		t.Fatalf("Clone(empty) = %#v", got)
	}
}

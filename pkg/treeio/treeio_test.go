package treeio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/speakeasy-api/namedtree"
)

func TestDecodeNormalizesKeys(t *testing.T) {
	doc := `putc:
  1024:
    16:
      kB/s: 812
      "%CPU": 98.5
host: box
`
	got, err := Decode(strings.NewReader(doc), "run1")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := namedtree.Tree{
		"putc": namedtree.Tree{"1024": namedtree.Tree{"16": namedtree.Tree{"kB/s": 812, "%CPU": 98.5}}},
		"host": "box",
	}
	if diff := cmp.Diff(want, got.Tree()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	if got.Name() != "run1" {
		t.Errorf("name = %q", got.Name())
	}
}

func TestDecodeJSONAndEmpty(t *testing.T) {
	got, err := Decode(strings.NewReader(`{"p": {"x": 1, "y": [1, 2]}}`), "j")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := namedtree.Tree{"p": namedtree.Tree{"x": 1, "y": []any{1, 2}}}
	if diff := cmp.Diff(want, got.Tree()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}

	empty, err := Decode(strings.NewReader(""), "e")
	if err != nil {
		t.Fatalf("Decode of an empty document failed: %v", err)
	}
	if len(empty.Tree()) != 0 {
		t.Errorf("expected an empty tree, got %v", empty.Tree())
	}

	if _, err := Decode(strings.NewReader("- 1\n- 2\n"), "list"); err == nil {
		t.Error("expected an error for a top-level sequence")
	}
}

func TestLoadFileAndEncode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample-a.yaml")
	if err := os.WriteFile(path, []byte("b: 2\na:\n  x: 1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if v.Name() != "sample-a" {
		t.Errorf("name = %q, want sample-a", v.Name())
	}

	var buf bytes.Buffer
	if err := Encode(&buf, v.Tree()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if diff := cmp.Diff("a:\n  x: 1.5\nb: 2\n", buf.String()); diff != "" {
		t.Errorf("encoded mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

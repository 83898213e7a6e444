package namedtree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNamedTreeBranch(t *testing.T) {
	v := named("sample", Tree{"putc": Tree{"1024": Tree{"16": Tree{"kB/s": 10}}}, "flat": 1})

	b, err := v.Branch("putc", "1024")
	if err != nil {
		t.Fatalf("Branch failed: %v", err)
	}
	if b.Name() != "putc/1024" {
		t.Errorf("name = %q", b.Name())
	}
	if diff := cmp.Diff(Tree{"16": Tree{"kB/s": 10}}, b.Tree()); diff != "" {
		t.Errorf("branch mismatch (-want +got):\n%s", diff)
	}

	if _, err := v.Branch("putc", "2048"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := v.Branch("flat"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestNamedTreeAttachSpecOnce(t *testing.T) {
	v := named("A", nil)
	if len(v.Tree()) != 0 {
		t.Error("a nil tree should read as empty")
	}
	first, second := NewSpec(), NewSpec()
	if !v.AttachSpec(first) {
		t.Fatal("first attachment should succeed")
	}
	if v.AttachSpec(second) || v.Spec() != first {
		t.Error("a spec, once attached, must not be replaced")
	}
}

func TestFormatScalar(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{1, "1"},
		{int64(-7), "-7"},
		{2.0, "2"},
		{0.25, "0.25"},
		{"s", "s"},
		{true, "true"},
		{nil, "null"},
		{[]any{1, 2.5}, "[1 2.5]"},
	}
	for _, tt := range tests {
		if got := FormatScalar(tt.in); got != tt.want {
			t.Errorf("FormatScalar(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package bonnie

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/speakeasy-api/namedtree"
)

// resultRow renders one bonnie++ HTML result row. vals holds kB/s and %CPU
// for every pattern in order.
func resultRow(size string, vals ...string) string {
	var b strings.Builder
	b.WriteString("<TR><TD>box</TD><TD>" + size + "</TD>")
	for _, v := range vals {
		fmt.Fprintf(&b, "<TD>%s</TD>", v)
	}
	b.WriteString("</TR>\n")
	return b.String()
}

func TestParse(t *testing.T) {
	log := "Using uid:0, gid:0.\n" +
		resultRow("9*9", "1", "1", "1", "1", "1", "1", "1", "1", "1", "1") +
		"Needing 2048 MB of disk\n" +
		resultRow("1024*16", "100", "90.5", "200", "20", "300", "30.25", "400", "40", "500", "5") +
		resultRow("1024 * 32", "110", "91", "210", "21", "310", "31", "410", "41", "510", "6")

	got, err := Parse(strings.NewReader(log), "2024-03-01T12:30:05", namedtree.NopLogger())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got.Name() != "2024-03-01T12:30:05" {
		t.Errorf("name = %q", got.Name())
	}

	leaf := func(kb int, cpu float64) namedtree.Tree {
		return namedtree.Tree{MeasureKBs: kb, MeasureCPU: cpu}
	}
	want := namedtree.Tree{
		"putc":    namedtree.Tree{"1024": namedtree.Tree{"16": leaf(100, 90.5), "32": leaf(110, 91)}},
		"write":   namedtree.Tree{"1024": namedtree.Tree{"16": leaf(200, 20), "32": leaf(210, 21)}},
		"rewrite": namedtree.Tree{"1024": namedtree.Tree{"16": leaf(300, 30.25), "32": leaf(310, 31)}},
		"getc":    namedtree.Tree{"1024": namedtree.Tree{"16": leaf(400, 40), "32": leaf(410, 41)}},
		"read":    namedtree.Tree{"1024": namedtree.Tree{"16": leaf(500, 5), "32": leaf(510, 6)}},
	}
	if diff := cmp.Diff(want, got.Tree()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDuplicateAndBadCells(t *testing.T) {
	log := "Needing 1024 MB\n" +
		resultRow("512*8", "100", "+++", "200", "20", "300", "30", "400", "40", "500", "50") +
		resultRow("512*8", "999", "9", "999", "9", "999", "9", "999", "9", "999", "9")

	var buf bytes.Buffer
	got, err := Parse(strings.NewReader(log), "s", namedtree.NewPlainLogger(namedtree.LevelWarn, &buf))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	putc := got.Tree()["putc"].(namedtree.Tree)["512"].(namedtree.Tree)["8"]
	if diff := cmp.Diff(namedtree.Tree{MeasureKBs: 100}, putc); diff != "" {
		t.Errorf("first row should win (-want +got):\n%s", diff)
	}

	out := buf.String()
	if !strings.Contains(out, `putc %CPU is not a number: "+++"`) {
		t.Errorf("missing bad cell warning in:\n%s", out)
	}
	if !strings.Contains(out, "duplicate bonnie data for /putc/512/8") {
		t.Errorf("missing duplicate warning in:\n%s", out)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		log  string
	}{
		{"short row", "Needing 1 MB\n<TR><TD>box</TD><TD>1*1</TD><TD>1</TD></TR>\n"},
		{"bad size", "Needing 1 MB\n" + resultRow("big", "1", "1", "1", "1", "1", "1", "1", "1", "1", "1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.log), "s", namedtree.NopLogger()); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseWithoutRun(t *testing.T) {
	var buf bytes.Buffer
	got, err := Parse(strings.NewReader("nothing here\n"), "s", namedtree.NewPlainLogger(namedtree.LevelWarn, &buf))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	for _, ptn := range Patterns {
		if n := len(got.Tree()[ptn].(namedtree.Tree)); n != 0 {
			t.Errorf("%s has %d sizes, want 0", ptn, n)
		}
	}
	if !strings.Contains(buf.String(), "no bonnie++ run found") {
		t.Errorf("missing warning, got %q", buf.String())
	}
}

package bonnie

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/speakeasy-api/namedtree"
)

func TestSampleName(t *testing.T) {
	tests := []struct {
		dir    string
		want   string
		wantOK bool
	}{
		{"bonnie-directIO-2024-03-01-12-30-05", "2024-03-01T12:30:05", true},
		{"bonnie-directIO-2024-03-01-12-30-05.old", "2024-03-01T12:30:05", true},
		{"bonnie-directIO-2024-13-01-12-30-05", "", false},
		{"bonnie-2024-03-01-12-30-05", "", false},
		{"notes.txt", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			got, ok := SampleName(tt.dir)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("SampleName(%q) = %q, %v; want %q, %v", tt.dir, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// writeRun creates a run directory under dir holding a one-row bonnie log.
func writeRun(t *testing.T, dir, stamp string, vals ...string) {
	t.Helper()
	run := filepath.Join(dir, "bonnie-directIO-"+stamp)
	if err := os.MkdirAll(run, 0o755); err != nil {
		t.Fatal(err)
	}
	log := "Needing 2048 MB\n" + resultRow("1024*16", vals...)
	if err := os.WriteFile(filepath.Join(run, SampleFile), []byte(log), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSamplesInDir(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir, "2024-03-02-08-00-00", "2", "2", "2", "2", "2", "2", "2", "2", "2", "2")
	writeRun(t, dir, "2024-03-01-12-30-05", "1", "1", "1", "1", "1", "1", "1", "1", "1", "1")
	if err := os.Mkdir(filepath.Join(dir, "unrelated"), 0o755); err != nil {
		t.Fatal(err)
	}

	samples, err := SamplesInDir(context.Background(), dir, namedtree.NopLogger())
	if err != nil {
		t.Fatalf("SamplesInDir failed: %v", err)
	}
	var names []string
	for _, s := range samples {
		names = append(names, s.Name())
	}
	if diff := cmp.Diff([]string{"2024-03-01T12:30:05", "2024-03-02T08:00:00"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestSamplesInDirErrors(t *testing.T) {
	if _, err := SamplesInDir(context.Background(), filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Error("expected an error for a missing directory")
	}

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "bonnie-directIO-2024-03-01-12-30-05"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := SamplesInDir(context.Background(), dir, nil); err == nil {
		t.Error("expected an error for a run directory without a log")
	}
}

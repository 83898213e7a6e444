package bonnie

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"

	"github.com/itchyny/timefmt-go"
	"github.com/speakeasy-api/namedtree"
	"golang.org/x/sync/errgroup"
)

// SampleFile is the log file inside every run directory.
const SampleFile = "bonnie-directIO"

const (
	runDirTimeFormat = "%Y-%m-%d-%H-%M-%S"
	sampleNameFormat = "%Y-%m-%dT%H:%M:%S"
)

var runDirRe = regexp.MustCompile(`^bonnie-directIO-(\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2})`)

// SampleName derives a sample's name from its run directory name, e.g.
// "bonnie-directIO-2024-03-01-12-30-05" -> "2024-03-01T12:30:05".
func SampleName(dirName string) (string, bool) {
	m := runDirRe.FindStringSubmatch(dirName)
	if m == nil {
		return "", false
	}
	t, err := timefmt.Parse(m[1], runDirTimeFormat)
	if err != nil {
		return "", false
	}
	return timefmt.Format(t, sampleNameFormat), true
}

// SamplesInDir parses the log of every run directory under dir. Logs are
// parsed concurrently; the samples come back sorted by name.
func SamplesInDir(ctx context.Context, dir string, log namedtree.Logger) ([]*namedtree.NamedTree, error) {
	if log == nil {
		log = namedtree.NopLogger()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}

	type job struct {
		name string
		path string
	}
	var jobs []job
	for _, e := range entries {
		name, ok := SampleName(e.Name())
		if !ok {
			continue
		}
		jobs = append(jobs, job{name: name, path: filepath.Join(dir, e.Name(), SampleFile)})
	}

	samples := make([]*namedtree.NamedTree, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := ParseFile(j.path, j.name, log.With(map[string]any{"sample": j.name}))
			if err != nil {
				return err
			}
			samples[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to parse samples in %s: %w", dir, err)
	}

	sort.Slice(samples, func(a, b int) bool { return samples[a].Name() < samples[b].Name() })
	log.Debugf("found %d samples in %s", len(samples), dir)
	return samples, nil
}

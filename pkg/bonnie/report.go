package bonnie

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/speakeasy-api/namedtree"
)

// ReportOptions configures Compare and Report.
type ReportOptions struct {
	Options namedtree.Options

	// Color highlights flagged rows with ANSI escapes.
	Color bool

	// FlagThreshold flags rows whose %CPU diff ratio is below it
	// (default: -0.15).
	FlagThreshold float64
}

// DefaultReportOptions returns the default report configuration.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		Options:       namedtree.DefaultOptions(),
		FlagThreshold: -0.15,
	}
}

const (
	flagMark = "***"
	colorRed = "\x1b[31m"
	colorOff = "\x1b[0m"
)

// Compare averages the samples found in dirA and dirB, computes their diff
// ratio and writes the three-column report to w.
func Compare(ctx context.Context, w io.Writer, dirA, dirB string, opts ReportOptions) error {
	avgA, err := averageDir(ctx, dirA, opts.Options)
	if err != nil {
		return err
	}
	avgB, err := averageDir(ctx, dirB, opts.Options)
	if err != nil {
		return err
	}
	return Report(w, avgA, avgB, opts)
}

func averageDir(ctx context.Context, dir string, opts namedtree.Options) (*namedtree.NamedTree, error) {
	samples, err := SamplesInDir(ctx, dir, opts.Logger)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("no bonnie samples in %s", dir)
	}
	g, err := namedtree.NewGroup(samples, namedtree.WithOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	avg, err := g.Apply(namedtree.AverageOp.Name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	avg.SetName(filepath.Base(filepath.Clean(dir)))
	return avg, nil
}

// Report writes a, b and their diff ratio side by side: one row per
// pattern, file size and io count, the ratio as a percentage, and rows
// whose %CPU ratio falls below the threshold flagged.
func Report(w io.Writer, a, b *namedtree.NamedTree, opts ReportOptions) error {
	ratio, err := namedtree.DiffRatioOp.Apply([]*namedtree.NamedTree{a, b}, opts.Options)
	if err != nil {
		return fmt.Errorf("diff ratio: %w", err)
	}

	g, err := namedtree.NewGroup([]*namedtree.NamedTree{a, b, ratio},
		namedtree.WithOptions(opts.Options),
		namedtree.WithSeparator(" "),
		namedtree.WithColumnOrder(MeasureKBs, MeasureCPU),
		namedtree.WithFormatter(formatCell),
		namedtree.WithRowSuffix(flagRow(opts)),
	)
	if err != nil {
		return err
	}
	g.PresetWidth(MeasureKBs, 0, 0, 6)
	g.PresetWidth(MeasureCPU, 7, 7, 6)
	if err := g.AccumWidth(); err != nil {
		return err
	}

	if err := writeHeader(w, g); err != nil {
		return err
	}
	return g.Render(w)
}

func writeHeader(w io.Writer, g *namedtree.Group) error {
	names := []string{g.Members()[0].Name(), g.Members()[1].Name(), ""}
	keys := g.Columns(rowKeys(g.Spec()))

	g.ObserveLabelWidth("bonnie")
	for _, k := range keys {
		for pos, name := range names {
			g.ObserveWidth(k, pos, name)
		}
	}

	widths := g.Widths()
	var b strings.Builder
	fmt.Fprintf(&b, "%-*s", widths.Label, "bonnie")
	for _, k := range keys {
		for pos, name := range names {
			fmt.Fprintf(&b, "\t%*s", widths.Column(k, pos), name)
		}
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// rowKeys returns the leaf keys of the first directory holding leaves.
func rowKeys(spec *namedtree.Spec) []string {
	if leaves := spec.LeafKeys(); len(leaves) > 0 && spec.Len() == len(leaves) {
		return leaves
	}
	for _, k := range spec.Keys() {
		if child, ok := spec.Child(k); ok {
			if keys := rowKeys(child); len(keys) > 0 {
				return keys
			}
		}
	}
	return nil
}

func formatCell(key string, pos int, v any) string {
	f, ok := v.(float64)
	if !ok {
		if i, isInt := v.(int); isInt {
			f, ok = float64(i), true
		}
	}
	if !ok {
		return namedtree.FormatScalar(v)
	}
	switch {
	case pos == 2:
		return fmt.Sprintf("%.2f%%", f*100)
	case key == MeasureKBs:
		return fmt.Sprintf("%.0f", f)
	case key == MeasureCPU:
		return fmt.Sprintf("%.2f", f)
	default:
		return namedtree.FormatScalar(v)
	}
}

func flagRow(opts ReportOptions) namedtree.RowSuffix {
	return func(_ []string, leaves *namedtree.Spec, nodes []namedtree.Tree) string {
		if !leaves.Has(MeasureCPU) || len(nodes) < 3 {
			return ""
		}
		r, ok := nodes[2][MeasureCPU].(float64)
		if !ok || r >= opts.FlagThreshold {
			return ""
		}
		if opts.Color {
			return colorRed + flagMark + colorOff
		}
		return flagMark
	}
}

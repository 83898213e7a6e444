package main

import (
	"fmt"

	"github.com/speakeasy-api/namedtree"
	"github.com/speakeasy-api/namedtree/pkg/bonnie"
	"github.com/speakeasy-api/namedtree/pkg/treeio"
	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	threshold := bonnie.DefaultReportOptions().FlagThreshold
	cmd := &cobra.Command{
		Use:   "compare DIR_A DIR_B",
		Short: "Compare two directories of bonnie++ runs",
		Long: `compare averages the bonnie++ runs found in each directory and prints
both averages next to their diff ratio. Rows whose %CPU ratio falls below
the threshold are flagged with ***.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			color, err := useColor(colorMode, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			opts := bonnie.ReportOptions{
				Options:       options(),
				Color:         color,
				FlagThreshold: threshold,
			}
			return bonnie.Compare(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", threshold, "Flag rows whose %CPU diff ratio is below this")
	return cmd
}

func newSpecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spec FILE...",
		Short: "Print the structure shared by the given trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trees, err := loadTrees(args)
			if err != nil {
				return err
			}
			spec, err := namedtree.ExtractSpec(trees, options())
			if err != nil {
				return err
			}
			for _, p := range spec.Paths() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func newApplyCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "apply OP FILE...",
		Short: "Apply an operator across the given trees and print the result",
		Long: fmt.Sprintf(`apply runs a registered operator leaf by leaf across the trees and
prints the resulting tree as YAML.

Operators: %v`, namedtree.DefaultRegistry().Names()),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			trees, err := loadTrees(args[1:])
			if err != nil {
				return err
			}
			g, err := namedtree.NewGroup(trees, namedtree.WithOptions(options()))
			if err != nil {
				return err
			}
			result, err := g.Apply(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				result.SetName(name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", result.Name())
			return treeio.Encode(cmd.OutOrStdout(), result.Tree())
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Name of the result tree")
	return cmd
}

func newPaintCmd() *cobra.Command {
	var table, mono bool
	cmd := &cobra.Command{
		Use:   "paint FILE...",
		Short: "Print the leaves of the given trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trees, err := loadTrees(args)
			if err != nil {
				return err
			}
			g, err := namedtree.NewGroup(trees, namedtree.WithOptions(options()))
			if err != nil {
				return err
			}
			switch {
			case mono:
				return g.PaintMono(cmd.OutOrStdout())
			case table:
				if err := g.AccumWidth(); err != nil {
					return err
				}
				return g.Render(cmd.OutOrStdout())
			default:
				return g.PaintDefault(cmd.OutOrStdout())
			}
		},
	}
	cmd.Flags().BoolVar(&table, "table", false, "Print one aligned row per directory")
	cmd.Flags().BoolVar(&mono, "mono", false, "Print one unaligned row per directory")
	return cmd
}

func loadTrees(paths []string) ([]*namedtree.NamedTree, error) {
	trees := make([]*namedtree.NamedTree, 0, len(paths))
	for _, p := range paths {
		t, err := treeio.LoadFile(p)
		if err != nil {
			return nil, err
		}
		trees = append(trees, t)
	}
	return trees, nil
}

package cmd

import (
	"fmt"

	"github.com/philipparndt/meshview/pkg/analysis"
	"github.com/spf13/cobra"
)

type edgesOptions struct {
	count     int
	longest   bool
	shortest  bool
	minLength float64
	maxLength float64
}

func newEdgesCmd(env *environment) *cobra.Command {
	opts := &edgesOptions{}

	edgesCmd := &cobra.Command{
		Use:   "edges [file]",
		Short: "List and measure the edges of a model",
		Long:  "Find and measure edges, including longest, shortest, or edges within a specific length range.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.longest && opts.shortest {
				return fmt.Errorf("--longest and --shortest are mutually exclusive")
			}
			if opts.count < 0 {
				return fmt.Errorf("invalid --count %d: must not be negative", opts.count)
			}

			loaded, err := env.newApp().Open(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}
			result := analysis.Analyze(loaded.Asset)

			var edges []analysis.Edge
			var title string
			switch {
			case opts.longest:
				edges = analysis.LongestEdges(result, opts.count)
				title = fmt.Sprintf("Top %d Longest Edges", len(edges))
			case opts.shortest:
				edges = analysis.ShortestEdges(result, opts.count)
				title = fmt.Sprintf("Top %d Shortest Edges", len(edges))
			case opts.maxLength > 0:
				edges = analysis.EdgesByLength(result, opts.minLength, opts.maxLength)
				title = fmt.Sprintf("Edges between %.6f and %.6f units (found %d)", opts.minLength, opts.maxLength, len(edges))
			default:
				edges = result.Edges
				title = fmt.Sprintf("All Edges (showing first %d of %d)", min(opts.count, len(edges)), len(edges))
			}
			if len(edges) > opts.count {
				edges = edges[:opts.count]
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintln(out, title)
			fmt.Fprintln(out, "====================")
			fmt.Fprintf(out, "Total edges in model: %d\n", result.EdgeCount)
			fmt.Fprintf(out, "Min edge length: %.6f units\n", result.MinEdgeLength)
			fmt.Fprintf(out, "Max edge length: %.6f units\n", result.MaxEdgeLength)
			fmt.Fprintf(out, "Avg edge length: %.6f units\n\n", result.AvgEdgeLength)

			if len(edges) == 0 {
				fmt.Fprintln(out, "No edges found matching the criteria.")
				return nil
			}

			fmt.Fprintf(out, "%-6s %-16s %-35s %-35s %-15s\n", "Index", "Object", "Start", "End", "Length")
			for i, edge := range edges {
				fmt.Fprintf(out, "%-6d %-16s %-35s %-35s %-15.6f\n",
					i+1,
					edge.Geometry,
					analysis.FormatVector(edge.Start),
					analysis.FormatVector(edge.End),
					edge.Length)
			}
			return nil
		},
	}

	flags := edgesCmd.Flags()
	flags.IntVarP(&opts.count, "count", "n", 10, "Number of edges to display")
	flags.BoolVarP(&opts.longest, "longest", "l", false, "Show longest edges")
	flags.BoolVarP(&opts.shortest, "shortest", "s", false, "Show shortest edges")
	flags.Float64Var(&opts.minLength, "min", 0.0, "Minimum edge length filter")
	flags.Float64Var(&opts.maxLength, "max", 0.0, "Maximum edge length filter")

	return edgesCmd
}

package cmd

import (
	"fmt"

	"github.com/philipparndt/meshview/pkg/analysis"
	"github.com/spf13/cobra"
)

func newInfoCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Display information about a model without opening a window",
		Long:  "Show the load summary followed by per-object counts, dimensions, surface area and edge statistics.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := env.newApp().Open(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}

			result := analysis.Analyze(loaded.Asset)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out)
			fmt.Fprintf(out, "File: %s\n", loaded.Path)
			fmt.Fprintf(out, "Kind: %s\n\n", result.Kind)

			if len(result.Geometries) > 0 {
				fmt.Fprintln(out, "Objects:")
				for _, g := range result.Geometries {
					if g.Polygonal {
						fmt.Fprintf(out, "  %s (%s): vertices=%d, faces=%d\n", g.Name, g.Type, g.Vertices, g.Faces)
					} else {
						fmt.Fprintf(out, "  %s (%s): vertices=%d, not counted\n", g.Name, g.Type, g.Vertices)
					}
				}
				fmt.Fprintln(out)
			}

			if result.BoundingBox.IsEmpty() {
				fmt.Fprintln(out, "Bounding Box: empty")
				return nil
			}

			fmt.Fprintln(out, "Bounding Box:")
			fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
			fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
			fmt.Fprintf(out, "  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

			fmt.Fprintln(out, "Dimensions:")
			fmt.Fprintf(out, "  Width (X): %.6f units\n", result.Dimensions.X)
			fmt.Fprintf(out, "  Depth (Y): %.6f units\n", result.Dimensions.Y)
			fmt.Fprintf(out, "  Height (Z): %.6f units\n", result.Dimensions.Z)
			fmt.Fprintf(out, "  Diagonal: %.6f units\n\n", result.BoundingBox.Diagonal())

			if result.EdgeCount == 0 {
				return nil
			}

			fmt.Fprintf(out, "Surface Area: %.6f square units\n\n", result.SurfaceArea)
			fmt.Fprintf(out, "Edges: %d\n", result.EdgeCount)
			fmt.Fprintf(out, "  Minimum: %.6f units\n", result.MinEdgeLength)
			fmt.Fprintf(out, "  Maximum: %.6f units\n", result.MaxEdgeLength)
			fmt.Fprintf(out, "  Average: %.6f units\n", result.AvgEdgeLength)
			return nil
		},
	}
}

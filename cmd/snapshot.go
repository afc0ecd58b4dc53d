package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/meshview/internal/app"
	"github.com/philipparndt/meshview/pkg/lod"
	"github.com/philipparndt/meshview/pkg/mesh"
	"github.com/philipparndt/meshview/pkg/render"
	"github.com/spf13/cobra"
)

func newSnapshotCmd(env *environment) *cobra.Command {
	var output string
	var factor float64
	opts := render.DefaultSnapshotOptions()

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file]",
		Short: "Render a model to a PNG image without a display",
		Long: `Render a shaded image of the model with the built-in software rasteriser.
This works on machines without a display or GL context.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			if err := validateSimplify(factor); err != nil {
				return err
			}

			loaded, err := env.newApp().Open(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}

			target := output
			if target == "" {
				target = strings.TrimSuffix(loaded.Name(), filepath.Ext(loaded.Name())) + ".png"
			}

			asset := loaded.Asset
			if factor > 0 {
				if asset, err = lod.Simplify(asset, factor); err != nil {
					return err
				}
			}

			if err := writeSnapshot(target, asset, opts); err != nil {
				return &app.ExitError{Code: app.DisplayFailure, Message: fmt.Sprintf("Snapshot failed: %v", err), Err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
			return nil
		},
	}

	flags := snapshotCmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "Output PNG file (default <name>.png)")
	flags.IntVar(&opts.Size, "size", opts.Size, "Image width and height in pixels")
	flags.Float64Var(&opts.Pitch, "pitch", opts.Pitch, "Camera pitch in radians")
	flags.Float64Var(&opts.Yaw, "yaw", opts.Yaw, "Camera yaw in radians")
	flags.Float64Var(&factor, "simplify", 0, "Fraction of faces to keep, e.g. 0.25 (0 keeps all)")
	flags.IntVar(&opts.Supersample, "supersample", opts.Supersample, "Render at this multiple of the size and downsample")

	return snapshotCmd
}

func writeSnapshot(path string, asset mesh.Asset, opts render.SnapshotOptions) error {
	img, err := render.Snapshot(asset, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render.WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

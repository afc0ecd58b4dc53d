// Package cmd wires the meshview command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/philipparndt/meshview/internal/app"
	"github.com/philipparndt/meshview/pkg/loader"
	"github.com/philipparndt/meshview/pkg/viewer"
	"github.com/philipparndt/meshview/version"
	"github.com/spf13/cobra"
)

// environment holds what the commands need from the outside world
type environment struct {
	out      io.Writer
	errOut   io.Writer
	registry *loader.Registry
	backend  func(name string) (viewer.Backend, error)
	appOpts  []app.Option
}

func (e *environment) newApp() *app.App {
	return app.New(e.out, e.registry, e.appOpts...)
}

type rootOptions struct {
	backend   string
	watch     bool
	width     int
	height    int
	simplify  float64
	logLevel  string
	logFormat string
}

func newRootCmd(env *environment) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "meshview [file]",
		Short: "Load a 3D model, print its statistics and open a viewer",
		Long: `meshview loads a mesh or scene (.obj, .stl, .gltf, .glb, .scad), prints its
vertex and face counts and opens an interactive viewer window.

Without a file argument it opens ../simple_visualizer_output.obj relative to
the directory of the executable.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.GetFullVersion(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := app.NewLogger(opts.logLevel, opts.logFormat, env.errOut)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := env.backend(opts.backend)
			if err != nil {
				return err
			}
			if opts.width <= 0 || opts.height <= 0 {
				return fmt.Errorf("invalid window size %dx%d", opts.width, opts.height)
			}
			if err := validateSimplify(opts.simplify); err != nil {
				return err
			}

			cfg := app.Config{
				Path:   firstArg(args),
				Watch:  opts.watch,
				Width:  opts.width,
				Height: opts.height,

				Simplify: opts.simplify,
			}
			return env.newApp().Run(cmd.Context(), cfg, backend)
		},
	}
	rootCmd.SetOut(env.out)
	rootCmd.SetErr(env.errOut)
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	flags := rootCmd.Flags()
	flags.StringVar(&opts.backend, "backend", "raylib", "Display backend (raylib or fyne)")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "Reload the model when the file (or its .scad dependencies) changes")
	flags.IntVar(&opts.width, "width", 1400, "Initial window width")
	flags.IntVar(&opts.height, "height", 900, "Initial window height")
	flags.Float64Var(&opts.simplify, "simplify", 0, "Fraction of faces to keep for display, e.g. 0.25 (0 keeps all)")

	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	pflags.StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(newInfoCmd(env))
	rootCmd.AddCommand(newEdgesCmd(env))
	rootCmd.AddCommand(newSnapshotCmd(env))
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func validateSimplify(factor float64) error {
	if factor < 0 || factor > 1 {
		return fmt.Errorf("invalid --simplify %g: must be between 0 and 1", factor)
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, env *environment) int {
	rootCmd := newRootCmd(env)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return app.Success
	}

	var exitErr *app.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(env.out, exitErr.Message)
		return exitErr.Code
	}

	fmt.Fprintf(env.errOut, "Error: %v\n", err)
	fmt.Fprintf(env.errOut, "Run '%s --help' for usage.\n", rootCmd.CommandPath())
	return app.UsageError
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, os.Args[1:], &environment{
		out:      os.Stdout,
		errOut:   os.Stderr,
		registry: loader.Default(),
		backend:  viewer.Lookup,
	})
}

package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/drunplot/drunplot/plot"
	"github.com/drunplot/drunplot/trace"
)

var (
	// CLI flags for the plot run
	manifestPath  string // YAML manifest listing trace CSVs and render options
	logLevel      string // Log verbosity level
	outDir        string // Directory the PNGs are written to
	rendererName  string // Renderer backend (gnuplot or chart)
	keepArtifacts bool   // Keep the transformed CSVs after the run
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "drunplot",
	Short: "Plots canister perf traces produced by drun",
}

// plotCmd transforms the configured traces and renders one PNG per catalog metric
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render comparison plots for the configured trace CSVs",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		manifest, err := LoadManifest(manifestPath)
		if err != nil {
			logrus.Fatalf("unable to load manifest: %v", err)
		}

		// Flags override the manifest when set explicitly
		if cmd.Flags().Changed("out-dir") {
			manifest.OutputDir = outDir
		}
		if cmd.Flags().Changed("renderer") {
			manifest.Renderer = rendererName
		}
		if err := validateRenderer(manifest.Renderer); err != nil {
			logrus.Fatalf("%v", err)
		}

		logrus.Infof("Plotting %d trace files with the %s renderer into %s",
			len(manifest.Inputs), manifest.Renderer, manifest.OutputDir)

		if err := runPlots(manifest); err != nil {
			logrus.Fatalf("plot run failed: %v", err)
		}

		logrus.Info("Plot run complete.")
	},
}

// runPlots transforms every input, then renders every catalog metric in
// order. Every plot references every artifact, so artifacts stay on disk
// until the whole render loop is done.
func runPlots(manifest Manifest) error {
	series := make([]plot.Series, 0, len(manifest.Inputs))
	if !keepArtifacts {
		defer func() {
			for _, s := range series {
				if err := os.Remove(s.Path); err != nil {
					logrus.Warnf("unable to remove artifact %s: %v", s.Path, err)
				}
			}
		}()
	}

	for _, in := range manifest.Inputs {
		artifact, err := trace.AddCumulativeColumns(in.File)
		if err != nil {
			return fmt.Errorf("transform %s: %w", in.File, err)
		}
		series = append(series, plot.Series{Path: artifact, Title: in.Title})
	}

	if manifest.OutputDir != "." {
		if err := os.MkdirAll(manifest.OutputDir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	var renderer plot.Renderer
	switch manifest.Renderer {
	case RendererChart:
		renderer = plot.NewChart()
	default:
		renderer = plot.NewGnuplot(manifest.XRangeMax)
	}

	return plot.WritePlots(renderer, series, trace.Catalog(), manifest.OutputDir)
}

// initCmd writes a starter manifest for editing
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter manifest with the default trace files",
	Run: func(cmd *cobra.Command, args []string) {
		if err := WriteDefaultManifest(manifestPath); err != nil {
			logrus.Fatalf("unable to write manifest: %v", err)
		}
		logrus.Infof("wrote %s", manifestPath)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	plotCmd.Flags().StringVar(&manifestPath, "manifest", "drunplot.yaml", "YAML manifest with trace CSVs and render options")
	plotCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	plotCmd.Flags().StringVar(&outDir, "out-dir", ".", "Directory the PNGs are written to")
	plotCmd.Flags().StringVar(&rendererName, "renderer", RendererGnuplot, "Plot renderer (gnuplot or chart)")
	plotCmd.Flags().BoolVar(&keepArtifacts, "keep-artifacts", false, "Keep the transformed CSVs after the run")

	initCmd.Flags().StringVar(&manifestPath, "manifest", "drunplot.yaml", "Path the starter manifest is written to")

	// Attach subcommands to `root`
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(initCmd)
}

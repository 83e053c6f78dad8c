package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rajaldebnath/circleator/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	config     string  // track configuration file (TOML)
	output     string  // output file path, "-" for stdout
	contigList string  // multi-contig input list
	data       string  // single annotation file input
	format     string  // format of the annotation file
	seq        string  // supplementary FASTA with residues
	radius     float64 // circle radius in pixels
	pad        float64 // padding around the circle in pixels
	rotation   float64 // clockwise rotation of the origin in degrees
	scale      string  // scaled-segment specification
	gapSize    int     // inter-contig gap in base pairs
}

// renderCommand creates the render command for drawing maps.
//
// One of --contig-list or --data is required; --data also needs
// --format. The output path defaults to the configuration file name
// with an .svg extension.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a circular map from a track configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "track configuration file (TOML)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: config name with .svg; \"-\" for stdout)")
	cmd.Flags().StringVar(&opts.contigList, "contig-list", "", "tab-delimited contig list file")
	cmd.Flags().StringVar(&opts.data, "data", "", "annotation file for a single-file input")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "format of the --data file (see 'circleator formats')")
	cmd.Flags().StringVar(&opts.seq, "seq", "", "FASTA file supplying residues for contigs that lack them")
	cmd.Flags().Float64Var(&opts.radius, "radius", 0, "circle radius in pixels (default from config)")
	cmd.Flags().Float64Var(&opts.pad, "pad", 0, "padding around the circle in pixels (default from config)")
	cmd.Flags().Float64Var(&opts.rotation, "rotation", 0, "clockwise rotation of the origin in degrees")
	cmd.Flags().StringVar(&opts.scale, "scale", "", "scaled segments, e.g. \"2000-3000:5,4000-5000:0.5\"")
	cmd.Flags().IntVar(&opts.gapSize, "gap-size", 0, "inter-contig gap in base pairs (default from config)")

	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	popts := pipeline.Options{
		ConfigPath: opts.config,
		ContigList: opts.contigList,
		DataPath:   opts.data,
		DataFormat: opts.format,
		SeqPath:    opts.seq,
		Radius:     opts.radius,
		Pad:        opts.pad,
		Rotation:   opts.rotation,
		Scale:      opts.scale,
		GapSize:    opts.gapSize,
		Logger:     logger,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering "+filepath.Base(opts.config))
	spinner.Start()
	prog := newProgress(logger)
	result, err := c.newRunner().Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done("Rendered %d tracks", result.Stats.TrackCount)

	if opts.output == "-" {
		_, err := os.Stdout.Write(result.SVG)
		return err
	}

	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(opts.config, filepath.Ext(opts.config)) + ".svg"
	}
	if err := os.WriteFile(out, result.SVG, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Render complete")
	printFile(out)
	printRenderStats(result.Stats)
	return nil
}

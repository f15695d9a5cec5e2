package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/memgraph/internal/config"
	"github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/render"
	"github.com/matzehuels/memgraph/pkg/render/sink"
	"github.com/matzehuels/memgraph/pkg/session"
)

// Output formats of the render command.
const (
	formatSVG  = "svg"
	formatPNG  = "png"
	formatDOT  = "dot"
	formatJSON = "json"
)

const (
	defaultWidth    = 800  // canvas width in pixels
	defaultHeight   = 600  // canvas height in pixels
	defaultMaxTicks = 1000 // ticks before a layout that has not settled is cut off
	defaultPadding  = 40   // fit margin in pixels
	defaultBase     = "memgraph"
)

var validFormats = []string{formatSVG, formatPNG, formatDOT, formatJSON}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path (multiple)
	formats  []string // svg, png, dot, json
	width    float64
	height   float64
	maxTicks int
	fit      bool    // zoom so the whole graph is visible
	padding  float64 // fit margin
	graphviz bool    // render SVG through Graphviz instead of the native writer
	tooltips bool    // embed hover tooltips in SVG output
}

// renderCommand lays out a graph headlessly and writes it to files.
func (c *CLI) renderCommand() *cobra.Command {
	var sf sourceFlags
	var formatsStr string
	opts := renderOpts{
		width:    defaultWidth,
		height:   defaultHeight,
		maxTicks: defaultMaxTicks,
		fit:      true,
		padding:  defaultPadding,
		tooltips: true,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Lay out the memory graph and write SVG, PNG, DOT or JSON",
		Long: `Fetch the memory graph, run the force simulation until it settles and write
the final picture. PNG output and --graphviz go through Graphviz neato with
every node pinned at its simulated position.`,
		Example: `  memgraph render -o graph.svg
  memgraph render --source sample --format svg,png,json -o out/memories
  memgraph render -q deploy --min-strength 0.9 --format dot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			cfg := c.settings()
			if err := sf.apply(cmd, cfg); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, &opts)
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&formatsStr, "format", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "canvas width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "canvas height in pixels")
	cmd.Flags().IntVar(&opts.maxTicks, "max-ticks", opts.maxTicks, "stop the simulation after this many ticks (0 = until settled)")
	cmd.Flags().BoolVar(&opts.fit, "fit", opts.fit, "zoom to fit the whole graph")
	cmd.Flags().Float64Var(&opts.padding, "padding", opts.padding, "margin kept around the graph by --fit")
	cmd.Flags().BoolVar(&opts.graphviz, "graphviz", false, "render SVG with Graphviz")
	cmd.Flags().BoolVar(&opts.tooltips, "tooltips", opts.tooltips, "embed hover tooltips in SVG output")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(validFormats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	return formats
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(validFormats, f) {
			return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (valid: %s)", f, strings.Join(validFormats, ", "))
		}
	}
	return nil
}

// basePath strips a known format extension from output, or returns the
// default base name when output is empty.
func basePath(output string) string {
	if output == "" {
		return defaultBase
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if slices.Contains(validFormats, strings.ToLower(ext)) {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

// outputPath returns where one format is written.
func outputPath(opts *renderOpts, format string) string {
	if len(opts.formats) == 1 && opts.output != "" {
		return opts.output
	}
	return basePath(opts.output) + "." + format
}

func (c *CLI) runRender(ctx context.Context, cfg *config.Config, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	frame, err := c.layoutFrame(ctx, cfg, opts)
	if err != nil {
		return err
	}

	for _, format := range opts.formats {
		data, err := renderFrame(ctx, frame, format, cfg, opts)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		path := outputPath(opts, format)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Debug("wrote output", "format", format, "bytes", len(data))
		printFile(path)
	}
	return nil
}

// layoutFrame loads the graph through a session, runs the simulation to
// rest and returns the final frame.
func (c *CLI) layoutFrame(ctx context.Context, cfg *config.Config, opts *renderOpts) (render.Frame, error) {
	logger := loggerFromContext(ctx)
	src, err := c.newSource(ctx, cfg)
	if err != nil {
		return render.Frame{}, err
	}
	sess := session.New(src, sessionOptions(cfg, opts.width, opts.height, logger))
	defer sess.Close(context.WithoutCancel(ctx))

	spinner := newSpinner(ctx, "Fetching memories from "+src.Name())
	spinner.Start()
	prog := newProgress(logger)
	if err := sess.Load(ctx); err != nil {
		spinner.Stop()
		return render.Frame{}, err
	}

	surf := sess.Surface()
	spinner.Update("Running layout")
	ticks, err := surf.Engine().RunUntilSettled(ctx, opts.maxTicks)
	spinner.Stop()
	if err != nil {
		return render.Frame{}, err
	}
	if opts.fit {
		surf.Fit(opts.padding)
	}

	frame := surf.Frame()
	data := sess.Data()
	if status, _ := sess.Status(); status == session.StatusEmpty {
		printWarning("No memories matched")
	} else {
		printSuccess("Laid out %d memories (%s)", data.NodeCount(), prog.elapsed())
	}
	printStats(data.NodeCount(), len(frame.Lines), ticks, frame.Settled)
	if rep := sess.Report(); rep != nil && len(rep.Rejected) > 0 {
		printDetail("%d invalid records skipped (use -v for details)", len(rep.Rejected))
	}
	return frame, nil
}

// sessionOptions maps the configuration onto a session for a canvas of the
// given size. The simulation centres on the canvas.
func sessionOptions(cfg *config.Config, width, height float64, logger *log.Logger) session.Options {
	layout := cfg.Layout
	layout.Width, layout.Height = width, height
	return session.Options{
		Request: cfg.Source.Request(),
		Layout:  layout,
		Style:   cfg.View.Style(width, height),
		Surface: []render.SurfaceOption{
			render.WithZoom(cfg.View.Zoom()),
			render.WithDateLayout(cfg.View.DateLayout),
			render.WithFPS(cfg.View.FPS),
		},
		Logger: logger,
	}
}

func renderFrame(ctx context.Context, f render.Frame, format string, cfg *config.Config, opts *renderOpts) ([]byte, error) {
	switch format {
	case formatSVG:
		if opts.graphviz {
			return sink.RenderGraphviz(ctx, sink.ToDOT(f), sink.FormatSVG)
		}
		svgOpts := []sink.SVGOption{
			sink.WithTitle(cfg.View.Title),
			sink.WithLegend(cfg.View.Legend),
			sink.WithSVGDateLayout(cfg.View.DateLayout),
		}
		if opts.tooltips {
			svgOpts = append(svgOpts, sink.WithTooltips())
		}
		return sink.RenderSVG(f, svgOpts...), nil
	case formatPNG:
		return sink.RenderGraphviz(ctx, sink.ToDOT(f), sink.FormatPNG)
	case formatDOT:
		return []byte(sink.ToDOT(f)), nil
	case formatJSON:
		var buf bytes.Buffer
		if err := sink.WriteJSON(&buf, f); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "format %q", format)
	}
}

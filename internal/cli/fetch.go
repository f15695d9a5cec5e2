package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/memgraph/internal/config"
	"github.com/matzehuels/memgraph/pkg/graph"
	"github.com/matzehuels/memgraph/pkg/source"
)

// fetchCommand writes the raw graph snapshot as JSON, the same shape the
// file source and the demo server read.
func (c *CLI) fetchCommand() *cobra.Command {
	var sf sourceFlags
	var output string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the memory graph and write it as JSON",
		Example: `  memgraph fetch > memories.json
  memgraph fetch --source mongo -o memories.json
  memgraph render -f memories.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			if err := sf.apply(cmd, cfg); err != nil {
				return err
			}
			return c.runFetch(cmd, cfg, output)
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) runFetch(cmd *cobra.Command, cfg *config.Config, output string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	src, err := c.newSource(ctx, cfg)
	if err != nil {
		return err
	}
	if closer, ok := src.(source.Closer); ok {
		defer closer.Close(context.WithoutCancel(ctx))
	}

	req := cfg.Source.Request()
	prog := newProgress(logger)
	data, err := src.Fetch(ctx, req)
	if err != nil {
		return err
	}
	logger.Debug("fetched", "source", src.Name(), "query", req.Query, "min_strength", req.MinStrength, "elapsed", prog.elapsed())

	if output == "" {
		return graph.Write(data, cmd.OutOrStdout())
	}
	if err := graph.WriteFile(data, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Fetched %d memories and %d links (%s)", data.NodeCount(), data.EdgeCount(), prog.elapsed())
	printFile(output)
	return nil
}

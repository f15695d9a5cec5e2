package cli

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/memgraph/internal/config"
	"github.com/matzehuels/memgraph/internal/sample"
	"github.com/matzehuels/memgraph/internal/server"
	"github.com/matzehuels/memgraph/pkg/buildinfo"
	"github.com/matzehuels/memgraph/pkg/source"
	"github.com/matzehuels/memgraph/pkg/source/file"
	"github.com/matzehuels/memgraph/pkg/source/mongo"
)

// serveCommand runs the demo graph server so the viewer and browser front
// ends have something to talk to.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, data string
	var useMongo bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph API from a JSON file, MongoDB or the built-in sample",
		Example: `  memgraph serve
  memgraph serve --data memories.json --addr :9000
  memgraph serve --mongo
  memgraph view --url http://localhost:8000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if data != "" {
				cfg.Server.Data = data
			}
			return c.runServe(cmd.Context(), cfg, useMongo)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8000)")
	cmd.Flags().StringVar(&data, "data", "", "graph JSON file to serve")
	cmd.Flags().BoolVar(&useMongo, "mongo", false, "serve from the MongoDB configured in [mongo]")
	cmd.MarkFlagsMutuallyExclusive("data", "mongo")
	_ = cmd.MarkFlagFilename("data", "json")
	return cmd
}

// serverSource picks what the demo server reads: MongoDB when asked, then a
// data file, then the sample graph.
func serverSource(ctx context.Context, cfg *config.Config, useMongo bool) (source.Source, error) {
	switch {
	case useMongo:
		m, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return m, nil
	case cfg.Server.Data != "":
		return file.New(cfg.Server.Data), nil
	default:
		return &source.Static{Data: sample.Data()}, nil
	}
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config, useMongo bool) error {
	logger := loggerFromContext(ctx)
	src, err := serverSource(ctx, cfg, useMongo)
	if err != nil {
		return err
	}
	if closer, ok := src.(source.Closer); ok {
		defer closer.Close(context.WithoutCancel(ctx))
	}

	srv := server.New(src, server.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Version:        buildinfo.Version,
		Logger:         logger.WithPrefix("server"),
	})

	printInfo("Serving %s", StyleValue.Render(src.Name()))
	printDetail("GET http://localhost%s/api/graph", displayAddr(cfg.Server.Addr))
	printNextStep("Open the viewer with", "memgraph view --url http://localhost"+displayAddr(cfg.Server.Addr))

	err = srv.Run(ctx, cfg.Server.Addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// displayAddr turns a listen address like ":8000" or "0.0.0.0:8000" into
// the port part of a URL.
func displayAddr(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i:]
	}
	return ""
}

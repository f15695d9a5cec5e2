package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/memgraph/internal/config"
	"github.com/matzehuels/memgraph/pkg/session"
)

// viewCommand opens the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var sf sourceFlags
	var logFile string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore the memory graph in the terminal",
		Long: `Open the memory graph as a live force layout. Drag nodes with the mouse,
zoom with the wheel or +/-, pan by dragging the background or with the arrow
keys, hover a node to read it, and press r to fetch fresh data.`,
		Example: `  memgraph view
  memgraph view --source sample
  memgraph view -q kubernetes --min-strength 0.6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			if err := sf.apply(cmd, cfg); err != nil {
				return err
			}
			return c.runView(cmd.Context(), cfg, logFile)
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the viewer runs")
	return cmd
}

func (c *CLI) runView(ctx context.Context, cfg *config.Config, logFile string) error {
	// The viewer owns the terminal; logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	c.Logger.SetOutput(logOut)
	registerHooks(c.Logger)
	defer func() {
		c.Logger.SetOutput(c.logOut)
		registerHooks(c.Logger)
	}()

	src, err := c.newSource(ctx, cfg)
	if err != nil {
		return err
	}
	layout := cfg.Layout.WithDefaults()
	sess := session.New(src, sessionOptions(cfg, layout.Width, layout.Height, c.Logger.WithPrefix("view")))
	defer sess.Close(context.WithoutCancel(ctx))

	v := newViewer(ctx, sess, cfg.View.Title, cfg.View.FPS, cfg.View.TicksPerFrame)
	p := tea.NewProgram(v,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/internal/config"
	"github.com/matzehuels/masonry/internal/contacts"
	"github.com/matzehuels/masonry/internal/server"
)

// serveCommand creates the serve command for running the JSON API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		gallery string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API server",
		Long: `Run the JSON API server.

Endpoints:
  GET  /api/health      server status
  POST /api/contact     store a contact form submission
  GET  /api/portfolio   portfolio items (from --gallery when set)
  POST /api/layout      compute a layout for posted items`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config.Server
			if addr != "" {
				cfg.Addr = addr
			}
			if gallery != "" {
				cfg.Gallery = gallery
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: "+config.Default().Server.Addr+")")
	cmd.Flags().StringVar(&gallery, "gallery", "", "gallery manifest served by /api/portfolio")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Server, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	store, err := c.newContactStore(ctx)
	if err != nil {
		return fmt.Errorf("open contact store: %w", err)
	}
	defer store.Close(context.WithoutCancel(ctx))

	srv := server.New(server.Options{
		Config:    cfg,
		Policy:    c.config.Layout.Breakpoints,
		Animation: c.config.Animation,
		Runner:    runner,
		Contacts:  store,
		Logger:    c.Logger,
	})
	return srv.ListenAndServe(ctx)
}

// newContactStore opens the configured contact store.
func (c *CLI) newContactStore(ctx context.Context) (contacts.Store, error) {
	if c.config.Contacts.Store == config.StoreMongo {
		return contacts.NewMongoStore(ctx, c.config.Contacts.MongoURI, c.config.Contacts.Database)
	}
	return contacts.NewMemoryStore(), nil
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/assemblage/pkg/api"
	"github.com/matzehuels/assemblage/pkg/config"
	"github.com/matzehuels/assemblage/pkg/session"
	"github.com/matzehuels/assemblage/pkg/store"
)

// sessionSweepInterval is how often expired API sessions are dropped.
const sessionSweepInterval = 10 * time.Minute

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the collage HTTP API",
		Long: `Serve exposes the compose, fill, render and scale operations over HTTP.

Compositions are archived in the store selected by [store] in the config file
(memory or mongo). Usage sessions live in memory.`,
		Example: `  assemblage serve
  assemblage serve --addr 127.0.0.1:9000 --config ./assemblage.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	sessions := session.NewMemoryStore()
	go sweepSessions(ctx, sessions, sessionSweepInterval)

	srv := api.NewServer(runner, st, sessions, c.Logger)
	srv.Defaults = c.cfg.PipelineOptions()

	printInfo("Serving on %s", StyleLink.Render(c.cfg.Server.Addr))
	printDetail("cache: %s · store: %s", c.cfg.Cache.Backend, c.cfg.Store.Backend)

	return srv.ListenAndServe(ctx, c.cfg.Server.Addr,
		c.cfg.Server.ReadTimeout.Duration,
		c.cfg.Server.WriteTimeout.Duration,
		c.cfg.Server.ShutdownTimeout.Duration)
}

func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if c.cfg.Store.Backend != config.BackendMongo {
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewMongoStore(ctx, store.MongoOptions{
		URI:      c.cfg.Store.MongoURI,
		Database: c.cfg.Store.MongoDatabase,
	})
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}
	return st, nil
}

// sweepSessions removes expired sessions every interval until ctx is done.
func sweepSessions(ctx context.Context, s session.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Cleanup(ctx)
		}
	}
}

package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voltlab/gridopt/pkg/api"
	"github.com/voltlab/gridopt/pkg/cache"
	"github.com/voltlab/gridopt/pkg/history"
	"github.com/voltlab/gridopt/pkg/opf"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string // listen address
	redisURL string // Redis cache URL (file cache if empty)
	mongoURL string // MongoDB run archive URL (in-memory if empty)
	mongoDB  string // MongoDB database name
	noCache  bool   // disable the solve cache
	cacheDir string // file cache directory override
}

// newServeCmd creates the serve command for running the HTTP API.
func newServeCmd() *cobra.Command {
	opts := serveOpts{addr: ":8080", mongoDB: "gridopt"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

The server exposes the solve pipeline and the run archive. Without
--redis-url it caches to disk; without --mongo-url it archives runs in
memory.

Examples:
  gridopt serve
  gridopt serve --addr :9090
  gridopt serve --redis-url redis://localhost:6379/0 --mongo-url mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "Redis URL for the solve cache")
	cmd.Flags().StringVar(&opts.mongoURL, "mongo-url", "", "MongoDB URL for the run archive")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the solve cache")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "solve cache directory (default ~/.cache/gridopt)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logger := loggerFromContext(ctx)

	c, err := serveCache(ctx, opts)
	if err != nil {
		return err
	}
	defer c.Close()

	hist, err := serveHistory(ctx, opts)
	if err != nil {
		return err
	}
	defer hist.Close(context.Background())

	runner := opf.NewRunner(nil, c, nil, hist, logger)
	return api.NewServer(runner, hist, logger).ListenAndServe(ctx, opts.addr)
}

// serveCache builds the solve cache for server use. Redis takes
// precedence over the file cache when configured.
func serveCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.redisURL != "" {
		return cache.NewRedisCache(ctx, opts.redisURL)
	}
	return newCache(opts.noCache, opts.cacheDir)
}

// serveHistory builds the run archive. Without MongoDB, runs live only
// as long as the process.
func serveHistory(ctx context.Context, opts *serveOpts) (history.Store, error) {
	if opts.mongoURL != "" {
		return history.NewMongoStore(ctx, opts.mongoURL, opts.mongoDB, "runs")
	}
	return history.NewMemoryStore(), nil
}

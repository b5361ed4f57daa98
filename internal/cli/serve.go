package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/livelayout/pkg/stream"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// serveOpts holds the command-line flags for the serve command. Empty
// values fall back to the [serve] section of the configuration.
type serveOpts struct {
	addr         string
	redisAddr    string
	redisChannel string
	paused       bool
}

// serveCommand creates the serve command for the HTTP and websocket API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [graph.json]",
		Short: "Serve positions over HTTP and websockets",
		Long: `Animate a graph and serve its positions.

Endpoints:
  GET  /positions   active coordinates
  POST /positions   move nodes, e.g. {"a": {"x": 10, "y": 20}}
  POST /layout      apply a strategy, e.g. {"strategy": "grid"}
  POST /animation   {"enabled": true|false}
  GET  /stats       scheduler counters
  GET  /ws          websocket stream of change frames

With --redis every change frame is also published to a Redis channel.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default: serve.addr)")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address to publish change frames to (default: serve.redis_addr)")
	cmd.Flags().StringVar(&opts.redisChannel, "redis-channel", "", "Redis channel (default: serve.redis_channel)")
	cmd.Flags().BoolVar(&opts.paused, "paused", false, "start with the animation stopped")

	return cmd
}

// runServe serves the graph at input until ctx is done.
func (c *CLI) runServe(ctx context.Context, input string, opts serveOpts) error {
	s, err := c.openSession(input, c.Logger)
	if err != nil {
		return err
	}
	defer s.Close()

	if opts.addr == "" {
		opts.addr = s.cfg.Serve.Addr
	}
	if opts.redisAddr == "" {
		opts.redisAddr = s.cfg.Serve.RedisAddr
	}
	if opts.redisChannel == "" {
		opts.redisChannel = s.cfg.Serve.RedisChannel
	}

	hub := stream.NewHub(s.store, 0, c.Logger)
	hubID := s.store.AddListener(hub)
	defer s.store.RemoveListener(hubID)

	if opts.redisAddr != "" {
		client, err := stream.NewRedisClient(ctx, opts.redisAddr)
		if err != nil {
			return fmt.Errorf("connect redis %s: %w", opts.redisAddr, err)
		}
		defer client.Close()

		pub := stream.NewRedisPublisher(client, opts.redisChannel, s.store, 0, c.Logger)
		pubID := s.store.AddListener(pub)
		defer func() {
			s.store.RemoveListener(pubID)
			_ = pub.Close()
		}()
		printInfo("Publishing to redis %s channel %s", opts.redisAddr, opts.redisChannel)
	}

	if !opts.paused {
		s.sched.SetAnimating(true)
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           stream.NewRouter(s.sched, hub, c.Logger),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	printSuccess("Serving %s on %s", input, StyleValue.Render(opts.addr))
	printNextStep("Stream", "websocat "+wsURL(opts.addr))

	select {
	case err := <-errc:
		hub.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", opts.addr, err)
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	// Hijacked websocket connections are not closed by Shutdown.
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// wsURL returns the websocket URL for a listen address.
func wsURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "ws://" + addr + "/ws"
}

package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/freedux/internal/statefile"
	"github.com/vango-dev/freedux/pkg/inspector"
	"github.com/vango-dev/freedux/pkg/path"
	"github.com/vango-dev/freedux/pkg/store"
	"github.com/vango-dev/freedux/pkg/storemetrics"
)

func inspectCmd(c *cli) *cobra.Command {
	var (
		addr    string
		maxRate float64
		poll    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Serve a live view of a state document",
		Long: `Load FILE into a store and serve the inspector:

  GET /state          the whole document
  GET /state/{path}   the value at a path
  GET /ws             websocket snapshots
  GET /metrics        prometheus metrics

With --poll, FILE is re-read periodically and the store root is
replaced when the contents change, so websocket clients follow
edits made by other tools.

Examples:
  freedux inspect state.json
  freedux inspect state.yaml --addr=:7070 --poll=1s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.runInspect(ctx, cmd, args[0], addr, maxRate, poll)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from freedux.json)")
	cmd.Flags().Float64Var(&maxRate, "max-rate", 0, "Websocket broadcasts per second (default from freedux.json)")
	cmd.Flags().DurationVar(&poll, "poll", 0, "Re-read FILE at this interval (0 disables)")

	return cmd
}

func (c *cli) runInspect(ctx context.Context, cmd *cobra.Command, file, addr string, maxRate float64, poll time.Duration) error {
	cfg, _, err := c.settings()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Inspector.Addr = addr
	}
	if maxRate > 0 {
		cfg.Inspector.MaxRate = maxRate
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := cfg.LogLevel()
	logger := c.logger(cmd.ErrOrStderr(), level)

	src, err := c.open(file, cfg)
	if err != nil {
		return err
	}
	data, err := src.Read(ctx)
	if err != nil {
		return err
	}
	doc, err := statefile.Decode(data, src.Format())
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics := storemetrics.New(
		storemetrics.WithNamespace(cfg.Metrics.Namespace),
		storemetrics.WithRegistry(reg),
	)
	s := store.New[any](doc,
		store.WithName(cfg.Name),
		store.WithLogger(logger),
		store.WithObserver(metrics),
	)
	insp := inspector.New(s,
		inspector.WithMaxRate(cfg.Inspector.MaxRate),
		inspector.WithLogger(logger),
	)
	defer insp.Close()

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Mount("/", insp.Handler())

	srv := &http.Server{
		Addr:              cfg.Inspector.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	stderr := cmd.ErrOrStderr()
	c.success(stderr, "inspecting %s as store %q", src.Name(), cfg.Name)
	c.info(stderr, "http://%s/state", cfg.Inspector.Addr)

	var tick <-chan time.Time
	if poll > 0 {
		ticker := time.NewTicker(poll)
		defer ticker.Stop()
		tick = ticker.C
	}
	root := store.CreateSetterPath[any](s, path.Path{})

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)

		case err := <-serveErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err

		case <-tick:
			next, err := src.Read(ctx)
			if err != nil {
				logger.Warn("inspect: reload failed", "file", file, "error", err)
				continue
			}
			if bytes.Equal(next, data) {
				continue
			}
			doc, err := statefile.Decode(next, src.Format())
			if err != nil {
				logger.Warn("inspect: reload failed", "file", file, "error", err)
				continue
			}
			data = next
			root.Set(doc)
			logger.Info("inspect: reloaded", "file", file, "revision", s.Revision(), "subscribers", s.SubscriberCount())
		}
	}
}

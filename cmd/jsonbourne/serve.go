package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rbaliyan/jsonbourne/jsonhttp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

// ServeOptions defines the flags of the serve command
type ServeOptions struct {
	Addr            string
	MaxBodySize     int64
	ShutdownTimeout time.Duration
	RateLimit       float64
	RateBurst       int
}

// AddFlags registers the serve flags on cmd
func (s *ServeOptions) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&s.Addr, "addr", s.Addr, "Address to listen on.")
	flags.Int64Var(&s.MaxBodySize, "max-body-size", s.MaxBodySize, "Largest accepted request body in bytes.")
	flags.DurationVar(&s.ShutdownTimeout, "shutdown-timeout", s.ShutdownTimeout, "Grace period for in-flight requests.")
	flags.Float64Var(&s.RateLimit, "rate-limit", s.RateLimit, "Requests per second allowed, 0 disables the limit.")
	flags.IntVar(&s.RateBurst, "rate-burst", s.RateBurst, "Requests allowed in a burst above the rate limit.")
}

func newServeCommand(o *RootOptions) *cobra.Command {
	s := &ServeOptions{
		Addr:            ":8080",
		MaxBodySize:     jsonhttp.DefaultMaxBodySize,
		ShutdownTimeout: 10 * time.Second,
		RateBurst:       10,
	}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the format and backends endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.run(cmd.Context(), o)
		},
	}
	s.AddFlags(cmd)
	return cmd
}

func (s *ServeOptions) run(ctx context.Context, o *RootOptions) error {
	srv := &http.Server{
		Addr: s.Addr,
		Handler: jsonhttp.New(o.lib,
			jsonhttp.WithLogger(o.logger),
			jsonhttp.WithMaxBodySize(s.MaxBodySize),
			jsonhttp.WithRateLimit(rate.Limit(s.RateLimit), s.RateBurst)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		o.logger.Info("listening", "addr", s.Addr, "backend", o.lib.Which())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

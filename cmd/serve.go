package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsphweid/barspan/model"
	"github.com/jsphweid/barspan/server"
	"github.com/jsphweid/barspan/span"
	"github.com/jsphweid/barspan/viz"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const shutdownTimeout = 5 * time.Second

func init() {
	addSessionFlags(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd)
}

func addSessionFlags(flags *pflag.FlagSet) {
	flags.String("addr", "", "http bind address")
	flags.String("viz-addr", "", "udp host:port receiving snapshots (empty = off)")
	flags.Duration("viz-interval", 0, "minimum spacing between snapshot pushes")
}

// sessionSetup binds the session flags of whichever command runs, since serve
// and listen share the keys.
func sessionSetup(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	for _, key := range []string{"addr", "viz-addr", "viz-interval"} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			return err
		}
	}
	return sharedSetup(cmd, args)
}

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Serves the assembler over http",
	Long:    `Accepts notes and control changes over http and pushes bar snapshots to a visualizer.`,
	PreRunE: sessionSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, closeSession, err := newSession()
		if err != nil {
			return err
		}
		defer closeSession()
		return serve(ctx, srv)
	},
}

// newSession wires an assembler to a recorder and the snapshot pusher.
func newSession() (*server.Server, func(), error) {
	pusher, err := viz.NewPusher(cfg.VizAddr, cfg.VizInterval, logger)
	if err != nil {
		return nil, nil, err
	}
	rec := span.NewRecorder()
	rec.OnSpan = func(s model.Span) {
		logger.Info("span emitted", "id", s.ID, "track", s.Track, "offset", s.Offset, "bars", s.Bars, "rating", s.Rating)
	}
	a := span.New(span.Options{
		BarLength:  cfg.BarLengthSource(),
		Sink:       rec,
		Visualizer: pusher,
		Logger:     logger,
	})
	a.SetPalette(cfg.Palette)

	srv := server.New(a, rec, logger)
	closeSession := func() {
		srv.Do(func(a *span.Assembler) { a.Flush() })
		if err := pusher.Close(); err != nil {
			logger.Warn("closing visualizer", "error", err)
		}
	}
	return srv, closeSession, nil
}

// serve blocks until ctx is done or the listener fails.
func serve(ctx context.Context, srv *server.Server) error {
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving", "addr", cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down")
	return httpServer.Shutdown(shutdownCtx)
}

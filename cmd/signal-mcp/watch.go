package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/traffic-signal-mcp/internal/host"
	"github.com/ironsheep/traffic-signal-mcp/internal/logging"
)

var (
	watchAddr     string
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Replay a directory of frames as a camera and stream signal reports",
	Long: `watch feeds the frames of a directory, in name order, through the pipeline at a
fixed interval. A slow pipeline skips frames rather than queueing them.
Every report is logged and broadcast as JSON to WebSocket viewers on /ws.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchAddr, "addr", "", "WebSocket listen address (default SIGNAL_WATCH_ADDR or :8090)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Delay between frames (default SIGNAL_FRAME_INTERVAL_MS or 100ms)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if cmd.Flags().Changed("addr") {
		cfg.WatchAddr = watchAddr
	}
	if cmd.Flags().Changed("interval") {
		cfg.FrameInterval = watchInterval
	}

	src, err := host.NewDirSource(args[0], cfg.FrameInterval)
	if err != nil {
		return err
	}
	pipeline, err := newPipeline()
	if err != nil {
		return err
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	hub := host.NewHub(logging.Component(logger, "hub"))
	go hub.Run(hubCtx)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	httpServer := &http.Server{
		Addr:              cfg.WatchAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", cfg.WatchAddr).Msg("websocket viewers on /ws")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("websocket server failed")
		}
	}()

	logger.Info().
		Str("dir", args[0]).
		Int("frames", src.Len()).
		Dur("interval", cfg.FrameInterval).
		Msg("replaying frames")

	runner := host.NewRunner(pipeline, logging.Component(logger, "runner"))
	sink := host.MultiSink{
		host.LogSink{Log: logging.Component(logger, "signal").With().Str("session", runner.Session()).Logger()},
		hub,
	}
	stats, runErr := runner.Run(ctx, src, sink)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("websocket server shutdown")
	}

	logger.Info().Interface("states", stats.States).Msg("replay finished")

	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

package main

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ironsheep/traffic-signal-mcp/internal/config"
	"github.com/ironsheep/traffic-signal-mcp/internal/detection"
	"github.com/ironsheep/traffic-signal-mcp/internal/logging"
	"github.com/ironsheep/traffic-signal-mcp/internal/signal"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	// cfg and logger are ready once PersistentPreRunE has run.
	cfg    *config.Config
	logger zerolog.Logger

	envFile   string
	logLevel  string
	logFormat string
	detector  string
)

var rootCmd = &cobra.Command{
	Use:   "signal-mcp",
	Short: "Traffic signal state classifier with an MCP server front end",
	Long: `signal-mcp finds a traffic signal lamp in a frame and reports its state:
STOP, GO, WAIT, a combination such as "STOP & WAIT", UNKNOWN or NO SIGNAL.

Run without a subcommand it serves the MCP protocol on stdin/stdout.
Configure it in your MCP client (e.g., Claude Desktop).`,
	Version:       fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}

		cfg = config.Load()
		flags := cmd.Flags()
		if flags.Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if flags.Changed("log-format") {
			cfg.LogFormat = logFormat
		}
		if flags.Changed("detector") {
			cfg.Detector = detector
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// stdout is for MCP protocol and command output
		l, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		logger = l
		logger.Debug().
			Str("version", Version).
			Str("build_time", BuildTime).
			Str("commit", GitCommit).
			Str("detector", cfg.Detector).
			Msg("starting")
		return nil
	},
	Args: cobra.NoArgs,
	RunE: runServe,
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "signal-mcp %s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error); overrides SIGNAL_LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatConsole, "Log format (console or json); overrides SIGNAL_LOG_FORMAT")
	rootCmd.PersistentFlags().StringVar(&detector, "detector", config.DetectorNative, "Circle detector (native or opencv); overrides SIGNAL_DETECTOR")
}

// newPipeline builds the signal pipeline for the configured detector.
func newPipeline() (*signal.Pipeline, error) {
	opts := []signal.Option{
		signal.WithLogger(logging.Component(logger, "pipeline")),
	}
	if cfg.Detector == config.DetectorOpenCV {
		if !detection.OpenCVAvailable {
			return nil, detection.ErrOpenCVUnavailable
		}
		opts = append(opts, signal.WithDetector(signal.OpenCVDetector{}))
	}
	return signal.New(opts...), nil
}

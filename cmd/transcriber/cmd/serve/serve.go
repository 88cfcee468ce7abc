package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gemini-transcriber/internal/api/server"
	"gemini-transcriber/internal/app/api/gemini"
	"gemini-transcriber/internal/app/common"
	"gemini-transcriber/internal/app/metrics"
	"gemini-transcriber/internal/app/session"
	"gemini-transcriber/internal/config"
)

var (
	serverConfig = config.DefaultServerConfig()
	sweepEvery   time.Duration
	shutdownWait time.Duration
	logLevel     string
	modelName    string
	baseURL      string
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the transcription web UI and API",
	Long: `Start the HTTP server for the browser UI and the /api/v1 endpoints.

The Gemini credential is read from API_KEY (process environment or a .env
file). The server refuses to start without a well-formed key.`,
	RunE: run,
}

func init() {
	flags := Cmd.Flags()
	flags.StringVar(&serverConfig.Host, "host", config.DefaultHost, "listen host")
	flags.StringVarP(&serverConfig.Port, "port", "p", config.DefaultPort, "listen port")
	flags.StringVar(&serverConfig.Environment, "env", config.EnvDevelopment, "environment: development or production")
	flags.DurationVar(&serverConfig.ReadTimeout, "read-timeout", config.DefaultReadTimeout, "HTTP read timeout")
	flags.DurationVar(&serverConfig.WriteTimeout, "write-timeout", config.DefaultWriteTimeout, "HTTP write timeout (0 waits for the model)")
	flags.DurationVar(&serverConfig.IdleTimeout, "idle-timeout", config.DefaultIdleTimeout, "HTTP keep-alive idle timeout")
	flags.DurationVar(&serverConfig.SessionTTL, "session-ttl", config.DefaultSessionTTL, "drop UI sessions idle for longer than this")
	flags.DurationVar(&sweepEvery, "sweep-every", config.DefaultSweepEvery, "how often idle sessions are swept")
	flags.DurationVar(&shutdownWait, "shutdown-timeout", config.DefaultShutdownWait, "graceful shutdown limit")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&modelName, "model", gemini.DefaultModel, "Gemini model")
	flags.StringVar(&baseURL, "gemini-base-url", "", "override the Gemini endpoint")
	_ = flags.MarkHidden("gemini-base-url")
}

func run(cmd *cobra.Command, args []string) error {
	if err := serverConfig.Validate(); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}
	if sweepEvery <= 0 {
		return fmt.Errorf("sweep interval must be positive")
	}

	logger, err := common.NewLoggerWithLevel(serverConfig.Environment != config.EnvProduction, logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	apiKey, err := config.InitializeConfig(logger)
	if err != nil {
		logger.Error("configuration error", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	transcriber, err := gemini.NewTranscriber(ctx, gemini.Config{
		APIKey:  apiKey,
		Model:   modelName,
		BaseURL: baseURL,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	instrumented := metrics.NewTranscriptionMetrics(prometheus.DefaultRegisterer).Instrument(transcriber)
	store := session.NewStore(instrumented, logger)

	// Background transcriptions outlive the request that started them and
	// stop only when the process shuts down.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	srv, err := server.NewServer(serverConfig, server.Dependencies{
		Transcriber: instrumented,
		Model:       transcriber.Model(),
		Store:       store,
		Gatherer:    prometheus.DefaultGatherer,
		BaseContext: baseCtx,
	}, logger)
	if err != nil {
		return err
	}

	errCh, err := srv.Start()
	if err != nil {
		return err
	}

	go store.RunSweeper(ctx, sweepEvery, serverConfig.SessionTTL)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	cancelBase()
	return nil
}

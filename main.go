package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chxlky/trello-verify-action/api"
	"github.com/chxlky/trello-verify-action/integrations"
	"github.com/chxlky/trello-verify-action/internal/config"
	"github.com/chxlky/trello-verify-action/internal/verify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "trello-verify",
		Short:         "Verify that a pull request references an open Trello card",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runVerify,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file (default ./config.toml)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Verify the pull request that triggered the current GitHub Actions run",
		RunE:  runVerify,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Verify pull requests delivered by GitHub webhooks",
		RunE:  runServe,
	})

	if err := rootCmd.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// reportedError has already been written out as a workflow annotation.
type reportedError struct{ error }

func (e *reportedError) Unwrap() error { return e.error }

var annotationEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

// errorAnnotation formats msg as a GitHub Actions ::error:: workflow command.
func errorAnnotation(msg string) string {
	return "::error::" + annotationEscaper.Replace(msg)
}

func setupLogger(defaultLevel string) *zap.Logger {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if levelStr == "" {
		levelStr = defaultLevel
	}
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      true,
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, _ := cfg.Build()
	zap.ReplaceGlobals(logger)
	return logger
}

func runVerify(cmd *cobra.Command, args []string) error {
	logger := setupLogger("info")
	defer logger.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := cmd.Context()
	github := integrations.NewGithubClient(ctx, cfg.GithubToken, cfg.Github.APIURL)
	trello := integrations.NewTrelloClient(cfg.TrelloAPIKey, cfg.TrelloAPIToken, cfg.Trello.BaseURL)

	event, err := integrations.LoadActionEvent(github)
	if err != nil {
		return err
	}

	vc := cfg.VerificationConfig()
	zap.L().Info("Verifying pull request",
		zap.String("event", event.EventName()),
		zap.String("action", event.Action()),
		zap.String("url", event.PullRequest().URL),
		zap.String("commitStrategy", string(vc.Commit)),
		zap.String("titleStrategy", string(vc.Title)),
		zap.String("noidStrategy", string(vc.NoID)))

	if err := verify.Run(ctx, vc, event, trello); err != nil {
		fmt.Println(errorAnnotation(err.Error()))
		return &reportedError{err}
	}

	zap.L().Info("Pull request verified")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger("debug")
	defer logger.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	apiHandler := &api.Handler{
		Config:        cfg.VerificationConfig(),
		Cards:         integrations.NewTrelloClient(cfg.TrelloAPIKey, cfg.TrelloAPIToken, cfg.Trello.BaseURL),
		Github:        integrations.NewGithubClient(context.Background(), cfg.GithubToken, cfg.Github.APIURL),
		WebhookSecret: cfg.Server.WebhookSecret,
		Workers:       make(chan struct{}, 10), // Limit to 10 concurrent verifications
	}
	if apiHandler.WebhookSecret == "" {
		zap.L().Warn("server.webhook_secret is not set; webhook signatures will not be checked")
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: api.NewRouter(apiHandler, logger),
	}

	zap.L().Info("Starting server", zap.String("port", cfg.Server.Port))
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	shutdown := func(reason string) {
		zap.L().Info("Shutdown initiated", zap.String("reason", reason))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		zap.L().Info("Shutting down HTTP server...")
		if err := srv.Shutdown(ctx); err != nil {
			zap.L().Error("Error shutting down server", zap.Error(err))
		} else {
			zap.L().Info("HTTP server shut down gracefully.")
		}
	}

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigCh:
		// if a second signal is caught, exit immediately
		go func() {
			<-sigCh
			zap.L().Info("Second interrupt signal received. Exiting immediately.")
			os.Exit(1)
		}()
		shutdown(sig.String())
	}

	zap.L().Info("Exiting...")
	return nil
}

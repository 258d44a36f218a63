// Command ingest parses German bank statements into normalized transactions.
// It runs one-shot over a text file by default; with -serve it stays up,
// exposing metrics and refreshing the suggestion cache on a schedule.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ingestservice "github.com/kontowerk/statement-ingest/internal/domain/ingest/service"
	"github.com/kontowerk/statement-ingest/pkg/config"
)

func main() {
	var (
		filePath = flag.String("file", "", "statement text file to ingest ('-' for stdin)")
		bankName = flag.String("bank", "", "bank name hint for parser selection")
		userID   = flag.String("user", "", "user id for duplicate detection (requires database)")
		withDB   = flag.Bool("db", false, "connect to the database for suggestions and duplicate detection")
		serve    = flag.Bool("serve", false, "keep running: expose metrics and refresh caches on schedule")
		listOnly = flag.Bool("banks", false, "list supported banks and exit")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Observability.LogLevel)

	deps, err := InitDependencies(cfg, logger, *withDB || *serve)
	if err != nil {
		logger.Error("initialization failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer deps.Cleanup()

	if *listOnly {
		for _, bank := range deps.IngestService.SupportedBanks() {
			fmt.Println(bank)
		}
		return
	}

	if *serve {
		if err := runServe(deps); err != nil {
			logger.Error("serve failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := runIngest(deps, *filePath, *bankName, *userID); err != nil {
		logger.Error("ingestion failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func runIngest(deps *Dependencies, filePath, bankName, userIDStr string) error {
	text, err := readInput(filePath)
	if err != nil {
		return err
	}

	opts := ingestservice.Options{}
	if userIDStr != "" {
		id, err := uuid.Parse(userIDStr)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", userIDStr, err)
		}
		opts.UserID = &id
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := deps.IngestService.Ingest(ctx, text, bankName, opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func runServe(deps *Dependencies) error {
	if deps.Scheduler != nil {
		if err := deps.Scheduler.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
	}

	if deps.Config.Observability.MetricsEnabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", deps.Config.Observability.MetricsPort)

		go func() {
			deps.Logger.Info("metrics listening", slog.String("addr", addr))
			if err := http.ListenAndServe(addr, mux); err != nil {
				deps.Logger.Error("metrics server stopped", slog.Any("error", err))
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	deps.Logger.Info("shutting down")
	return nil
}

func readInput(filePath string) (string, error) {
	if filePath == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filePath, err)
	}
	return string(data), nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

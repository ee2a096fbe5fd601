// main is the entry point for the todo service
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/cirocosta/todo-service/internal/api"
	"github.com/cirocosta/todo-service/internal/config"
	"github.com/cirocosta/todo-service/internal/model"
	"github.com/cirocosta/todo-service/internal/repository"
	"github.com/cirocosta/todo-service/internal/service"
	"github.com/cirocosta/todo-service/internal/telemetry"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	os.Args = os.Args[1:]

	switch cmd {
	case "run":
		runServer()
	case "openapi-gen":
		generateOpenAPI()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`
Usage: todo-service <command> [options]

Commands:
  run          Start the HTTP server
  openapi-gen  Write the OpenAPI document to a file

Run 'todo-service <command> -h' for more information on a command.

`)
	fmt.Println(config.Usage())
}

func runServer() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "YAML config file, environment only when empty")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracing, err := telemetry.NewProvider(cfg.Tracing, os.Stdout)
	if err != nil {
		logger.Error("cannot set up tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			logger.Error("cannot flush traces", "error", err)
		}
	}()

	metrics := api.NewMetrics()

	repo, health, closeRepo, err := openRepository(ctx, logger, cfg.Storage, metrics)
	if err != nil {
		logger.Error("cannot open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	todoService := service.NewTodoService(logger, repo)

	r := api.NewRouter(todoService, api.Options{
		Logger:      logger,
		Metrics:     metrics,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Health:      health,

		TracerProvider: tracing,
	})

	server := &http.Server{
		Addr:     cfg.HTTP.Address,
		Handler:  r,
		ErrorLog: slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.HTTP.Address, "storage", cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			logger.Error("server error", "error", err)
			closeRepo()
			os.Exit(1)
		}
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return
	}

	logger.Info("server stopped")
}

// openRepository builds the store selected by cfg. The returned close
// function is safe to call more than once.
func openRepository(ctx context.Context, log *slog.Logger, cfg config.Storage, metrics *api.Metrics) (repository.TodoRepository, api.HealthChecker, func(), error) {
	var seed []model.Todo
	if !cfg.SkipSeed {
		seed = repository.SeedTodos()
	}

	if cfg.Driver == config.DriverMemory {
		return repository.NewInMemoryTodoRepository(seed...), nil, func() {}, nil
	}

	dialect := repository.Dialect(cfg.Driver)
	repo, err := repository.NewSQLTodoRepository(ctx, log, dialect, cfg.DSN)
	if err != nil {
		return nil, nil, nil, err
	}

	var closed bool
	closeRepo := func() {
		if closed {
			return
		}
		closed = true
		if err := repo.Close(); err != nil {
			log.Error("cannot close storage", "error", err)
		}
	}

	if err := repo.Migrate(ctx); err != nil {
		closeRepo()
		return nil, nil, nil, err
	}
	if len(seed) > 0 {
		if err := repo.Seed(ctx, seed); err != nil {
			closeRepo()
			return nil, nil, nil, err
		}
	}

	metrics.Registerer().MustRegister(collectors.NewDBStatsCollector(repo.DB(), string(dialect)))

	return repo, repo.Ping, closeRepo, nil
}

func generateOpenAPI() {
	output := flag.String("o", "openapi.json", "Output file path")
	flag.Parse()

	r := api.NewRouter(api.NewNoopTodoService(), api.Options{
		Logger: slog.New(slog.DiscardHandler),
	})

	data, err := r.OpenAPIJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal openapi document: %s\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*output, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write openapi document to %q: %s\n", *output, err)
		os.Exit(1)
	}

	fmt.Printf("OpenAPI document generated at %s\n", *output)
}

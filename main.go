package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"finanzas/db"
	"finanzas/db/store"
	"finanzas/ocr"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// @title Finanzas API
// @version 1.0
// @description Personal finance API: transactions, budgets, goals, debts, reminders and receipt OCR.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	queries      store.Store
	appConfig    Config
	visionClient ocr.Client
	uploads      *ocr.DiskStorage

	version  = "dev"
	cfgFile  string
	cfgViper = viper.New()
)

const (
	dbRetryInterval = 2 * time.Second
	shutdownTimeout = 30 * time.Second
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	serve := serveCmd()
	root := &cobra.Command{
		Use:               "finanzas",
		Short:             "Personal finance API server",
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
		RunE:              serve.RunE,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "log format (text, json)")
	_ = cfgViper.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))
	_ = cfgViper.BindPFlag("log.format", root.PersistentFlags().Lookup("log-format"))

	root.AddCommand(serve, migrateCmd(), tokenCmd(), versionCmd())
	return root
}

func initConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cfgViper, cfgFile)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	appConfig = cfg
	return nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := appConfig.Validate(); err != nil {
				return fmt.Errorf("invalid configuration:\n%w", err)
			}
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	pool, err := connectWithRetry(ctx, appConfig.DatabaseURL, appConfig.DBRetries)
	if err != nil {
		return err
	}
	defer pool.Close()

	slog.Info("Running database migrations...")
	if err := db.RunMigrations(appConfig.DatabaseURL); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}
	if version, dirty, err := db.MigrationVersion(appConfig.DatabaseURL); err == nil {
		slog.Info("Database migrations completed", "version", version, "dirty", dirty)
	}

	queries = store.NewStore(pool)

	uploads, err = ocr.NewDiskStorage(appConfig.UploadDir)
	if err != nil {
		return err
	}

	visionClient, err = ocr.NewClient(appConfig.Vision)
	if errors.Is(err, ocr.ErrNotConfigured) {
		slog.Warn("Vision API key not set, receipt processing is disabled")
		visionClient = nil
	} else if err != nil {
		return err
	}

	gin.SetMode(appConfig.GinMode)
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(appConfig.Port),
		Handler:           setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "port", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("Server stopped gracefully")
	return nil
}

// connectWithRetry waits for Postgres to accept connections
func connectWithRetry(ctx context.Context, databaseURL string, maxRetries int) (*pgxpool.Pool, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		pool, err := pgxpool.New(ctx, databaseURL)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				slog.Info("Successfully connected to database")
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err
		slog.Warn("Error connecting to database", "attempt", i+1, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(dbRetryInterval):
		}
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, lastErr)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := db.RunMigrations(appConfig.DatabaseURL); err != nil {
				return err
			}
			slog.Info("Migrations applied")
			return nil
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := db.RollbackMigrations(appConfig.DatabaseURL, steps); err != nil {
				return err
			}
			slog.Info("Migrations rolled back", "steps", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			version, dirty, err := db.MigrationVersion(appConfig.DatabaseURL)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		},
	})

	return cmd
}

func tokenCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a token for an existing user (development helper)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			pool, err := connectWithRetry(cmd.Context(), appConfig.DatabaseURL, 1)
			if err != nil {
				return err
			}
			defer pool.Close()

			user, err := store.NewStore(pool).GetUserByEmail(cmd.Context(), normalizeEmail(email))
			if err != nil {
				return fmt.Errorf("lookup user %s: %w", email, err)
			}
			token, err := generateToken(user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the user")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "finanzas %s\n", version)
		},
	}
}

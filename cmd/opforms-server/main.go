package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/opforms/opforms/internal/config"
	"github.com/opforms/opforms/internal/domain/checkin"
	"github.com/opforms/opforms/internal/domain/form"
	"github.com/opforms/opforms/internal/domain/identity"
	"github.com/opforms/opforms/internal/domain/provider"
	"github.com/opforms/opforms/internal/platform/auth"
	"github.com/opforms/opforms/internal/platform/db"
	"github.com/opforms/opforms/internal/platform/middleware"
	"github.com/opforms/opforms/internal/platform/telemetry"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "opforms-server",
		Short: "Surgery center chart forms API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(clinicCmd())
	rootCmd.AddCommand(userCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the chart forms API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory (default from config)")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory (default from config)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func clinicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clinic",
		Short: "Manage clinics",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new clinic",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := identityService(cfg, pool)
			clinic, err := svc.CreateClinic(ctx, name)
			if err != nil {
				return err
			}
			fmt.Printf("Clinic created: %s (%s)\n", clinic.Name, clinic.ID)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Clinic display name")

	cmd.AddCommand(createCmd)
	return cmd
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			clinicID, _ := cmd.Flags().GetString("clinic")
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			fullName, _ := cmd.Flags().GetString("full-name")
			role, _ := cmd.Flags().GetString("role")
			if clinicID == "" || username == "" || password == "" {
				return fmt.Errorf("--clinic, --username and --password are required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := identityService(cfg, pool)
			user, err := svc.CreateUser(ctx, clinicID, username, password, fullName, role)
			if err != nil {
				return err
			}
			fmt.Printf("User created: %s (%s, role %s)\n", user.Username, user.ID, user.Role)
			return nil
		},
	}
	createCmd.Flags().String("clinic", "", "Clinic identifier")
	createCmd.Flags().String("username", "", "Login username")
	createCmd.Flags().String("password", "", "Initial password")
	createCmd.Flags().String("full-name", "", "Display name")
	createCmd.Flags().String("role", identity.RoleNurse, "Role (admin, physician, nurse)")

	cmd.AddCommand(createCmd)
	return cmd
}

func jwtConfig(cfg *config.Config) auth.JWTConfig {
	return auth.JWTConfig{
		Issuer:     "opforms",
		Audience:   "opforms-api",
		SigningKey: []byte(cfg.JWTSecret),
	}
}

func identityService(cfg *config.Config, pool *pgxpool.Pool) *identity.Service {
	return identity.NewService(identity.NewRepoPG(pool), jwtConfig(cfg),
		time.Duration(cfg.TokenTTLHours)*time.Hour)
}

// recordGauges refreshes the pool and per-form record gauges exposed on
// /metrics until ctx is cancelled.
func recordGauges(ctx context.Context, pool *pgxpool.Pool, tp *telemetry.TelemetryProvider, formSvc *form.Service, clinic string) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	health := tp.HealthMetrics()
	clinicCtx := context.WithValue(ctx, db.ClinicIDKey, clinic)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		stats := db.GetPoolStats(pool)
		health.SetDBPoolActive(int64(stats.AcquiredConns))
		health.SetDBPoolIdle(int64(stats.IdleConns))

		counts, err := formSvc.RecordCounts(clinicCtx)
		if err != nil {
			continue
		}
		var total int64
		for _, n := range counts {
			total += int64(n)
		}
		health.SetFormRecordsTotal(total)
	}
}

type services struct {
	identity *identity.Service
	checkin  *checkin.Service
	form     *form.Service
	provider *provider.Service
}

func newServices(cfg *config.Config, pool *pgxpool.Pool) services {
	checkinSvc := checkin.NewService(checkin.NewRepoPG(pool))
	return services{
		identity: identityService(cfg, pool),
		checkin:  checkinSvc,
		form:     form.NewService(form.NewRepoPG(pool), checkinSvc),
		provider: provider.NewService(provider.NewRepoPG(pool)),
	}
}

// newServer wires the echo app. Login, health, and metrics are mounted on the
// root with only the global middleware; everything under /api/v1 additionally
// goes through auth, clinic scoping, audit, and rate limiting, so the token
// endpoint stays reachable without a token.
func newServer(cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger, tp *telemetry.TelemetryProvider, svcs services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Sanitize())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "X-Clinic-ID"},
	}))
	e.Use(tp.TracingMiddleware())
	e.Use(tp.MetricsMiddleware())

	// Public surface: login, health, metrics
	identity.NewHandler(svcs.identity).RegisterRoutes(e)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))
	e.GET("/metrics", tp.PrometheusHandler())

	// Protected API surface
	apiV1 := e.Group("/api/v1")
	if cfg.IsDev() {
		apiV1.Use(auth.DevAuthMiddleware(cfg.DefaultClinic))
	} else {
		apiV1.Use(auth.JWTMiddleware(jwtConfig(cfg)))
	}
	apiV1.Use(db.ClinicMiddleware(pool, cfg.DefaultClinic))
	apiV1.Use(middleware.Audit(logger))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	form.NewHandler(svcs.form).RegisterRoutes(apiV1)
	checkin.NewHandler(svcs.checkin).RegisterRoutes(apiV1)
	provider.NewHandler(svcs.provider).RegisterRoutes(apiV1)

	return e
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Telemetry
	tp := telemetry.NewTelemetryProvider(telemetry.TelemetryConfig{
		ServiceName:    "opforms",
		ServiceVersion: version,
		Environment:    cfg.Env,
	})
	defer tp.Shutdown(ctx)

	svcs := newServices(cfg, pool)
	e := newServer(cfg, pool, logger, tp, svcs)

	// Pool and record gauges for /metrics
	gaugeCtx, cancelGauges := context.WithCancel(ctx)
	defer cancelGauges()
	go recordGauges(gaugeCtx, pool, tp, svcs.form, cfg.DefaultClinic)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

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
	"text/tabwriter"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/otcheredev/lims-admin-console/internal/apiclient"
	"github.com/otcheredev/lims-admin-console/internal/cache"
	"github.com/otcheredev/lims-admin-console/internal/config"
	"github.com/otcheredev/lims-admin-console/internal/crud"
	"github.com/otcheredev/lims-admin-console/internal/database"
	"github.com/otcheredev/lims-admin-console/internal/handlers"
	"github.com/otcheredev/lims-admin-console/internal/identity"
	"github.com/otcheredev/lims-admin-console/internal/middleware"
	"github.com/otcheredev/lims-admin-console/internal/repository"
	"github.com/otcheredev/lims-admin-console/internal/screens"
	"github.com/otcheredev/lims-admin-console/internal/services"
	"github.com/otcheredev/lims-admin-console/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const loginPath = "/login"

func main() {
	rootCmd := &cobra.Command{
		Use:   "lims-admin",
		Short: "LIMS tenant administration console",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(screensCmd())
	rootCmd.AddCommand(listCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admin console server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

func runServer(cfg *config.Config) error {
	log.Info().Str("api", cfg.API.BaseURL).Msg("Starting LIMS admin console")

	// Session storage
	var cacheImpl cache.Cache
	if cfg.Cache.Type == "redis" {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		redisCache, err := cache.NewRedisCache(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		cacheImpl = redisCache
		log.Info().Str("addr", addr).Msg("Redis session store initialized")
	} else {
		cacheImpl = cache.NewMemoryCache()
		log.Info().Msg("Memory session store initialized")
	}
	defer cacheImpl.Close()

	// Audit trail
	var (
		recorder crud.Recorder
		dbPing   func() error
	)
	if cfg.Database.Enabled {
		db, err := database.Connect(database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
			LogLevel: cfg.Database.LogLevel,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		recorder = repository.NewAuditRepository(db)
		dbPing = database.Ping
	} else {
		log.Info().Msg("Audit database disabled")
	}

	// Services
	apiCfg := apiclient.Config{
		BaseURL:     cfg.API.BaseURL,
		RefreshPath: cfg.API.RefreshPath,
		Timeout:     cfg.API.Timeout,
	}
	auth := apiclient.New(apiCfg, apiclient.NewMemoryTokens("", ""))
	sessions := services.NewSessionService(cacheImpl, auth, services.SessionConfig{
		TTL:       cfg.Session.TTL,
		LoginPath: cfg.API.LoginPath,
		Defaults: identity.Defaults{
			TenantID:  cfg.Defaults.TenantID,
			UserID:    cfg.Defaults.UserID,
			UserEmail: cfg.Defaults.UserEmail,
		},
	})
	console := services.NewConsoleService(sessions, services.NewScreenRegistry(), apiCfg, services.ScreenOptions{
		BannerTTL:      cfg.Screen.BannerTTL,
		PasswordLength: cfg.Screen.PasswordLength,
		SweepInterval:  cfg.Screen.SweepInterval,
	}, recorder)
	defer console.Close()

	// Handlers
	views, err := handlers.LoadViews()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	cookie := handlers.CookieConfig{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.Secure,
	}
	healthHandler := handlers.NewHealthHandler(cacheImpl, dbPing)
	authHandler := handlers.NewAuthHandler(sessions, console, cookie, views)
	screenHandler := handlers.NewScreenHandler(console, cookie, loginPath, views)

	// Setup router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Compress(5))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/tenant-admin/", http.StatusSeeOther)
	})
	r.Get(loginPath, authHandler.LoginForm)
	r.Post(loginPath, authHandler.Login)
	r.Post("/logout", authHandler.Logout)

	r.Route("/tenant-admin", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session.CookieName, loginPath, sessions, console))
		screenHandler.Mount(r)
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}

func screensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "screens",
		Short: "List the available admin screens",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range screens.Names() {
				def, _ := screens.Lookup(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", def.Name, def.Title)
			}
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	var (
		accessToken  string
		refreshToken string
		tenantID     string
		search       string
	)

	cmd := &cobra.Command{
		Use:   "list <screen>",
		Short: "Print a screen's table using an API access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			def, ok := screens.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown screen %q, expected one of: %s", args[0], strings.Join(screens.Names(), ", "))
			}
			if accessToken == "" {
				accessToken = os.Getenv("LIMS_ACCESS_TOKEN")
			}
			if accessToken == "" {
				return errors.New("an access token is required (--token or LIMS_ACCESS_TOKEN)")
			}
			if tenantID == "" {
				tenantID = cfg.Defaults.TenantID
			}

			client := apiclient.New(apiclient.Config{
				BaseURL:     cfg.API.BaseURL,
				RefreshPath: cfg.API.RefreshPath,
				Timeout:     cfg.API.Timeout,
			}, apiclient.NewMemoryTokens(accessToken, refreshToken))

			ctl := def.Build(screens.Deps{
				Client:         client,
				Identity:       identity.Context{TenantID: tenantID},
				PasswordLength: cfg.Screen.PasswordLength,
			})
			defer ctl.Close()

			if err := ctl.Load(cmd.Context(), crud.Query{Search: search}); err != nil {
				return fmt.Errorf("failed to load %s: %s", def.Name, crud.DisplayMessage(err))
			}
			printView(cmd, ctl.View())
			return nil
		},
	}

	cmd.Flags().StringVar(&accessToken, "token", "", "API access token (defaults to $LIMS_ACCESS_TOKEN)")
	cmd.Flags().StringVar(&refreshToken, "refresh-token", os.Getenv("LIMS_REFRESH_TOKEN"), "API refresh token")
	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant id (defaults to the configured tenant)")
	cmd.Flags().StringVar(&search, "search", "", "filter rows by search term")
	return cmd
}

func printView(cmd *cobra.Command, v crud.View) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d of %d)\n", v.Title, len(v.Rows), v.Total)
	for _, s := range v.Stats {
		fmt.Fprintf(out, "  %s: %s\n", s.Label, s.Value)
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t"+strings.Join(v.Columns, "\t"))
	for _, row := range v.Rows {
		fmt.Fprintln(tw, row.ID+"\t"+strings.Join(row.Cells, "\t"))
	}
	tw.Flush()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/auth"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/cache"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/config"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/handlers"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/logging"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/media"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/routes"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/storefront"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig()

	flagSet := pflag.NewFlagSet("artwall", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	flagSet.StringVar(&cfg.Backend, "backend", cfg.Backend, "record backend: memory, mongo, rest or mysql")
	flagSet.BoolVar(&cfg.DevMode, "dev", cfg.DevMode, "development mode: console logs and demo data")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}

	log := logging.New(cfg.LogLevel, cfg.DevMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	uploader, err := media.New(cfg.CloudinaryURL, log)
	if err != nil {
		return err
	}

	sessions := cache.New(ctx, cfg.SessionTTL)
	accounts := auth.New(store, sessions,
		auth.WithAdminEmails(cfg.AdminEmails...),
		auth.WithSessionTTL(cfg.SessionTTL),
		auth.WithLogger(log),
	)
	shop := storefront.New(store,
		storefront.WithFeaturedLimit(cfg.FeaturedLimit),
		storefront.WithUploader(uploader),
		storefront.WithLogger(log),
	)
	if cfg.DevMode {
		if err := shop.SeedDemo(ctx); err != nil {
			log.Warn().Err(err).Msg("demo seed failed")
		}
	}

	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), handlers.RequestLogger(log))
	tmpl, err := handlers.LoadTemplates()
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	routes.RegisterRoutes(router, routes.Deps{
		Shop:          shop,
		Auth:          accounts,
		Log:           log,
		Timeout:       cfg.RequestTimeout,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: !cfg.DevMode,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("backend", cfg.Backend).Msg("🚀 Server running on port " + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("🛑 shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}


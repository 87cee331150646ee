package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rsvp_server/config"
	"rsvp_server/controllers"
	"rsvp_server/routes"
	"rsvp_server/services"
	"rsvp_server/telemetry"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:           "rsvp-server",
		Short:         "Party RSVP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			loaded, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			*cfg = loaded
			telemetry.InitLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), *cfg)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), *cfg)
		},
	})
	cmd.AddCommand(newExportCommand(cfg))

	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTelServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown tracing")
		}
	}()

	store, err := services.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	publisher, closePublisher, err := services.OpenPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePublisher()

	loc, err := cfg.ExportLocation()
	if err != nil {
		return err
	}

	adminService := services.NewAdminService(store, loc)
	adminController := &controllers.AdminController{AdminService: adminService}
	if cfg.ExportBucket != "" {
		s3Client, err := services.NewS3Client(ctx, cfg.AWSRegion)
		if err != nil {
			return err
		}
		adminController.ExportService = services.NewExportService(adminService, s3Client, cfg.ExportBucket, cfg.PresignTTL)
		log.Info().Str("bucket", cfg.ExportBucket).Msg("s3 export archive enabled")
	}

	handler := routes.NewRouter(routes.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
		RateLimit:      cfg.RateLimit,
		ServiceName:    cfg.OTelServiceName,
	}, routes.Services{
		Party: &controllers.PartyController{
			PartyService:  services.NewPartyService(store, publisher),
			PublicBaseURL: cfg.PublicBaseURL,
		},
		RSVP:  &controllers.RSVPController{RSVPService: services.NewRSVPService(store, publisher)},
		Admin: adminController,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"

	"metrograph.onebusaway.org/internal/app"
	"metrograph.onebusaway.org/internal/appconf"
	"metrograph.onebusaway.org/internal/gtfs"
	"metrograph.onebusaway.org/internal/logging"
	"metrograph.onebusaway.org/internal/metrics"
	"metrograph.onebusaway.org/internal/presentation"
	"metrograph.onebusaway.org/internal/restapi"
	"metrograph.onebusaway.org/internal/webui"
)

func main() {
	if err := appconf.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	s, err := parseSettings(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, logCloser := logging.NewLogger(s.level, s.logFile)
	err = run(s, logger)
	if err != nil {
		logging.LogError(logger, "server stopped", err)
	}
	logging.SafeCloseWithLogging(logCloser, logger, "log file")
	if err != nil {
		os.Exit(1)
	}
}

// newApplication loads the network and wires the shared dependencies.
func newApplication(s settings, logger *slog.Logger) (*app.Application, error) {
	collector := metrics.New()
	s.gtfs.Logger = logger
	s.gtfs.Metrics = collector

	gtfsManager, err := gtfs.InitGTFSManager(s.gtfs)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GTFS manager: %w", err)
	}

	return &app.Application{
		Config:      s.app,
		GtfsConfig:  s.gtfs,
		Logger:      logger,
		GtfsManager: gtfsManager,
		Metrics:     collector,
		Palette:     presentation.DefaultPalette().With(s.colors),
	}, nil
}

// newHandler mounts the API and, outside production, the debug pages.
func newHandler(application *app.Application) (http.Handler, func()) {
	api := restapi.NewRestAPI(application)
	if application.Config.Env == appconf.Production {
		return api.Handler(), api.Shutdown
	}

	router := httprouter.New()
	ui := &webui.WebUI{Application: application}
	ui.SetWebUIRoutes(router)
	router.NotFound = api.RoutesHandler()
	return api.WithMiddleware(router), api.Shutdown
}

func run(s settings, logger *slog.Logger) error {
	application, err := newApplication(s, logger)
	if err != nil {
		return err
	}
	defer application.GtfsManager.Shutdown()

	application.GtfsManager.PrintStatistics()

	handler, stopAPI := newHandler(application)
	defer stopAPI()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.app.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", s.app.Env.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"olga/internal/controllers"
	"olga/internal/providers"
	"olga/internal/statistic"
	"olga/internal/statistic/interfaces"
	"olga/internal/structures"
)

type App struct {
	WebServer   *http.Server
	conf        *structures.Config
	logger      providers.Logger
	scheduler   interfaces.SchedulerInterface
	fileManager *statistic.FileManager
}

func NewApp(healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, fileManager *statistic.FileManager, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	// Inner mux: application routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	instrumented := providers.Chain(
		providers.RequestLoggerMiddleware(logger),
		providers.CompressionMiddleware(),
		providers.MetricsMiddleware(metrics),
	)(apiMux)

	// Outer mux: infrastructure + instrumented application routes
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumented)

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	if err := scheduler.Restore(); err != nil {
		return nil, fmt.Errorf("restore error: %w", err)
	}

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		conf:        conf,
		logger:      logger,
		scheduler:   scheduler,
		fileManager: fileManager,
	}, nil
}

// Run serves until SIGINT/SIGTERM or a server error, then shuts down and
// writes the final snapshot.
func (a *App) Run() error {
	defer a.logger.Close()
	defer a.fileManager.Close()

	a.scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-stop:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	a.scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.WebServer.Shutdown(ctx); err != nil && runErr == nil {
		runErr = err
	}
	if err := a.scheduler.Persist(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr == nil {
		a.logger.Infof(providers.TypeApp, "gracefully stopped")
	}
	return runErr
}

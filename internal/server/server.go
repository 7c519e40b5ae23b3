package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"time"

	"github.com/emrgen/notes/internal/config"
	"github.com/emrgen/notes/internal/jobs"
	"github.com/gobuffalo/packr"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

const docsPath = "/v1/docs/"

// Server serves the http api and runs the maintenance jobs.
type Server struct {
	app *App
}

// NewServer creates a new server
func NewServer(app *App) *Server {
	return &Server{app: app}
}

// Start starts the server with the given config and blocks until it is interrupted.
func Start(cfg *config.Config) error {
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	defer stop()

	return NewServer(app).Run(ctx)
}

// Router builds the echo instance serving every route.
func (s *Server) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(RequestTimeMiddleware())

	api := e.Group("/api", UserScopeMiddleware())
	NewHandler(s.app.Notes, s.app.Profiles).Register(api)
	api.GET("/health", s.health)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.app.Registry, promhttp.HandlerOpts{})))

	openapiDocs := packr.NewBox("../../docs/v1")
	e.GET(docsPath+"*", echo.WrapHandler(http.StripPrefix(docsPath, http.FileServer(openapiDocs))))

	return e
}

func (s *Server) health(c echo.Context) error {
	sqlDB, err := s.app.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Run serves until ctx is done, then shuts the http server and the jobs down.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.app.Config
	addr := ":" + strconv.Itoa(cfg.HTTP.Port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.HTTP.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PUT"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", userIDHeader},
		AllowCredentials: true,
	})

	restServer := &http.Server{
		Handler:           c.Handler(s.Router()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	executor, refresher, err := s.jobs()
	if err != nil {
		_ = listener.Close()
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logrus.Info("starting http server on: ", addr)
		logrus.Info("click on the following link to view the API documentation: http://localhost", addr, docsPath)
		if err := restServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		logrus.Infof("http server stopped")
		return nil
	})

	if refresher != nil {
		g.Go(func() error {
			refresher.Run()
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		// clean Ctrl+C output
		fmt.Println()

		if executor != nil {
			executor.Stop()
		}
		if refresher != nil {
			refresher.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := restServer.Shutdown(shutdownCtx); err != nil {
			logrus.Errorf("error stopping http server: %v", err)
		}
		return nil
	})

	logrus.Infof("Press Ctrl+C to stop the server")
	return g.Wait()
}

// jobs starts the cron jobs and returns the dictionary refresher when the
// offline extractor is in use.
func (s *Server) jobs() (*jobs.TaskExecutor, *jobs.DictionaryRefresher, error) {
	cfg := s.app.Config

	refresher := s.app.dictionaryRefresher()

	if !cfg.Jobs.Enabled {
		return nil, refresher, nil
	}

	cronJobs := []jobs.CronJob{
		jobs.NewOrphanSweepTask(s.app.Sync, cfg.Jobs.OrphanSweep, cfg.Jobs.OrphanGrace),
	}
	// without a summarizer there is nothing to retry
	if cfg.LLM.Provider == "openai" {
		cronJobs = append(cronJobs, jobs.NewStaleRefreshTask(s.app.Store, s.app.Sync, cfg.Jobs.StaleRefresh, cfg.Jobs.StaleAge))
	}

	executor := jobs.NewTaskExecutor(nil, cronJobs)
	if err := executor.Run(); err != nil {
		return nil, nil, err
	}

	return executor, refresher, nil
}

package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"rideway/internal/config"
	"rideway/internal/fleet-service/adapters/driven/bm"
	"rideway/internal/fleet-service/adapters/driven/db"
	"rideway/internal/fleet-service/adapters/driver/myhttp/handle"
	"rideway/internal/fleet-service/adapters/driver/myhttp/middleware"
	"rideway/internal/fleet-service/core/services"
	"rideway/internal/mylogger"
)

const WaitTime = 10

const (
	roleDriver = "DRIVER"
	roleAdmin  = "ADMIN"
	roleRider  = "RIDER"
)

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	db     *db.DB
	mb     *bm.RabbitMQ
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
	wg     sync.WaitGroup
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	return &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}
}

// Run initializes routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	// Initialize database connection
	db, err := db.New(s.ctx, s.cfg.DB, mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	mylog.Info("Successful database connection")

	// Initialize RabbitMQ connection
	mb, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	mylog.Info("Successful message broker connection")

	// Configure routes and handlers
	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.FleetServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.FleetServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	s.wg.Wait()

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close message broker", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Info("Database closed")
	}

	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure wires repositories, services and handlers, then registers routes.
func (s *Server) Configure() {
	// Repositories
	driversRepo := db.NewDriversRepo(s.db)
	vehiclesRepo := db.NewVehiclesRepo(s.db)

	// services
	fleetService := services.NewFleetService(s.appCtx, s.mylog, driversRepo, vehiclesRepo, s.mb)
	vehiclesService := services.NewVehiclesService(s.appCtx, s.mylog, vehiclesRepo)

	// handlers
	fleetHandler := handle.NewFleetHandler(fleetService, s.mylog)
	vehiclesHandler := handle.NewVehiclesHandler(vehiclesService, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.App.JwtSecret)

	// Register routes
	s.mux.Handle("POST /drivers", authMiddleware.Wrap(fleetHandler.CreateDriver(), roleAdmin))
	s.mux.Handle("GET /drivers/{driver_id}", authMiddleware.Wrap(fleetHandler.GetDriver(), roleAdmin, roleDriver))
	s.mux.Handle("PATCH /drivers/{driver_id}/status", authMiddleware.Wrap(fleetHandler.ChangeDriverStatus(), roleAdmin))
	s.mux.Handle("PUT /drivers/{driver_id}/vehicle", authMiddleware.Wrap(fleetHandler.AssignVehicle(), roleAdmin))
	s.mux.Handle("DELETE /drivers/{driver_id}/vehicle", authMiddleware.Wrap(fleetHandler.UnassignVehicle(), roleAdmin))
	s.mux.Handle("GET /drivers/match", authMiddleware.Wrap(fleetHandler.Match(), roleAdmin, roleRider))
	s.mux.Handle("POST /drivers/location", authMiddleware.Wrap(fleetHandler.PingLocation(), roleDriver))

	s.mux.Handle("POST /vehicles", authMiddleware.Wrap(vehiclesHandler.CreateVehicle(), roleAdmin))
	s.mux.Handle("GET /vehicles/{vehicle_id}", authMiddleware.Wrap(vehiclesHandler.GetVehicle(), roleAdmin))
}

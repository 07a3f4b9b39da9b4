package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"rideway/internal/config"
	"rideway/internal/mylogger"
	"rideway/internal/ride-service/adapters/driven/bm"
	"rideway/internal/ride-service/adapters/driven/consumer"
	"rideway/internal/ride-service/adapters/driven/db"
	"rideway/internal/ride-service/adapters/driver/myhttp/handle"
	"rideway/internal/ride-service/adapters/driver/myhttp/middleware"
	"rideway/internal/ride-service/adapters/driver/myhttp/ws"
	domain "rideway/internal/ride-service/core/domain/model"
	"rideway/internal/ride-service/core/services"
)

const WaitTime = 10

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
	if err := s.Configure(); err != nil {
		return fmt.Errorf("failed to configure server: %w", err)
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.RideServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.RideServicePort)

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
func (s *Server) Configure() error {
	// Repositories
	ridesRepo := db.NewRidesRepo(s.db)
	driverDirectory := db.NewDriverDirectoryRepo(s.db)

	// services
	fareService := services.NewFareService(services.DefaultTariffs())
	dispatcher := ws.NewDispatcher(s.mylog)
	ridesService := services.NewRidesService(s.appCtx, s.mylog, fareService, ridesRepo, driverDirectory, s.mb, dispatcher)

	// handlers
	ridesHandler := handle.NewRidesHandler(ridesService, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.App.JwtSecret)

	// Consumer forwarding driver locations to rider websockets
	notification := consumer.New(s.appCtx, s.mylog, dispatcher, s.mb, ridesService)
	if err := notification.Run(); err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	// Register routes
	s.mux.Handle("POST /rides/estimate", authMiddleware.Wrap(ridesHandler.Estimate(), domain.RoleRider))
	s.mux.Handle("POST /rides/order", authMiddleware.Wrap(ridesHandler.OrderRide(), domain.RoleRider))
	s.mux.Handle("GET /rides/active", authMiddleware.Wrap(ridesHandler.ActiveRide(), domain.RoleRider, domain.RoleDriver))
	s.mux.Handle("GET /rides/{ride_id}", authMiddleware.Wrap(ridesHandler.GetRide(), domain.RoleRider, domain.RoleDriver, domain.RoleAdmin))
	s.mux.Handle("PATCH /rides/{ride_id}/status", authMiddleware.Wrap(ridesHandler.ChangeStatus(), domain.RoleRider, domain.RoleDriver, domain.RoleAdmin))
	s.mux.Handle("POST /rides/{ride_id}/accept", authMiddleware.Wrap(ridesHandler.AcceptRide(), domain.RoleDriver))
	s.mux.Handle("POST /rides/{ride_id}/decline", authMiddleware.Wrap(ridesHandler.DeclineRide(), domain.RoleDriver))
	s.mux.Handle("POST /rides/{ride_id}/rate", authMiddleware.Wrap(ridesHandler.RateRide(), domain.RoleRider))

	// admin routes
	s.mux.Handle("PUT /admin/rides/{ride_id}/assign", authMiddleware.Wrap(ridesHandler.AssignDriver(), domain.RoleAdmin))
	s.mux.Handle("GET /admin/rides/active", authMiddleware.Wrap(ridesHandler.ListActiveRides(), domain.RoleAdmin))

	// websocket routes
	s.mux.Handle("/ws/riders/{rider_id}", dispatcher.WsHandler())

	return nil
}

// Package server defines the Server container that owns the app's
// long-lived dependencies and the HTTP server lifecycle.
//
// It owns:
//   - configuration and loggers
//   - the document store (postgres pool or mongo client)
//   - the redis client
//   - provider clients (lib.Clients)
//   - the optional asynq email worker
//   - the http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/coursegen/internal/config"
	"github.com/deppfellow/coursegen/internal/database"
	"github.com/deppfellow/coursegen/internal/lib"
	"github.com/deppfellow/coursegen/internal/lib/job"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/coursegen/internal/logger"
)

// Server is the application container. It is not the HTTP server itself.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	// Exactly one of DB and Mongo is set, following database.driver.
	DB    *database.Database
	Mongo *database.Mongo

	Redis   *redis.Client
	Clients *lib.Clients

	// Job is nil unless queued email delivery is enabled.
	Job *job.JobService

	httpServer *http.Server
}

// New connects every dependency and builds the provider clients.
//
// Redis is optional: a failed ping is logged and the media cache is
// disabled. The job worker is started only when queued email is enabled.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	ctx := context.Background()

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
	}

	switch cfg.Database.Driver {
	case config.DriverMongo:
		mongoDB, err := database.NewMongo(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mongo: %w", err)
		}
		server.Mongo = mongoDB
	default:
		db, err := database.New(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		server.DB = db
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})

	if loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheClient := redisClient
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without media cache")
		cacheClient = nil
	}
	server.Redis = redisClient

	clients, err := lib.NewClients(ctx, cfg, cacheClient, logger)
	if err != nil {
		server.closeStores(ctx)
		return nil, fmt.Errorf("failed to initialize provider clients: %w", err)
	}
	server.Clients = clients

	if cfg.Integration.Email.QueueEnabled {
		jobService := job.NewJobService(logger, cfg, clients.Email)
		if err := jobService.Start(); err != nil {
			server.closeStores(ctx)
			return nil, fmt.Errorf("failed to start job server: %w", err)
		}
		server.Job = jobService
	}

	return server, nil
}

// SetupHTTPServer configures the http.Server around handler.
// Config timeouts are seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("database", s.Config.Database.Driver).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server, then the workers, then the stores.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	return s.closeStores(ctx)
}

func (s *Server) closeStores(ctx context.Context) error {
	var errs []error

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	if s.Mongo != nil {
		if err := s.Mongo.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close mongo connection: %w", err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis connection: %w", err))
		}
	}

	return errors.Join(errs...)
}

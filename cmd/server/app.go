package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrtrack/hrtrack-api/internal/config"
	"github.com/hrtrack/hrtrack-api/internal/domain/pk"
	"github.com/hrtrack/hrtrack-api/internal/events"
	"github.com/hrtrack/hrtrack-api/internal/platform/cache"
	"github.com/hrtrack/hrtrack-api/internal/platform/postgres"
	"github.com/hrtrack/hrtrack-api/internal/service"
	"github.com/hrtrack/hrtrack-api/internal/service/auth"
	"github.com/hrtrack/hrtrack-api/internal/transfer"
)

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *cache.RedisCache

	services routerServices
}

// routerServices is everything the router needs to build handlers.
type routerServices struct {
	users            service.UserService
	doses            service.DoseService
	labs             service.LabService
	profiles         service.ProfileService
	simulation       service.SimulationService
	transfer         service.TransferService
	backups          service.BackupService
	model            pk.Service
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	authConfig       *config.AuthConfig
}

// newApplication connects to the database and cache and builds every service.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{config: cfg, logger: logger}

	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	app.db = db

	simCache, err := app.setupCache(ctx)
	if err != nil {
		app.cleanup()
		return nil, err
	}

	services, err := app.buildServices(simCache)
	if err != nil {
		app.cleanup()
		return nil, err
	}
	app.services = services
	return app, nil
}

// setupCache prefers Redis when enabled and falls back to the in-process
// cache when it is disabled or unreachable.
func (app *application) setupCache(ctx context.Context) (cache.SimulationCache, error) {
	if !app.config.Redis.Enabled {
		app.logger.Info("using in-memory simulation cache")
		return cache.NewMemoryCache(), nil
	}

	rc := cache.NewRedisCache(cache.NewRedisClient(app.config.Redis))
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		_ = rc.Close()
		app.logger.Warn("redis unavailable, using in-memory simulation cache",
			slog.String("addr", app.config.Redis.Addr),
			slog.String("error", err.Error()))
		return cache.NewMemoryCache(), nil
	}

	app.redis = rc
	app.logger.Info("using redis simulation cache", slog.String("addr", app.config.Redis.Addr))
	return rc, nil
}

func (app *application) buildServices(simCache cache.SimulationCache) (routerServices, error) {
	cfg := app.config
	logger := app.logger

	params := pk.NewParams(pk.ParamsConfig{
		StepHours:      cfg.Simulation.StepHours,
		HorizonHours:   cfg.Simulation.HorizonHours,
		PatchWearHours: cfg.Simulation.PatchWearHours,
	})
	model := pk.NewServiceWithParams(params)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewCacheInvalidationHandler(simCache))

	userStore := postgres.NewPostgresUserStore(app.db, cfg.Auth.BCryptCost, logger)
	doseStore := postgres.NewPostgresDoseStore(app.db, logger)
	labStore := postgres.NewPostgresLabStore(app.db, logger)
	profileStore := postgres.NewPostgresProfileStore(app.db, logger)
	backupStore := postgres.NewPostgresBackupStore(app.db, logger)

	var s routerServices
	var err error

	s.model = model
	s.authConfig = &cfg.Auth
	s.passwordVerifier = auth.NewBcryptVerifier()
	if s.jwtService, err = auth.NewJWTService(cfg.Auth); err != nil {
		return s, fmt.Errorf("failed to create JWT service: %w", err)
	}

	s.users = service.NewUserService(userStore, app.db, logger)
	if s.doses, err = service.NewDoseService(doseStore, model, emitter, logger); err != nil {
		return s, fmt.Errorf("failed to create dose service: %w", err)
	}
	if s.labs, err = service.NewLabService(labStore, emitter, logger); err != nil {
		return s, fmt.Errorf("failed to create lab service: %w", err)
	}
	if s.profiles, err = service.NewProfileService(profileStore, cfg.Simulation.DefaultWeightKG, emitter, logger); err != nil {
		return s, fmt.Errorf("failed to create profile service: %w", err)
	}

	ttl := time.Duration(cfg.Redis.TTLMinutes) * time.Minute
	if s.simulation, err = service.NewSimulationService(
		doseStore, labStore, s.profiles, model, logger,
		service.WithResultCache(simCache, ttl),
	); err != nil {
		return s, fmt.Errorf("failed to create simulation service: %w", err)
	}

	if s.transfer, err = service.NewTransferService(service.TransferDeps{
		DB:         app.db,
		Doses:      doseStore,
		Labs:       labStore,
		Profiles:   profileStore,
		Simulation: s.simulation,
		Sanitizer:  transfer.NewSanitizer(params, cfg.Transfer.PBKDF2Iterations),
		Iterations: cfg.Transfer.PBKDF2Iterations,
		Emitter:    emitter,
	}, logger); err != nil {
		return s, fmt.Errorf("failed to create transfer service: %w", err)
	}

	if s.backups, err = service.NewBackupService(backupStore, cfg.Transfer.MaxBackups, logger); err != nil {
		return s, fmt.Errorf("failed to create backup service: %w", err)
	}

	return s, nil
}

// run serves HTTP until a shutdown signal or ctx cancellation.
func (app *application) run(ctx context.Context) error {
	return app.startHTTPServer(ctx, newRouter(app.services, app.logger))
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("failed to close redis client", slog.String("error", err.Error()))
		}
	}
	if app.db != nil {
		app.logger.Info("closing database connection")
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
		}
	}
}

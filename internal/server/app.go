// Package server wires the authentication service together: configuration,
// database and migrations, the optional login throttle, and the HTTP server,
// with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/avoronova/postboard-auth/internal/logging"
	"github.com/avoronova/postboard-auth/internal/server/auth"
	"github.com/avoronova/postboard-auth/internal/server/config"
	"github.com/avoronova/postboard-auth/internal/server/limiter"
	"github.com/avoronova/postboard-auth/internal/server/repositories/repomanager"
	"github.com/avoronova/postboard-auth/internal/server/rest"
	"github.com/avoronova/postboard-auth/internal/server/services"
)

// openDB is a seam for testing NewApp without a running database.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService *services.AuthService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := openDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	codec, err := auth.NewCodec([]byte(cfg.SecretKey), cfg.Algorithm, cfg.AccessTokenValidityDuration)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("token codec error: %w", err)
	}

	var lim *limiter.LoginLimiter
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		lim = limiter.NewLoginLimiter(client, cfg.LoginMaxAttempts, cfg.LoginAttemptWindow)
	}

	as := services.NewAuthService(db, rm, codec, lim, logger, cfg.RefreshTokenValidityDuration)

	return &App{config: cfg, logger: logger, db: db, authService: as}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.EndpointAddrHTTP, app.authService, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}

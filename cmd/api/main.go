package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/shopfront/internal/application/appstate"
	"github.com/jhoicas/shopfront/internal/application/catalog"
	"github.com/jhoicas/shopfront/internal/application/notice"
	"github.com/jhoicas/shopfront/internal/application/profile"
	"github.com/jhoicas/shopfront/internal/domain/entity"
	"github.com/jhoicas/shopfront/internal/domain/repository"
	infracatalog "github.com/jhoicas/shopfront/internal/infrastructure/catalog"
	"github.com/jhoicas/shopfront/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/shopfront/internal/infrastructure/pdf"
	"github.com/jhoicas/shopfront/internal/infrastructure/postgres"
	"github.com/jhoicas/shopfront/internal/infrastructure/redisstore"
	"github.com/jhoicas/shopfront/internal/infrastructure/sqlitestore"
	httpRouter "github.com/jhoicas/shopfront/internal/interfaces/http"
	"github.com/jhoicas/shopfront/pkg/config"
	"github.com/jhoicas/shopfront/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("catalog", cfg.Catalog.Driver).
		Str("persist", cfg.Persist.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	// Redis solo si lo usa la persistencia o la caché del catálogo.
	var rdb *redis.Client
	if cfg.Persist.Driver == config.PersistRedis || cfg.Catalog.CacheTTL > 0 {
		rdb, err = redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		closers = append(closers, func() { _ = rdb.Close() })
	}

	source := buildCatalogSource(cfg)
	var cache httpRouter.CatalogCache
	if cfg.Catalog.CacheTTL > 0 {
		cached := redisstore.NewCachedCatalog(source, rdb, cfg.Catalog.CachePrefix, cfg.Catalog.CacheTTL, log.Component("catalog_cache"))
		source, cache = cached, cached
	}

	repo, closeRepo, err := buildStateRepository(ctx, cfg, rdb)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Persist.Driver).Msg("persistencia de estado")
	}
	closers = append(closers, closeRepo)

	gate := profile.NewStaticGate(map[string]string{
		entity.SourceCamera:  cfg.Profile.CameraPermission,
		entity.SourceGallery: cfg.Profile.GalleryPermission,
	})

	state := appstate.New(appstate.Deps{
		Catalog: catalog.NewStore(source, log.Component("catalog")),
		Profile: profile.NewStore(gate, cfg.Profile.UploadTick, log.Component("profile")),
		Notices: notice.NewCenter(cfg.Notice.TTL),
		Repo:    repo,
		Key:     cfg.Persist.Key,
		PDF:     infrapdf.NewCartSummaryGenerator(),
		Logger:  log.Component("appstate"),
	})

	restoreCtx, cancelRestore := context.WithTimeout(ctx, 5*time.Second)
	if err := state.Restore(restoreCtx); err != nil {
		log.Error().Err(err).Msg("no se pudo restaurar el estado persistido")
	}
	cancelRestore()

	// Primera página en segundo plano; el servidor arranca sin esperarla.
	state.Go(func(ctx context.Context) {
		if err := state.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("carga inicial del catálogo")
		}
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Shopfront API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		State:        state,
		Logger:       log.Component("http"),
		Service:      cfg.App.Name,
		CatalogCache: cache,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	state.Close()

	log.Info().Msg("aplicación detenida")
}

func buildCatalogSource(cfg *config.Config) repository.CatalogSource {
	if cfg.Catalog.Driver == config.CatalogHTTP {
		return infracatalog.NewHTTPSource(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, nil)
	}
	return infracatalog.NewSimulatedSource(cfg.Catalog.SimulatedDelay, cfg.Catalog.MaxPages)
}

// buildStateRepository elige el almacenamiento del estado persistido según PERSIST_DRIVER.
func buildStateRepository(ctx context.Context, cfg *config.Config, rdb *redis.Client) (repository.StateRepository, func(), error) {
	switch cfg.Persist.Driver {
	case config.PersistMemory:
		return memory.NewStateRepository(), func() {}, nil
	case config.PersistRedis:
		return redisstore.NewStateRepository(rdb), func() {}, nil
	case config.PersistPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		repo, err := postgres.NewStateRepository(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil
	case config.PersistSQLite:
		db, err := sqlitestore.Open(cfg.Persist.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo := sqlitestore.NewStateRepository(db)
		return repo, func() { _ = repo.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("driver de persistencia desconocido: %s", cfg.Persist.Driver)
	}
}

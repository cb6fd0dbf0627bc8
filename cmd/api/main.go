package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/estomatologia-api/internal/application/auth"
	"github.com/jhoicas/estomatologia-api/internal/application/inventory"
	"github.com/jhoicas/estomatologia-api/internal/application/usecase"
	"github.com/jhoicas/estomatologia-api/internal/domain/repository"
	"github.com/jhoicas/estomatologia-api/internal/infrastructure/filestore"
	"github.com/jhoicas/estomatologia-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/estomatologia-api/internal/infrastructure/pdf"
	"github.com/jhoicas/estomatologia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/estomatologia-api/internal/infrastructure/report"
	"github.com/jhoicas/estomatologia-api/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/estomatologia-api/internal/interfaces/http"
	"github.com/jhoicas/estomatologia-api/pkg/config"
	"github.com/jhoicas/estomatologia-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.Storage.Driver).Msg("abrir almacenamiento")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar almacenamiento")
		}
	}()

	m := metrics.New(metrics.Config{ServiceName: cfg.App.Name, Environment: cfg.App.Env})
	manager := inventory.NewManager(metrics.InstrumentStorage(store, m), log)
	reportUC := inventory.NewReportUseCase(manager,
		report.NewCSVRenderer(),
		report.NewJSONRenderer(),
		infrapdf.NewMarotoReportGenerator(),
	)
	gate := auth.NewGate(auth.Config{
		APIToken:     cfg.Auth.APIToken,
		APITokenHash: cfg.Auth.APITokenHash,
		JWTSecret:    cfg.Auth.JWTSecret,
		Issuer:       cfg.Auth.JWTIssuer,
		ExpMinutes:   cfg.Auth.Expiration,
	})
	if !gate.Enabled() {
		log.Warn().Msg("sin API_TOKEN ni JWT_SECRET: los endpoints de escritura quedan abiertos")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario Estomatología API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Manager:      manager,
		Reports:      reportUC,
		Hospitals:    usecase.NewHospitalUseCase(),
		Gate:         gate,
		Metrics:      m,
		Log:          log,
		AllowOrigins: cfg.CORS.AllowOrigins,
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

	log.Info().Msg("aplicación detenida")
}

// openStorage abre el backend elegido por STORAGE_DRIVER. No cambia en tiempo de ejecución.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		store, err := postgres.NewStore(ctx, pool, log)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	case config.DriverSQLite:
		return sqlite.New(cfg.Storage.SQLitePath, log)
	default:
		return filestore.New(cfg.Storage.DataDir, log)
	}
}

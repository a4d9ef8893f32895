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

	"github.com/protrack/protrack-api/internal/application/auth"
	"github.com/protrack/protrack-api/internal/application/catalog"
	"github.com/protrack/protrack-api/internal/application/inventory"
	"github.com/protrack/protrack-api/internal/application/reporting"
	"github.com/protrack/protrack-api/internal/application/staff"
	"github.com/protrack/protrack-api/internal/application/upload"
	"github.com/protrack/protrack-api/internal/application/workflow"
	"github.com/protrack/protrack-api/internal/infrastructure/events"
	"github.com/protrack/protrack-api/internal/infrastructure/export"
	infrapdf "github.com/protrack/protrack-api/internal/infrastructure/pdf"
	"github.com/protrack/protrack-api/internal/infrastructure/postgres"
	"github.com/protrack/protrack-api/internal/infrastructure/storage"
	httpRouter "github.com/protrack/protrack-api/internal/interfaces/http"
	"github.com/protrack/protrack-api/pkg/config"
	"github.com/protrack/protrack-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración del esquema")
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	donationRepo := postgres.NewDonationRepository(pool)
	accountingRepo := postgres.NewAccountingRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	healthChecks := map[string]httpRouter.HealthCheck{
		"postgres": func(ctx context.Context) error { return pool.Ping(ctx) },
	}

	// Notificaciones en tiempo real: sin REDIS_URL se publican en un no-op.
	var notifier workflow.ChangeNotifier = events.NopNotifier{}
	if cfg.Redis.URL != "" {
		rdb, err := events.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		notifier = events.NewRedisNotifier(rdb, cfg.Redis.Channel)
		healthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("channel", cfg.Redis.Channel).Msg("notificaciones Redis activas")
	}

	var store upload.BlobStore
	if cfg.Storage.Enabled() {
		s3Store, err := storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente de almacenamiento S3")
		}
		store = s3Store
		log.Info().Str("bucket", cfg.Storage.Bucket).Msg("almacenamiento de archivos activo")
	} else {
		log.Warn().Msg("STORAGE_BUCKET vacío: subida de imágenes deshabilitada")
	}

	reclassifier := catalog.NewReclassifier(productRepo, companyRepo, log.Component("catalog"))
	productUC := catalog.NewProductUseCase(productRepo, reclassifier, export.NewProductSheetParser(), log.Component("catalog"))
	movementUC := inventory.NewRecordMovementUseCase(txRunner, movementRepo, userRepo)
	requestUC := workflow.NewRequestUseCase(txRunner, productRepo, requestRepo, notifier, log.Component("workflow"))
	donationUC := workflow.NewDonationUseCase(donationRepo, requestUC)
	staffUC := staff.NewStaffUseCase(userRepo)
	reportUC := reporting.NewReportUseCase(reporting.Repositories{
		Products:   productRepo,
		Movements:  movementRepo,
		Accounting: accountingRepo,
		Transfers:  transferRepo,
		Requests:   requestRepo,
		Donations:  donationRepo,
		Users:      userRepo,
		Companies:  companyRepo,
	}, export.NewExcelRenderer(), infrapdf.NewInventoryPDFGenerator())
	uploadUC := upload.NewUploadUseCase(store, int64(cfg.Upload.MaxBytes), log.Component("upload"))
	authUC := auth.NewAuthUseCase(userRepo, txRunner, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	var metrics *httpRouter.Metrics
	if cfg.Metrics.Enabled {
		metrics = httpRouter.NewMetrics()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.Upload.MaxBytes + 1024*1024,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (requiere `swag init`)
	const swaggerFile = "./docs/swagger.json"
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "ProTrack API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("sin especificación OpenAPI, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		MovementUC:   movementUC,
		RequestUC:    requestUC,
		DonationUC:   donationUC,
		StaffUC:      staffUC,
		ReportUC:     reportUC,
		UploadUC:     uploadUC,
		Users:        userRepo,
		JWTSecret:    cfg.JWT.Secret,
		ServiceName:  cfg.App.Name,
		HealthChecks: healthChecks,
		Metrics:      metrics,
		Logger:       log.Component("http"),
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

package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/protrack/protrack-api/internal/application/auth"
	"github.com/protrack/protrack-api/internal/application/catalog"
	"github.com/protrack/protrack-api/internal/application/inventory"
	"github.com/protrack/protrack-api/internal/application/reporting"
	"github.com/protrack/protrack-api/internal/application/staff"
	"github.com/protrack/protrack-api/internal/application/upload"
	"github.com/protrack/protrack-api/internal/application/workflow"
	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/pkg/logger"
)

// HealthCheck verifica una dependencia externa (PostgreSQL, Redis).
type HealthCheck func(ctx context.Context) error

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductUC    *catalog.ProductUseCase
	MovementUC   *inventory.RecordMovementUseCase
	RequestUC    *workflow.RequestUseCase
	DonationUC   *workflow.DonationUseCase
	StaffUC      *staff.StaffUseCase
	ReportUC     *reporting.ReportUseCase
	UploadUC     *upload.UploadUseCase
	Users        UserLookup
	JWTSecret    string
	ServiceName  string
	HealthChecks map[string]HealthCheck
	Metrics      *Metrics // nil desactiva /metrics
	Logger       *logger.Logger
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	errs := errorMapper{log: deps.Logger}

	if deps.Logger != nil {
		app.Use(RequestLogger(deps.Logger))
	}
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", deps.Metrics.Handler())
	}
	app.Get("/health", healthHandler(deps.ServiceName, deps.HealthChecks))

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, errs)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret, deps.Users))

	products := protected.Group("/productos")
	productHandler := NewProductHandler(deps.ProductUC, errs)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/opciones", productHandler.FilterOptions)
	products.Post("/importar", productHandler.Import)
	products.Post("/reclasificar", productHandler.Reclassify)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	movements := protected.Group("/movimientos")
	movementHandler := NewMovementHandler(deps.MovementUC, errs)
	movements.Post("/", movementHandler.Record)
	movements.Get("/", movementHandler.List)

	requests := protected.Group("/solicitudes")
	requestHandler := NewRequestHandler(deps.RequestUC, errs)
	requests.Post("/", requestHandler.Create)
	requests.Get("/", requestHandler.List)
	requests.Get("/mias", requestHandler.ListMine)
	requests.Get("/revision", requestHandler.ReviewQueue)
	requests.Get("/resumen", requestHandler.Stats)
	requests.Post("/:id/aprobar", requestHandler.Approve)
	requests.Post("/:id/rechazar", requestHandler.Reject)
	requests.Post("/:id/delegar", requestHandler.Delegate)
	requests.Post("/:id/traslado", requestHandler.CoordinateTransfer)

	donations := protected.Group("/donaciones")
	donationHandler := NewDonationHandler(deps.DonationUC, errs)
	donations.Get("/", donationHandler.List)
	donations.Post("/:id/aprobar", donationHandler.Approve)
	donations.Post("/:id/rechazar", donationHandler.Reject)

	userHandler := NewUserHandler(deps.StaffUC, errs)
	protected.Get("/perfil", userHandler.Profile)
	protected.Put("/perfil", userHandler.UpdateProfile)

	users := protected.Group("/usuarios", RequireRole(entity.RoleDirectorGeneral, entity.RoleAdministrator))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
	users.Get("/:id/permisos", userHandler.Permissions)
	users.Put("/:id/permisos", userHandler.UpdatePermissions)

	uploadHandler := NewUploadHandler(deps.UploadUC, errs)
	protected.Post("/upload", uploadHandler.Upload)

	reports := protected.Group("/informes")
	reportHandler := NewReportHandler(deps.ReportUC, errs)
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/recepcion", reportHandler.Reception)
	reports.Get("/traslados", reportHandler.Transfers)
	reports.Get("/contabilidad", reportHandler.Accounting)
	reports.Get("/inventario", reportHandler.Inventory)
}

// healthHandler 200 si todas las dependencias responden, 503 si alguna falla.
func healthHandler(service string, checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()

		status := fiber.StatusOK
		deps := fiber.Map{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				deps[name] = "error"
				status = fiber.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}
		overall := "ok"
		if status != fiber.StatusOK {
			overall = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{"status": overall, "service": service, "deps": deps})
	}
}

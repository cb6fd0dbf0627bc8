package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/jhoicas/estomatologia-api/internal/application/auth"
	"github.com/jhoicas/estomatologia-api/internal/application/inventory"
	"github.com/jhoicas/estomatologia-api/internal/application/usecase"
	"github.com/jhoicas/estomatologia-api/internal/infrastructure/metrics"
	"github.com/jhoicas/estomatologia-api/pkg/jwt"
	"github.com/jhoicas/estomatologia-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Manager      *inventory.Manager
	Reports      *inventory.ReportUseCase
	Hospitals    *usecase.HospitalUseCase
	Gate         *auth.Gate
	Metrics      *metrics.Metrics // opcional
	Log          *logger.Logger
	AllowOrigins []string // vacío = cualquier origen
}

// Router registra middlewares globales y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	gate := deps.Gate
	if gate == nil {
		gate = auth.NewGate(auth.Config{})
	}
	hospitals := deps.Hospitals
	if hospitals == nil {
		hospitals = usecase.NewHospitalUseCase()
	}

	app.Use(RequestLogger(log.Component("http")))
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
	}
	origins := "*"
	if len(deps.AllowOrigins) > 0 {
		origins = strings.Join(deps.AllowOrigins, ",")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Públicas
	app.Get("/health", Health(deps.Manager))
	hospitalHandler := NewHospitalHandler(hospitals)
	app.Get("/hospitales", hospitalHandler.List)

	// Gate por credencial + RBAC por ruta
	authMW := AuthMiddleware(gate)
	writers := RequireRole(jwt.RoleHospital, jwt.RoleAdmin)
	admins := RequireRole(jwt.RoleAdmin)

	// Envíos
	submissionHandler := NewSubmissionHandler(deps.Manager, hospitals, log)
	app.Post("/submit", authMW, writers, submissionHandler.Submit)
	app.Get("/submissions", authMW, admins, submissionHandler.List)
	app.Get("/submissions/:id", authMW, admins, submissionHandler.GetByID)

	// Inventario vigente
	inventoryHandler := NewInventoryHandler(deps.Manager, log)
	app.Get("/inventory", inventoryHandler.Get)
	app.Post("/inventory", authMW, writers, inventoryHandler.Save)
	app.Delete("/inventory/items", authMW, writers, inventoryHandler.DeleteItems)

	// Reporte
	reportHandler := NewReportHandler(deps.Reports, log)
	app.Get("/report", authMW, admins, reportHandler.Download)

	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics.Handler())
	}
}

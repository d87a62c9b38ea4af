package http

import (
	"errors"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/facturacion-api/internal/application/analytics"
	"github.com/jhoicas/facturacion-api/internal/application/auth"
	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CustomerUC  *billing.CustomerUseCase
	InvoiceUC   *billing.InvoiceUseCase
	InvoicePDF  *billing.PDFUseCase
	ProductUC   *usecase.ProductUseCase
	AnalyticsUC *analytics.AnalyticsUseCase
	JWTSecret   string
}

// AppConfig opciones del servidor fiber.
type AppConfig struct {
	Name        string
	SwaggerFile string // vacío = sin /docs
	Logger      zerolog.Logger
	DB          Pinger
}

// NewApp construye la aplicación fiber con middlewares, health, docs y rutas de la API.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: fallbackErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(cfg.Logger))

	if cfg.SwaggerFile != "" {
		// Swagger UI: http://localhost:<port>/docs
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.SwaggerFile,
			Path:     "docs",
			Title:    "Facturación API",
		}))
	}

	app.Get("/health", HealthHandler(cfg.Name, cfg.DB))
	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Todo lo demás requiere Bearer Token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.InvoiceUC, deps.AnalyticsUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)
	customers.Get("/:id/invoices", customerHandler.Invoices)
	customers.Get("/:id/next-purchase", customerHandler.NextPurchase)

	// Rutas fijas antes de /:id
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/price-list", productHandler.PriceList)
	products.Get("/low-stock", productHandler.LowStock)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Patch("/:id/status", invoiceHandler.ChangeStatus)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.AnalyticsUC)
	reports.Get("/sales-by-product", reportHandler.SalesByProduct)
}

// fallbackErrorHandler errores que no pasaron por writeError (404 de ruta, panics recuperados).
func fallbackErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	resp := dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	switch {
	case code == fiber.StatusNotFound:
		resp = dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case code == fiber.StatusMethodNotAllowed:
		resp = dto.ErrorResponse{Code: "METHOD_NOT_ALLOWED", Message: err.Error()}
	case code < fiber.StatusInternalServerError:
		resp = dto.ErrorResponse{Code: "BAD_REQUEST", Message: err.Error()}
	}
	return c.Status(code).JSON(resp)
}

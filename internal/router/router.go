package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"billflow/internal/app"
	"billflow/internal/handler"
	"billflow/internal/metrics"
	"billflow/internal/middleware"
	"billflow/internal/service"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Company  *handler.CompanyHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Invoice  *handler.InvoiceHandler
	Payment  *handler.PaymentHandler
	Report   *handler.ReportHandler
	Data     *handler.DataHandler
	Health   *handler.HealthHandler
}

// HandlersFor builds the handlers over an application's services.
func HandlersFor(a *app.App) Handlers {
	return Handlers{
		Auth:     handler.NewAuthHandler(a.Auth),
		Company:  handler.NewCompanyHandler(a.Company),
		Product:  handler.NewProductHandler(a.Products),
		Customer: handler.NewCustomerHandler(a.Customers, a.Invoices, a.Reports),
		Invoice:  handler.NewInvoiceHandler(a.Invoices, a.Share),
		Payment:  handler.NewPaymentHandler(a.Payments, a.Share),
		Report:   handler.NewReportHandler(a.Reports),
		Data:     handler.NewDataHandler(a.Data),
		Health:   handler.NewHealthHandler(a.Store),
	}
}

// Options holds the cross-cutting settings of the engine.
type Options struct {
	AllowGuest     bool
	AllowedOrigins []string
	Metrics        *metrics.Metrics
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, h Handlers, opts Options) *gin.Engine {
	handler.RegisterBindingRules()
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(opts.Metrics.Middleware())

	// Health checks and ops
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Workspace routes - a valid JWT, or the guest namespace when allowed
	ws := v1.Group("")
	ws.Use(middleware.AuthMiddleware(authSvc, opts.AllowGuest))

	ws.GET("/company", h.Company.Get)
	ws.PUT("/company", h.Company.Update)

	products := ws.Group("/products")
	products.GET("", h.Product.List)
	products.POST("", h.Product.Create)
	products.GET("/:id", h.Product.Get)
	products.PUT("/:id", h.Product.Update)
	products.DELETE("/:id", h.Product.Delete)

	customers := ws.Group("/customers")
	customers.GET("", h.Customer.List)
	customers.POST("", h.Customer.Create)
	customers.GET("/:id", h.Customer.Get)
	customers.PUT("/:id", h.Customer.Update)
	customers.DELETE("/:id", h.Customer.Delete)
	customers.GET("/:id/statement", h.Customer.Statement)
	customers.GET("/:id/statement/export", h.Customer.ExportStatement)
	customers.POST("/:id/reminder", h.Customer.SendReminder)
	customers.POST("/:id/notifications/read", h.Customer.MarkNotificationsRead)
	customers.GET("/:id/last-price/:productId", h.Customer.LastPrice)

	invoices := ws.Group("/invoices")
	invoices.GET("", h.Invoice.List)
	invoices.POST("", h.Invoice.Create)
	invoices.GET("/export", h.Invoice.Export)
	invoices.GET("/:id", h.Invoice.Get)
	invoices.PUT("/:id", h.Invoice.Update)
	invoices.DELETE("/:id", h.Invoice.Delete)
	invoices.GET("/:id/hsn-summary", h.Invoice.HSNSummary)
	invoices.GET("/:id/share", h.Invoice.Share)

	payments := ws.Group("/payments")
	payments.GET("", h.Payment.List)
	payments.POST("", h.Payment.Create)
	payments.GET("/:id", h.Payment.Get)
	payments.DELETE("/:id", h.Payment.Delete)
	payments.GET("/:id/share", h.Payment.Share)

	reports := ws.Group("/reports")
	reports.GET("/daybook", h.Report.Daybook)
	reports.GET("/dashboard", h.Report.Dashboard)
	reports.POST("/reconcile", h.Report.Reconcile)

	data := ws.Group("/data")
	data.GET("/export", h.Data.Export)
	data.POST("/import", h.Data.Import)
	data.POST("/import/xlsx", h.Data.ImportWorkbook)
	data.POST("/import/tally", h.Data.ImportTally)
	// Object storage backups are per account.
	data.POST("/backup", middleware.RequireAccount(), h.Data.Backup)
	data.POST("/restore", middleware.RequireAccount(), h.Data.Restore)

	return r
}

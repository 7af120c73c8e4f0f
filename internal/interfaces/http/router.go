package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinic-franchise-api/internal/application/analytics"
	"github.com/jhoicas/clinic-franchise-api/internal/application/auth"
	"github.com/jhoicas/clinic-franchise-api/internal/application/billing"
	"github.com/jhoicas/clinic-franchise-api/internal/application/clinic"
	"github.com/jhoicas/clinic-franchise-api/internal/application/inventory"
	"github.com/jhoicas/clinic-franchise-api/internal/application/sales"
	"github.com/jhoicas/clinic-franchise-api/internal/application/usecase"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	UserUC          *usecase.UserUseCase
	FranchiseUC     *usecase.FranchiseUseCase
	TeamUC          *usecase.TeamUseCase
	PatientUC       *usecase.PatientUseCase
	CatalogUC       *usecase.CatalogUseCase
	UploadUC        *usecase.UploadUseCase
	AppointmentUC   *clinic.AppointmentUseCase
	ConsultationUC  *clinic.ConsultationUseCase
	RecallUC        *clinic.RecallUseCase
	StockUC         *inventory.StockUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	SaleUC          *sales.SaleUseCase
	TransportUC     *sales.TransportUseCase
	BillUC          *billing.MedicineBillUseCase
	BillPDFUC       *billing.PDFUseCase
	ReceiptUC       *billing.ReceiptUseCase
	DashboardUC     *analytics.DashboardUseCase
	ReportUC        *analytics.ReportUseCase
	JWTSecret       string
	LoginLimit      RateLimiterConfig
	Logger          *logger.Logger
}

// Router registra las rutas de la API.
// Las rutas estáticas (/options, /challan.pdf, day-book.pdf) se registran antes que /:id.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")
	adminOnly := RequireRole(entity.RoleAdmin)
	staff := RequireRole(entity.RoleAdmin, entity.RoleFranchise)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/auth/login", NewRateLimiterMiddleware(deps.LoginLimit), authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	// Users
	userHandler := NewUserHandler(deps.UserUC, log)
	protected.Get("/users/:id", userHandler.GetByID)
	protected.Patch("/users/:id/status", adminOnly, userHandler.SetStatus)

	// Franchises (admin; el GET lo usa también la propia franquicia)
	franchiseHandler := NewFranchiseHandler(deps.FranchiseUC, log)
	franchises := protected.Group("/franchises")
	franchises.Get("/", adminOnly, franchiseHandler.List)
	franchises.Post("/", adminOnly, franchiseHandler.Create)
	franchises.Get("/:id", franchiseHandler.GetByID)
	franchises.Put("/:id", adminOnly, franchiseHandler.Update)
	franchises.Delete("/:id", adminOnly, franchiseHandler.Delete)

	// Teams
	teamHandler := NewTeamHandler(deps.TeamUC, log)
	teams := protected.Group("/teams")
	teams.Get("/", teamHandler.List)
	teams.Post("/", staff, teamHandler.Create)
	teams.Get("/:id", teamHandler.GetByID)
	teams.Put("/:id", staff, teamHandler.Update)
	teams.Delete("/:id", staff, teamHandler.Delete)

	// Patients
	patientHandler := NewPatientHandler(deps.PatientUC, log)
	patients := protected.Group("/patients")
	patients.Get("/", patientHandler.List)
	patients.Post("/", patientHandler.Create)
	patients.Get("/:id/history", patientHandler.History)
	patients.Get("/:id", patientHandler.GetByID)
	patients.Put("/:id", patientHandler.Update)
	patients.Delete("/:id", staff, patientHandler.Delete)

	// Appointments
	appointmentHandler := NewAppointmentHandler(deps.AppointmentUC, log)
	appointments := protected.Group("/appointments")
	appointments.Get("/", appointmentHandler.List)
	appointments.Post("/", appointmentHandler.Create)
	appointments.Get("/:id", appointmentHandler.GetByID)
	appointments.Put("/:id", appointmentHandler.Update)
	appointments.Patch("/:id/status", appointmentHandler.UpdateStatus)
	appointments.Delete("/:id", appointmentHandler.Delete)

	// Consultations
	consultationHandler := NewConsultationHandler(deps.ConsultationUC, log)
	consultations := protected.Group("/consultations")
	consultations.Get("/", consultationHandler.List)
	consultations.Post("/", consultationHandler.Create)
	consultations.Get("/:id", consultationHandler.GetByID)
	consultations.Put("/:id", consultationHandler.Update)
	consultations.Delete("/:id", consultationHandler.Delete)

	// Recalls
	recallHandler := NewRecallHandler(deps.RecallUC, log)
	recalls := protected.Group("/recalls")
	recalls.Get("/", recallHandler.List)
	recalls.Post("/", recallHandler.Create)
	recalls.Patch("/:id/status", recallHandler.UpdateStatus)
	recalls.Post("/:id/notify", recallHandler.Notify)

	// Catálogo (escritura solo admin)
	catalogHandler := NewCatalogHandler(deps.CatalogUC, log)
	medicines := protected.Group("/medicines")
	medicines.Get("/options", catalogHandler.MedicineOptions)
	medicines.Get("/", catalogHandler.ListMedicines)
	medicines.Post("/", adminOnly, catalogHandler.CreateMedicine)
	medicines.Get("/:id", catalogHandler.GetMedicine)
	medicines.Put("/:id", adminOnly, catalogHandler.UpdateMedicine)
	medicines.Delete("/:id", adminOnly, catalogHandler.DeleteMedicine)

	services := protected.Group("/services")
	services.Get("/options", catalogHandler.ServiceOptions)
	services.Get("/", catalogHandler.ListServices)
	services.Post("/", adminOnly, catalogHandler.CreateService)
	services.Get("/:id", catalogHandler.GetService)
	services.Put("/:id", adminOnly, catalogHandler.UpdateService)
	services.Delete("/:id", adminOnly, catalogHandler.DeleteService)

	packages := protected.Group("/packages")
	packages.Get("/options", catalogHandler.PackageOptions)
	packages.Get("/", catalogHandler.ListPackages)
	packages.Post("/", adminOnly, catalogHandler.CreatePackage)
	packages.Get("/:id", catalogHandler.GetPackage)
	packages.Put("/:id", adminOnly, catalogHandler.UpdatePackage)
	packages.Delete("/:id", adminOnly, catalogHandler.DeletePackage)

	// Stock
	stockHandler := NewStockHandler(deps.StockUC, deps.ReplenishmentUC, log)
	stock := protected.Group("/stock")
	stock.Post("/purchases", adminOnly, stockHandler.Purchase)
	stock.Post("/adjustments", adminOnly, stockHandler.Adjust)
	stock.Get("/balances", stockHandler.Balances)
	stock.Get("/batches", stockHandler.Batches)
	stock.Get("/ledger", stockHandler.Ledger)
	stock.Get("/replenishment", adminOnly, stockHandler.Replenishment)

	// Sales (admin)
	saleHandler := NewSaleHandler(deps.SaleUC, log)
	salesGroup := protected.Group("/sales", adminOnly)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Patch("/:id", saleHandler.Update)
	salesGroup.Delete("/:id", saleHandler.Delete)

	// Transports
	transportHandler := NewTransportHandler(deps.TransportUC, log)
	transports := protected.Group("/transports")
	transports.Get("/", transportHandler.List)
	transports.Post("/", adminOnly, transportHandler.Create)
	transports.Get("/:id/challan.pdf", transportHandler.ChallanPDF)
	transports.Get("/:id", transportHandler.GetByID)
	transports.Post("/:id/receive", staff, transportHandler.Receive)
	transports.Post("/:id/cancel", adminOnly, transportHandler.Cancel)

	// Medicine bills
	billHandler := NewBillHandler(deps.BillUC, deps.BillPDFUC, log)
	bills := protected.Group("/medicine-bills")
	bills.Get("/", billHandler.List)
	bills.Post("/", billHandler.Create)
	bills.Get("/:id/pdf", billHandler.DownloadPDF)
	bills.Get("/:id", billHandler.GetByID)
	bills.Post("/:id/cancel", staff, billHandler.Cancel)

	// Receipts
	receiptHandler := NewReceiptHandler(deps.ReceiptUC, log)
	receipts := protected.Group("/receipts")
	receipts.Get("/", receiptHandler.List)
	receipts.Post("/", receiptHandler.Create)
	receipts.Get("/:id", receiptHandler.GetByID)

	// Reports y dashboard
	reportHandler := NewReportHandler(deps.ReportUC, log)
	reports := protected.Group("/reports")
	reports.Get("/day-book.pdf", reportHandler.DayBookPDF)
	reports.Get("/day-book.xlsx", reportHandler.DayBookXLSX)
	reports.Get("/day-book", reportHandler.DayBook)
	reports.Get("/stock.xlsx", reportHandler.StockXLSX)
	reports.Get("/stock", reportHandler.Stock)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, log)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)

	// Uploads
	uploadHandler := NewUploadHandler(deps.UploadUC, log)
	protected.Post("/uploads", uploadHandler.Upload)
	protected.Get("/uploads/:name", uploadHandler.Download)
}

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
	"github.com/spf13/cobra"

	appanalytics "github.com/jhoicas/clinic-franchise-api/internal/application/analytics"
	"github.com/jhoicas/clinic-franchise-api/internal/application/auth"
	"github.com/jhoicas/clinic-franchise-api/internal/application/billing"
	"github.com/jhoicas/clinic-franchise-api/internal/application/clinic"
	"github.com/jhoicas/clinic-franchise-api/internal/application/inventory"
	"github.com/jhoicas/clinic-franchise-api/internal/application/ports"
	"github.com/jhoicas/clinic-franchise-api/internal/application/sales"
	"github.com/jhoicas/clinic-franchise-api/internal/application/usecase"
	"github.com/jhoicas/clinic-franchise-api/internal/infrastructure/cache"
	"github.com/jhoicas/clinic-franchise-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/clinic-franchise-api/internal/infrastructure/pdf"
	"github.com/jhoicas/clinic-franchise-api/internal/infrastructure/postgres"
	"github.com/jhoicas/clinic-franchise-api/internal/infrastructure/storage"
	"github.com/jhoicas/clinic-franchise-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/clinic-franchise-api/internal/interfaces/http"
)

const swaggerFile = "./docs/swagger.json"

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Inicia el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		return err
	}
	defer pool.Close()

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)
	reportRepo := postgres.NewReportRepository(pool)

	// Redis es opcional: sin REDIS_URL (o si no responde) el catálogo se lee siempre de la BD.
	var catalogCache ports.CatalogCache = cache.Noop{}
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, catálogo sin caché")
		} else {
			defer client.Close()
			catalogCache = cache.NewRedisCache(client, cfg.Redis.TTL)
		}
	}

	var notifier ports.Notifier = mail.NewLogNotifier(log)
	if cfg.SMTP.Enabled() {
		notifier = mail.NewSMTPNotifier(cfg.SMTP, log)
	}

	fileStore, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		log.Error().Err(err).Str("dir", cfg.Storage.UploadDir).Msg("directorio de uploads")
		return err
	}

	// PDF: factura, challan de despacho y libro diario
	pdfGenerator := infrapdf.NewMarotoPDFGenerator("es")
	excel := xlsx.NewExcelExporter()

	stockUC := inventory.NewStockUseCase(txRunner, repos, log)
	authUC := auth.NewAuthUseCase(repos.Users, repos.Franchises, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    (cfg.Storage.MaxUploadMB + 1) * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs (requiere haber generado docs/swagger.json con swag)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Clinic Franchise API",
		}))
	} else {
		log.Debug().Str("file", swaggerFile).Msg("swagger deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		UserUC:          usecase.NewUserUseCase(repos.Users, log),
		FranchiseUC:     usecase.NewFranchiseUseCase(txRunner, repos.Franchises, log),
		TeamUC:          usecase.NewTeamUseCase(txRunner, repos, log),
		PatientUC:       usecase.NewPatientUseCase(txRunner, repos),
		CatalogUC:       usecase.NewCatalogUseCase(repos, catalogCache, log),
		UploadUC:        usecase.NewUploadUseCase(fileStore, cfg.Storage.MaxUploadMB, log),
		AppointmentUC:   clinic.NewAppointmentUseCase(txRunner, repos, log),
		ConsultationUC:  clinic.NewConsultationUseCase(txRunner, repos, log),
		RecallUC:        clinic.NewRecallUseCase(txRunner, repos, notifier, log),
		StockUC:         stockUC,
		ReplenishmentUC: inventory.NewReplenishmentUseCase(repos.Stock, reportRepo),
		SaleUC:          sales.NewSaleUseCase(txRunner, repos, log),
		TransportUC:     sales.NewTransportUseCase(txRunner, repos, stockUC, pdfGenerator, log),
		BillUC:          billing.NewMedicineBillUseCase(txRunner, repos, stockUC, log),
		BillPDFUC:       billing.NewPDFUseCase(repos, pdfGenerator),
		ReceiptUC:       billing.NewReceiptUseCase(txRunner, repos, log),
		DashboardUC:     appanalytics.NewDashboardUseCase(reportRepo, repos.Stock),
		ReportUC:        appanalytics.NewReportUseCase(reportRepo, repos, pdfGenerator, excel, log),
		JWTSecret:       cfg.JWT.Secret,
		LoginLimit: httpRouter.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.LoginPerSecond,
			Burst:             cfg.RateLimit.LoginBurst,
		},
		Logger: log,
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
	return nil
}

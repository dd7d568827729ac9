package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sterlingsteels/itdesk/internal"
	"github.com/sterlingsteels/itdesk/internal/asset"
	assetpg "github.com/sterlingsteels/itdesk/internal/asset/postgres"
	"github.com/sterlingsteels/itdesk/internal/attendance"
	attendancepg "github.com/sterlingsteels/itdesk/internal/attendance/postgres"
	"github.com/sterlingsteels/itdesk/internal/auth"
	authpg "github.com/sterlingsteels/itdesk/internal/auth/postgres"
	"github.com/sterlingsteels/itdesk/internal/bill"
	billpg "github.com/sterlingsteels/itdesk/internal/bill/postgres"
	"github.com/sterlingsteels/itdesk/internal/broadband"
	broadbandpg "github.com/sterlingsteels/itdesk/internal/broadband/postgres"
	"github.com/sterlingsteels/itdesk/internal/core/clock"
	"github.com/sterlingsteels/itdesk/internal/core/events"
	"github.com/sterlingsteels/itdesk/internal/core/locking"
	"github.com/sterlingsteels/itdesk/internal/employee"
	employeepg "github.com/sterlingsteels/itdesk/internal/employee/postgres"
	"github.com/sterlingsteels/itdesk/internal/m365"
	m365pg "github.com/sterlingsteels/itdesk/internal/m365/postgres"
	"github.com/sterlingsteels/itdesk/internal/mailer/graph"
	"github.com/sterlingsteels/itdesk/internal/maintenance"
	maintenancepg "github.com/sterlingsteels/itdesk/internal/maintenance/postgres"
	"github.com/sterlingsteels/itdesk/internal/repair"
	repairpg "github.com/sterlingsteels/itdesk/internal/repair/postgres"
	"github.com/sterlingsteels/itdesk/internal/software"
	softwarepg "github.com/sterlingsteels/itdesk/internal/software/postgres"
	"github.com/sterlingsteels/itdesk/internal/transport/rest"
	"github.com/sterlingsteels/itdesk/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests and scheduled jobs`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger

	Maintenance *maintenance.Service
	Bill        *bill.Service
	Software    *software.Service
	M365        *m365.Service
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	scheduler, err := startScheduler(deps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start scheduler: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		schedCtx := scheduler.Stop()
		<-schedCtx.Done()

		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	clk := clock.System()
	keys := locking.NewKeyedMutex()
	bus := events.NewEventBus(lg)

	graphClient := graph.NewClient(config.Graph, config.Mail.SenderEmail, lg)

	assetRepo := assetpg.NewAssetRepository(gormDB)
	employeeRepo := employeepg.NewEmployeeRepository(gormDB)
	repairRepo := repairpg.NewRepairRepository(gormDB)
	maintenanceRepo := maintenancepg.NewMaintenanceRepository(gormDB)
	billRepo := billpg.NewBillRepository(gormDB)
	softwareRepo := softwarepg.NewSoftwareRepository(gormDB)
	m365Repo := m365pg.NewUsageRepository(gormDB)
	broadbandRepo := broadbandpg.NewBroadbandRepository(gormDB)
	attendanceRepo := attendancepg.NewAttendanceRepository(gormDB)
	userRepo := authpg.NewUserRepository(gormDB)

	employeeService := employee.NewService(employeeRepo, assetRepo, graphClient, keys, clk, config.Mail.AdminEmail, lg)
	assetService := asset.NewService(assetRepo, employeeService, clk, lg)
	repairService := repair.NewService(repairRepo, assetRepo, graphClient, keys, clk, config.Mail.AdminEmail, lg)
	maintenanceService := maintenance.NewService(maintenanceRepo, employeeRepo, assetRepo, graphClient, bus, keys, clk, config.Mail.AdminEmail, lg)
	billService := bill.NewService(billRepo, graphClient, keys, clk, config.Mail.AlertEmail, lg)
	softwareService := software.NewService(softwareRepo, graphClient, clk, config.Mail.AlertEmail, lg)
	m365Service := m365.NewService(m365Repo, graphClient, clk, lg)
	broadbandService := broadband.NewService(broadbandRepo, clk, lg)
	attendanceService := attendance.NewService(attendanceRepo, graphClient, config.Mail.HREmail, lg)

	tokens := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.AccessTokenDuration, clk)
	authService := auth.NewService(userRepo, tokens, config.Security.BCryptCost, lg)

	maintenance.RegisterCirculationSubscriber(bus, maintenanceService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, rest.Handlers{
		Auth:        auth.NewHandler(authService),
		Asset:       asset.NewHandler(assetService),
		Employee:    employee.NewHandler(employeeService),
		Repair:      repair.NewHandler(repairService),
		Maintenance: maintenance.NewHandler(maintenanceService),
		Bill:        bill.NewHandler(billService),
		Software:    software.NewHandler(softwareService),
		M365:        m365.NewHandler(m365Service),
		Broadband:   broadband.NewHandler(broadbandService),
		Attendance:  attendance.NewHandler(attendanceService),
	}, config.Server.AllowedOrigins, lg)

	return &Dependencies{
		Config:      config,
		DB:          db,
		Gorm:        gormDB,
		Router:      router,
		Logger:      lg,
		Maintenance: maintenanceService,
		Bill:        billService,
		Software:    softwareService,
		M365:        m365Service,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

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

	"github.com/portal-labs/project-portal/internal"
	"github.com/portal-labs/project-portal/internal/auth"
	authPostgres "github.com/portal-labs/project-portal/internal/auth/postgres"
	"github.com/portal-labs/project-portal/internal/core/events"
	"github.com/portal-labs/project-portal/internal/dashboard"
	dashboardPostgres "github.com/portal-labs/project-portal/internal/dashboard/postgres"
	"github.com/portal-labs/project-portal/internal/department"
	departmentPostgres "github.com/portal-labs/project-portal/internal/department/postgres"
	"github.com/portal-labs/project-portal/internal/export"
	"github.com/portal-labs/project-portal/internal/notification"
	notificationPostgres "github.com/portal-labs/project-portal/internal/notification/postgres"
	"github.com/portal-labs/project-portal/internal/project"
	projectPostgres "github.com/portal-labs/project-portal/internal/project/postgres"
	"github.com/portal-labs/project-portal/internal/role"
	rolePostgres "github.com/portal-labs/project-portal/internal/role/postgres"
	"github.com/portal-labs/project-portal/internal/task"
	taskPostgres "github.com/portal-labs/project-portal/internal/task/postgres"
	"github.com/portal-labs/project-portal/internal/transport/rest"
	"github.com/portal-labs/project-portal/internal/user"
	userPostgres "github.com/portal-labs/project-portal/internal/user/postgres"
	"github.com/portal-labs/project-portal/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Logger   *slog.Logger
	Handlers rest.Handlers
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	db, gdb, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	eventBus := events.NewEventBus(log)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(gdb), tokenGen, config.Security.BCryptCost)

	userService := user.NewService(userPostgres.NewUserRepository(gdb), config.Security.BCryptCost, log)
	roleService := role.NewService(rolePostgres.NewRoleRepository(gdb), log)
	departmentService := department.NewService(departmentPostgres.NewDepartmentRepository(gdb), log)

	projectService := project.NewService(projectPostgres.NewProjectRepository(gdb), departmentService, eventBus, log)
	taskService := task.NewService(taskPostgres.NewTaskRepository(gdb), departmentService, eventBus, log)
	dashboardService := dashboard.NewService(dashboardPostgres.NewDashboardRepository(gdb), departmentService, log)
	exportService := export.NewService(projectService, taskService, log)

	mailer := notification.NewSMTPMailer(config.SMTP)
	notificationService := notification.NewService(
		notificationPostgres.NewNotificationRepository(gdb),
		mailer,
		&userRecipientResolver{users: userService},
		config.Notifications,
		log,
	)
	notification.NewEventHandler(notificationService, log).RegisterEventHandlers(eventBus)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authService),
		User:         user.NewHandler(userService),
		Role:         role.NewHandler(roleService),
		Department:   department.NewHandler(departmentService),
		Project:      project.NewHandler(projectService),
		Task:         task.NewHandler(taskService),
		Dashboard:    dashboard.NewHandler(dashboardService),
		Export:       export.NewHandler(exportService),
		Notification: notification.NewHandler(notificationService),
	}

	return &Dependencies{
		Config:   config,
		Logger:   log,
		DB:       db,
		GormDB:   gdb,
		Router:   chi.NewRouter(),
		EventBus: eventBus,
		Handlers: handlers,
	}, nil
}

// userRecipientResolver lets the notification service look up delivery
// addresses without depending on the user package directly.
type userRecipientResolver struct {
	users *user.Service
}

func (r *userRecipientResolver) RecipientFor(userID int64) (string, string, error) {
	u, err := r.users.GetByID(userID)
	if err != nil {
		return "", "", err
	}
	return u.Email, u.FullName(), nil
}

// initDB initializes the database connection pool and wraps it for gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gdb, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: dbConn.DB}), &gorm.Config{})
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	return dbConn, gdb, nil
}

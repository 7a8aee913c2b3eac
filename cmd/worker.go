package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/portal-labs/project-portal/internal/core/events"
	"github.com/portal-labs/project-portal/internal/department"
	departmentPostgres "github.com/portal-labs/project-portal/internal/department/postgres"
	"github.com/portal-labs/project-portal/internal/notification"
	notificationPostgres "github.com/portal-labs/project-portal/internal/notification/postgres"
	"github.com/portal-labs/project-portal/internal/project"
	projectPostgres "github.com/portal-labs/project-portal/internal/project/postgres"
	"github.com/portal-labs/project-portal/internal/task"
	taskPostgres "github.com/portal-labs/project-portal/internal/task/postgres"
	"github.com/portal-labs/project-portal/internal/user"
	userPostgres "github.com/portal-labs/project-portal/internal/user/postgres"
	"github.com/portal-labs/project-portal/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers for scheduled jobs like deadline reminders and overdue detection.`,
}

// Reminder worker command
var reminderWorkerCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Start the deadline reminder worker",
	Long:  `Periodically flags overdue projects and sends reminders for tasks approaching their due date`,
	Run: func(cmd *cobra.Command, args []string) {
		startReminderWorker()
	},
}

// Event bus worker command
var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start an event bus worker that logs every portal event, useful for debugging handlers`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var (
	reminderInterval time.Duration
	reminderWindow   time.Duration
)

func startReminderWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	_, gdb, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	// Flag overrides take priority over config values
	interval := config.Notifications.ReminderInterval
	if reminderInterval > 0 {
		interval = reminderInterval
	}
	window := config.Notifications.ReminderWindow
	if reminderWindow > 0 {
		window = reminderWindow
	}

	eventBus := events.NewEventBus(log)

	departmentService := department.NewService(departmentPostgres.NewDepartmentRepository(gdb), log)
	projectService := project.NewService(projectPostgres.NewProjectRepository(gdb), departmentService, eventBus, log)
	taskService := task.NewService(taskPostgres.NewTaskRepository(gdb), departmentService, eventBus, log)

	userService := user.NewService(userPostgres.NewUserRepository(gdb), config.Security.BCryptCost, log)
	notificationService := notification.NewService(
		notificationPostgres.NewNotificationRepository(gdb),
		notification.NewSMTPMailer(config.SMTP),
		&userRecipientResolver{users: userService},
		config.Notifications,
		log,
	)
	notification.NewEventHandler(notificationService, log).RegisterEventHandlers(eventBus)

	log.Info("starting reminder worker",
		"interval", interval.String(),
		"window", window.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	runReminderPass(projectService, taskService, window, log)

	for {
		select {
		case <-ticker.C:
			runReminderPass(projectService, taskService, window, log)
		case sig := <-sigChan:
			log.Info("received signal, shutting down reminder worker", "signal", sig)
			return
		}
	}
}

func runReminderPass(projects *project.Service, tasks *task.Service, window time.Duration, log *slog.Logger) {
	overdue, err := projects.MarkOverdue()
	if err != nil {
		log.Error("overdue pass failed", "error", err)
	} else if overdue > 0 {
		log.Info("flagged overdue projects", "count", overdue)
	}

	reminded, err := tasks.PublishDueSoon(window)
	if err != nil {
		log.Error("deadline reminder pass failed", "error", err)
	} else if reminded > 0 {
		log.Info("published deadline reminders", "count", reminded)
	}
}

func startEventWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	log := logger.LoggerWrapper()

	eventBus := events.NewEventBus(log)

	for _, eventType := range []string{
		events.EventTypeTaskAssigned,
		events.EventTypeTaskCompleted,
		events.EventTypeDeadlineApproaching,
		events.EventTypeProjectStatusChanged,
	} {
		eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			log.Info("received event",
				"event_id", event.EventID(),
				"event_type", event.EventType(),
				"payload", event.Payload())
			return nil
		})
	}

	log.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("received signal, shutting down event bus", "signal", sig)
}

func init() {
	reminderWorkerCmd.Flags().DurationVar(&reminderInterval, "interval", 0, "Pass interval (overrides config)")
	reminderWorkerCmd.Flags().DurationVar(&reminderWindow, "window", 0, "Due date lookahead window (overrides config)")

	workerCmd.AddCommand(reminderWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}

// The server command runs every handler behind one HTTP server for local
// development, replacing API Gateway, the Cognito authorizer, and the
// EventBridge schedules.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bract/internal/app"
	"bract/internal/config"
	"bract/internal/middleware"
	"bract/internal/scheduler"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	deps, err := app.NewDependencies(context.Background(), cfg)
	if err != nil {
		return err
	}

	// Initialize scheduler (if enabled)
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		log.Println("Initializing scheduler...")
		sched, err = scheduler.New(scheduler.Config{
			ScheduleTimes: cfg.Scheduler.ScheduleTimes,
			WorkerCount:   1,
			QueueSize:     4,
			Jobs: []scheduler.Job{
				scheduler.NewSyncJob(deps.SyncService),
				scheduler.NewDispatchJob(deps.DispatchService),
			},
		})
		if err != nil {
			return err
		}

		sched.Start()
		log.Printf("Scheduler started with times: %v", cfg.Scheduler.ScheduleTimes)
	} else {
		log.Println("Scheduler is disabled")
	}

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/plaid/create-link-token", bridge(deps.LinkHandler.HandleCreateLinkToken))
	mux.HandleFunc("/api/plaid/exchange-token", bridge(deps.LinkHandler.HandleExchangeToken))
	mux.HandleFunc("/api/plaid/accounts", bridge(deps.LinkHandler.HandleGetAccounts))
	mux.HandleFunc("/api/plaid/subscriptions", bridge(deps.LinkHandler.HandleGetSubscriptions))
	mux.HandleFunc("/api/reminders", methods(map[string]http.HandlerFunc{
		http.MethodGet:  bridge(deps.ReminderHandler.HandleGetReminders),
		http.MethodPost: bridge(deps.ReminderHandler.HandleSetReminder),
	}))

	// Job endpoints for manual runs
	mux.HandleFunc("/api/jobs/sync-subscriptions", bridge(deps.JobHandler.HandleSyncSubscriptions))
	mux.HandleFunc("/api/jobs/send-reminders", bridge(deps.JobHandler.HandleSendReminders))

	mux.HandleFunc("/health", handleHealth)

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(cfg.CORS.AllowedOrigin)(mux))

	// Create server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	if sched != nil {
		log.Println("Shutting down scheduler...")
		sched.Shutdown(30 * time.Second)
	}

	log.Println("Server stopped")
	return nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

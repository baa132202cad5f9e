package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/nayakvinit/lendbook/internal/config"
	"github.com/nayakvinit/lendbook/internal/handler"
	"github.com/nayakvinit/lendbook/internal/repository"
	"github.com/nayakvinit/lendbook/internal/service"
	"github.com/nayakvinit/lendbook/pkg/response"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize snapshot storage
	snapshots, err := repository.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize the ledger
	ledger := service.NewLedgerService(context.Background(), snapshots, cfg)

	ledgerHandler := handler.NewLedgerHandler(ledger)
	healthHandler := handler.NewHealthHandler(ledger)

	// Setup routes
	router := setupRoutes(ledgerHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s (storage driver: %s)", server.Addr, cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Flush the final snapshot before exit
	if err := ledger.Close(ctx); err != nil {
		log.Printf("Failed to close ledger: %v", err)
	}

	log.Println("Server exited")
}

func setupRoutes(ledgerHandler *handler.LedgerHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware, response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/records", ledgerHandler.CreateRecord).Methods("POST")
	api.HandleFunc("/records", ledgerHandler.ListRecords).Methods("GET")
	api.HandleFunc("/records/{recordId}/payments", ledgerHandler.ApplyPayment).Methods("POST")
	api.HandleFunc("/records/{recordId}/paid", ledgerHandler.MarkPaid).Methods("POST")
	api.HandleFunc("/records/{recordId}", ledgerHandler.DeleteRecord).Methods("DELETE")
	api.HandleFunc("/totals", ledgerHandler.GetTotals).Methods("GET")
	api.HandleFunc("/borrowers", ledgerHandler.GetBorrowers).Methods("GET")
	api.HandleFunc("/borrowers/{name}/records", ledgerHandler.GetContactHistory).Methods("GET")

	return router
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillahandlers "github.com/gorilla/handlers"

	"github.com/brunocorregedoria/reforma2/internal/config"
	"github.com/brunocorregedoria/reforma2/internal/database"
	"github.com/brunocorregedoria/reforma2/internal/handlers"
	"github.com/brunocorregedoria/reforma2/internal/models"
	"github.com/brunocorregedoria/reforma2/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (detects embedded vs external automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in the shutdown handler below

	// 3. Synchronize schema. Production migrations run out of band.
	if !cfg.IsProduction() {
		log.Println("Synchronizing database schema...")
		if err := db.AutoMigrate(models.All()...); err != nil {
			log.Printf("Migration warning: %v", err)
		} else {
			log.Println("Schema synchronized successfully")
		}
	}

	// 4. Start the activity feed hub
	hub := websocket.NewHub()
	go hub.Run()

	// 5. Set up the HTTP router with CORS and access logging
	router := handlers.NewRouter(db, cfg, hub)

	allowedOrigins := []string{cfg.FrontendURL}
	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(allowedOrigins),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)
	handler := gorillahandlers.LoggingHandler(os.Stdout, cors(router))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	// 6. Start server with graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("Server (%s) starting on port %s", cfg.Env, cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("Shutdown complete")
}

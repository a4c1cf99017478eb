package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/notebook-cafe/api/internal/cart"
	"github.com/notebook-cafe/api/internal/config"
	"github.com/notebook-cafe/api/internal/database"
	"github.com/notebook-cafe/api/internal/email"
	"github.com/notebook-cafe/api/internal/menu"
	"github.com/notebook-cafe/api/internal/router"
	"github.com/notebook-cafe/api/internal/storage"
	"github.com/notebook-cafe/api/internal/ws"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Menu catalog: an external file when configured, otherwise the
	// embedded one. A broken catalog is a deploy error, so fail fast.
	var (
		catalog *menu.Catalog
		err     error
	)
	if cfg.CatalogPath != "" {
		catalog, err = menu.LoadFile(cfg.CatalogPath)
	} else {
		catalog, err = menu.Default()
	}
	if err != nil {
		log.Fatalf("Invalid menu catalog: %v", err)
	}
	log.Printf("Loaded menu catalog: %d items", len(catalog.Items()))

	store, pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	mailer := email.NewClient(cfg.ResendAPIKey, cfg.EmailFrom)
	if !mailer.Enabled() {
		log.Println("WARNING: RESEND_API_KEY not set, email delivery disabled")
	}

	uploads, err := storage.NewClient(ctx, storage.Config{
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		BaseURL:   cfg.StorageBaseURL,
	})
	if err != nil {
		log.Fatalf("Unable to configure resume storage: %v", err)
	}
	if !uploads.Enabled() {
		log.Println("WARNING: resume storage not configured, uploads disabled")
	}

	hub := ws.NewHub()
	go hub.Run()

	carts := cart.NewManager()
	carts.StartSweeper(ctx, 15*time.Minute)

	r := router.New(cfg, catalog, carts, store, mailer, uploads, hub)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"log"
	"net/http"

	"github.com/telexlabs/go-prodcalc/internal/config"
	"github.com/telexlabs/go-prodcalc/internal/db"
	"github.com/telexlabs/go-prodcalc/internal/migrations"
	"github.com/telexlabs/go-prodcalc/internal/seed"
	"github.com/telexlabs/go-prodcalc/internal/server"
	"github.com/telexlabs/go-prodcalc/internal/store"
	"github.com/telexlabs/go-prodcalc/internal/uploads"
	"github.com/telexlabs/go-prodcalc/pkg/render"
)

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}

	st := store.New(database)

	if cfg.IsDev() {
		id, err := seed.Run(context.Background(), st)
		if err != nil {
			log.Fatalf("failed to seed database: %v", err)
		}
		if id != 0 {
			log.Printf("seeded demo product %d", id)
		}
	}

	uploadService, err := uploads.New(cfg.UploadDir, cfg.BaseURL)
	if err != nil {
		log.Fatalf("failed to prepare upload directory: %v", err)
	}

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("failed to build widget renderer: %v", err)
	}

	srv := server.New(st, uploadService, renderer, cfg.BaseURL, log.Default())

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

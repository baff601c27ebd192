package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/packsmith/packsmith/internal/api/http"
	auth "github.com/packsmith/packsmith/internal/auth/middleware"
	"github.com/packsmith/packsmith/internal/config"
	"github.com/packsmith/packsmith/internal/db"
	"github.com/packsmith/packsmith/internal/pack"
	rbac "github.com/packsmith/packsmith/internal/rbac"
	storage "github.com/packsmith/packsmith/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := pack.NewSQLStore(dbh, cfg.DBDriver)

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	// Conversions inline whole media files; give imports room to finish.
	r.Use(middleware.Timeout(120 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, cfg.EditorPassHash))

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	// assets routes (protected)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Route("/assets", func(ar chi.Router) {
			api.MountAssets(ar, bs)
		})
	})

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("pack:view")).
			Get("/pack", api.GetPackHandler(store))
		pr.With(rbac.Require("pack:edit")).
			Put("/pack", api.SavePackHandler(store))
		pr.With(rbac.Require("pack:clear")).
			Delete("/pack", api.ClearPackHandler(store))
		pr.With(rbac.Require("pack:export")).
			Get("/pack/export", api.ExportPackHandler(store))

		pr.With(rbac.Require("pack:view")).
			Get("/pack/revisions", api.ListRevisionsHandler(store))
		pr.With(rbac.Require("pack:view")).
			Get("/pack/revisions/{revisionID}", api.GetRevisionHandler(store))

		pr.With(rbac.Require("pack:import")).
			Post("/siq/import", api.ImportSIQHandler(store, bs, cfg.MaxUploadBytes))
		pr.With(rbac.Require("pack:import")).
			Post("/siq/import-remote", api.ImportSIQRemoteHandler(store, cfg.SIQRemoteBase))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

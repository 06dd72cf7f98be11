package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/camden-git/photoeditbackend/config"
	"github.com/camden-git/photoeditbackend/database"
	"github.com/camden-git/photoeditbackend/editor"
	"github.com/camden-git/photoeditbackend/handlers"
	"github.com/camden-git/photoeditbackend/media"
	"github.com/camden-git/photoeditbackend/repository"
	"github.com/camden-git/photoeditbackend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.EditedPath, cfg.WatermarksPath, filepath.Dir(cfg.DatabasePath), filepath.Dir(cfg.PrefsDatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	gormDB, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(gormDB); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	prefsDB, err := database.InitPrefsDB(cfg.PrefsDatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize preferences database: %v", err)
	}
	defer prefsDB.Close()

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypeEdited:    filepath.Base(cfg.EditedPath),
		media.AssetTypeWatermark: filepath.Base(cfg.WatermarksPath),
	}
	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, cfg.PublicBaseURL, mediaSubDirs)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}

	editRepo := repository.NewEditRepository(gormDB)
	prefRepo := repository.NewPreferenceRepository(prefsDB)

	fontCache := editor.NewFontCache(cfg.FontDir)
	engine := editor.NewEngine(fontCache)

	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	sessionManager := editor.NewSessionManager(sessionTTL)
	pruneStop := make(chan struct{})
	defer close(pruneStop)
	sessionManager.StartPruning(time.Minute, pruneStop)

	log.Printf("Initializing render worker pool (Workers: %d, Queue Size: %d)...", cfg.NumRenderWorkers, cfg.RenderQueueSize)
	renderPool := workers.NewRenderPool(cfg.RenderQueueSize, cfg.NumRenderWorkers)
	defer renderPool.Stop()

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing saved edits in: %s", cfg.EditedPath)
	log.Printf("Session TTL: %d minute(s)", cfg.SessionTTLMinutes)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	defaultQuality := editor.ParseQualityPreset(cfg.DefaultQuality)
	sessionHandler := handlers.NewEditorSessionHandler(sessionManager, engine, mediaStore, prefRepo, editRepo, renderPool, defaultQuality)
	editsHandler := handlers.NewEditsHandler(editRepo, mediaStore)

	r.Route("/api", func(r chi.Router) {
		r.Route("/editor/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.CreateSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", sessionHandler.GetSession)
				r.Patch("/state", sessionHandler.UpdateState)
				r.Post("/commit", sessionHandler.CommitState)
				r.Post("/undo", sessionHandler.Undo)
				r.Post("/redo", sessionHandler.Redo)
				r.Post("/reset", sessionHandler.Reset)
				r.Put("/crop", sessionHandler.SetCropRegion)
				r.Post("/watermark-image", sessionHandler.UploadWatermarkImage)
				r.Post("/apply-crop", sessionHandler.ApplyCrop)
				r.Post("/save", sessionHandler.Save)
				r.Delete("/", sessionHandler.CancelSession)
			})
		})

		r.Route("/edits", func(r chi.Router) {
			r.Get("/", editsHandler.ListEdits)
			r.Route("/{editID}", func(r chi.Router) {
				r.Get("/", editsHandler.GetEdit)
				r.Delete("/", editsHandler.DeleteEdit)
			})
		})

		editedSubDir := filepath.Base(cfg.EditedPath)
		r.Get(fmt.Sprintf("/%s/*", editedSubDir), handlers.AssetServer(cfg.MediaStoragePath, editedSubDir))
		log.Printf("Registered edited-asset server at /%s/*", editedSubDir)

		watermarkSubDir := filepath.Base(cfg.WatermarksPath)
		r.Get(fmt.Sprintf("/%s/*", watermarkSubDir), handlers.AssetServer(cfg.MediaStoragePath, watermarkSubDir))
		log.Printf("Registered watermark-asset server at /%s/*", watermarkSubDir)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

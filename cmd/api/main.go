package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/talkshopapp/talkshop-backend/internal/httpx"
	"github.com/talkshopapp/talkshop-backend/internal/logging"
	"github.com/talkshopapp/talkshop-backend/internal/modules/discovery"
	"github.com/talkshopapp/talkshop-backend/internal/modules/interaction"
	"github.com/talkshopapp/talkshop-backend/internal/modules/product"
	"github.com/talkshopapp/talkshop-backend/internal/modules/profile"
	"github.com/talkshopapp/talkshop-backend/internal/storage"
)

const apiVersion = "1.0.0"

func main() {
	// .env is a dev convenience; production sets the environment directly.
	_ = godotenv.Load()

	logging.Init(logging.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	})

	db, err := storage.Open(storage.Config{
		URL:          os.Getenv("DATABASE_URL"),
		MaxOpenConns: envInt("DB_MAX_OPEN_CONNS", storage.DefaultMaxOpenConns),
		MaxIdleConns: envInt("DB_MAX_IDLE_CONNS", storage.DefaultMaxIdleConns),
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	logging.Info().Msg("connected to database")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.RequestLogger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{
			"message": "TalkShop product memory API",
			"version": apiVersion,
		})
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// ── Entity store ────────────────────────────────────────
	productRepo := product.NewPostgresRepository(db)
	productService := product.NewService(productRepo)
	product.NewHandler(productService).RegisterRoutes(router)

	profileRepo := profile.NewPostgresRepository(db)
	profileService := profile.NewService(profileRepo)
	profile.NewHandler(profileService).RegisterRoutes(router)

	interactionRepo := interaction.NewPostgresRepository(db)
	interactionService := interaction.NewService(interactionRepo, productRepo, profileRepo)
	interaction.NewHandler(interactionService).RegisterRoutes(router)

	// ── Discovery pipeline ──────────────────────────────────
	searchClient := discovery.NewSearchClient(os.Getenv("YOU_API_KEY"), os.Getenv("YOU_API_BASE_URL"))
	discoveryService := discovery.NewService(searchClient, discovery.NewScraper(), productService)
	discovery.NewHandler(discoveryService).RegisterRoutes(router)

	// ── Server ──────────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("port", port).Msg("API server starting")
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logging.Fatal().Err(err).Msg("server stopped")
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logging.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logging.Warn().Str("key", key).Str("value", v).Msg("invalid integer in environment, using default")
		return def
	}
	return n
}

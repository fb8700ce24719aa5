package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"flickpick/api"
	"flickpick/config"
	"flickpick/handlers"
	"flickpick/services/details"
	"flickpick/services/recommend"
	"flickpick/services/reviews"
	"flickpick/services/watchlist"
	"flickpick/utils"
)

func main() {
	cfg := config.Load()

	if cfg.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		})
	}
	log.Printf("[main] flickpick starting, listening on %s", cfg.ListenAddr)

	if cfg.TMDBAPIKey == "" {
		log.Printf("[main] TMDB_API_KEY is not set, detail lookups will fail")
	}

	dispatcher := recommend.NewDispatcher(cfg.RecommenderBaseURL, cfg.RequestTimeout)
	aggregator := details.NewAggregator(cfg.TMDBBaseURL, cfg.TMDBAPIKey, cfg.Language, dispatcher, cfg.RequestTimeout)
	reviewsSvc := reviews.NewService(cfg.RecommenderBaseURL, cfg.RequestTimeout)

	watchlistSvc, err := watchlist.NewService(afero.NewOsFs(), cfg.DataDir)
	if err != nil {
		log.Fatalf("[main] watchlist store: %v", err)
	}

	recommendationsHandler := handlers.NewRecommendationsHandler(dispatcher)
	detailsHandler := handlers.NewDetailsHandler(aggregator)
	watchlistHandler := handlers.NewWatchlistHandler(watchlistSvc)
	reviewsHandler := handlers.NewReviewsHandler(reviewsSvc)

	// Review submissions are the one write that fans out to a remote service,
	// so they get a per-client cap of 5 per minute.
	reviewLimiter := api.NewIPRateLimiter(rate.Every(12*time.Second), 5)

	router := utils.NewRouter()
	router.Use(api.RequestLogger())
	router.Use(api.Recover())

	router.HandleFunc("/api/recommendations", recommendationsHandler.Resolve).Methods(http.MethodPost, http.MethodOptions)

	router.HandleFunc("/api/movies/{movieId}/bundle", detailsHandler.GetBundle).Methods(http.MethodGet, http.MethodOptions)

	router.HandleFunc("/api/watchlist", watchlistHandler.List).Methods(http.MethodGet)
	router.HandleFunc("/api/watchlist", watchlistHandler.Add).Methods(http.MethodPost)
	router.HandleFunc("/api/watchlist", watchlistHandler.Options).Methods(http.MethodOptions)
	router.HandleFunc("/api/watchlist/{movieId}", watchlistHandler.Contains).Methods(http.MethodGet)
	router.HandleFunc("/api/watchlist/{movieId}", watchlistHandler.Remove).Methods(http.MethodDelete)
	router.HandleFunc("/api/watchlist/{movieId}", watchlistHandler.Options).Methods(http.MethodOptions)

	router.HandleFunc("/api/movies/{movieId}/reviews", reviewsHandler.List).Methods(http.MethodGet)
	router.HandleFunc("/api/movies/{movieId}/reviews", reviewLimiter.Limit(reviewsHandler.Submit)).Methods(http.MethodPost)
	router.HandleFunc("/api/movies/{movieId}/reviews", reviewsHandler.Options).Methods(http.MethodOptions)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[main] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[main] shutdown: %v", err)
	}
}

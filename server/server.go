package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/RA1LGUN/AudioClipTool/config"
	"github.com/RA1LGUN/AudioClipTool/core/audio"
	"github.com/RA1LGUN/AudioClipTool/core/clip"
	"github.com/RA1LGUN/AudioClipTool/core/media"
	"github.com/RA1LGUN/AudioClipTool/export"
	"github.com/RA1LGUN/AudioClipTool/logger"
	"github.com/RA1LGUN/AudioClipTool/storage"
	"github.com/RA1LGUN/AudioClipTool/workspace"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogOutput,
		MaxSize:    50,
		MaxBackups: 3,
		MaxAge:     14,
	})

	store, err := workspace.New(cfg.WorkDir, cfg.AssetTTL)
	if err != nil {
		logger.Fatal("failed to initialize workspace", logger.ErrorField(err))
	}

	// Background expiry instead of the inline cleanup tied to request
	// handling; the store ages assets from last access.
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	store.StartSweeper(sweepCtx, cfg.SweepInterval)

	// Publish mode needs blob storage; without credentials the service
	// still serves ingestion and bundle exports.
	var uploader export.Uploader
	if cfg.MinioAccessKey != "" {
		client, err := storage.NewClient(cfg)
		if err != nil {
			logger.Fatal("failed to initialize blob storage", logger.ErrorField(err))
		}
		uploader = client
	} else {
		logger.Warn("MINIO_ACCESS_KEY not set, publish mode disabled")
	}

	apiHandler := NewAPIHandler(
		store,
		audio.NewTranscoder(cfg.FFmpegPath),
		media.NewFetcher(cfg.YtdlpPath, cfg.Proxy),
		clip.NewOrchestrator(store),
		uploader,
		cfg,
	)

	router := mux.NewRouter()
	router.Use(corsMiddleware)

	router.HandleFunc("/api/download", apiHandler.DownloadHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/upload", apiHandler.UploadHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/audio/{file_id}", apiHandler.AudioHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/audio/{file_id}", apiHandler.DeleteAudioHandler).Methods(http.MethodDelete)
	router.HandleFunc("/api/clip", apiHandler.ClipHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/clip-multi", apiHandler.ClipMultiHandler).Methods(http.MethodPost)

	// Frontend UI serving
	uiFileServer := http.FileServer(http.Dir(cfg.WebAppDir))
	router.PathPrefix("/").Handler(uiFileServer)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", logger.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")
	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", logger.ErrorField(err))
	}
	logger.Info("server stopped")
}

// corsMiddleware allows the browser UI to call the API from any origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/medlens/medlens/internal/auth"
	"github.com/medlens/medlens/internal/chat"
	"github.com/medlens/medlens/internal/common"
	"github.com/medlens/medlens/internal/extract"
	"github.com/medlens/medlens/internal/llm"
	"github.com/medlens/medlens/internal/llm/groq"
	"github.com/medlens/medlens/internal/ocr"
	"github.com/medlens/medlens/internal/reports"
	"github.com/medlens/medlens/internal/repository"
	"github.com/medlens/medlens/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, db, err := repository.Open(ctx, repository.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		DialTimeout: cfg.Mongo.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("open mongodb", "error", err)
		os.Exit(1)
	}
	defer repository.Close(context.Background(), client, logger)

	if err := repository.EnsureUserIndexes(ctx, db); err != nil {
		logger.Error("ensure user indexes", "error", err)
		os.Exit(1)
	}

	reportRepo := repository.NewReportRepository(db, logger)
	userRepo := repository.NewUserRepository(db, logger)

	ocrx := ocr.NewExtractor(ocr.Config{
		Tesseract:     cfg.OCR.Tesseract,
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)
	textExtractor := extract.NewOCRAdapter(ocrx, logger)

	completer := groq.NewClient(groq.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	generator := llm.NewGenerator(completer, logger)

	reportSvc := reports.NewService(reportRepo, textExtractor, generator, logger)
	chatSvc := chat.NewService(reportRepo, completer, logger)
	authSvc := auth.NewService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger)

	uploads, err := server.NewUploadStore(cfg.Upload.Dir, logger)
	if err != nil {
		logger.Error("create upload store", "error", err)
		os.Exit(1)
	}

	router := server.SetupRouter(reportSvc, chatSvc, authSvc, uploads, server.Options{
		CORSOrigin:   cfg.Server.CORSOrigin,
		MaxBodyBytes: cfg.Upload.MaxSizeBytes,
		Health: func(ctx context.Context) error {
			return repository.HealthCheck(ctx, client, 5*time.Second)
		},
	}, logger)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}

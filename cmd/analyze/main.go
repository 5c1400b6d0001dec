package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/medlens/medlens/constants"
	"github.com/medlens/medlens/internal/common"
	"github.com/medlens/medlens/internal/llm"
	"github.com/medlens/medlens/internal/llm/groq"
)

// analyze runs the disease and medication analysis over an already
// extracted report text. Takes the text file as its only argument and
// prints both structured results as JSON.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <report.txt> [language]\n", os.Args[0])
		os.Exit(2)
	}
	language := constants.DefaultLanguage
	if len(os.Args) == 3 {
		language = os.Args[2]
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		logger.Error("analyze.read.failed", "file", os.Args[1], "error", err)
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		fmt.Fprintln(os.Stderr, "GROQ_API_KEY is required")
		os.Exit(2)
	}

	client := groq.NewClient(groq.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	gen := llm.NewGenerator(client, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	text := string(raw)
	start := time.Now()

	disease, err := gen.GenerateDiseaseAnalysis(ctx, text, language)
	if err != nil {
		logger.Error("analyze.disease.failed", "error", err)
		os.Exit(1)
	}
	meds, err := gen.GenerateMedicationAnalysis(ctx, text, language)
	if err != nil {
		logger.Error("analyze.medication.failed", "error", err)
		os.Exit(1)
	}

	logger.Info("analyze.done",
		"conditions", len(disease.DiagnosedConditions),
		"medications", len(meds.Medications),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	out := map[string]any{
		"diseaseAnalysis":    disease,
		"medicationAnalysis": meds,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("analyze.encode.failed", "error", err)
		os.Exit(1)
	}
}

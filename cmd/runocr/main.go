package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/medlens/medlens/internal/ocr"
)

// runocr extracts text from a single report file and prints the result.
// Useful for checking what the extraction stage sees before the analysis
// stage ever runs.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <file.pdf|file.jpg|...>\n", os.Args[0])
		os.Exit(2)
	}
	path := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ex := ocr.NewExtractor(ocr.Config{}, logger)

	start := time.Now()
	res, err := ex.Extract(ctx, path)
	if err != nil {
		logger.Error("runocr.extract.failed", "file", path, "error", err)
		os.Exit(1)
	}

	logger.Info("runocr.extract.done",
		"file", path,
		"source_type", res.SourceType,
		"mime", res.MIME,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"warnings", len(res.Warnings),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	for _, w := range res.Warnings {
		logger.Warn("runocr.extract.warning", "warning", w)
	}

	fmt.Println(res.Text)
}

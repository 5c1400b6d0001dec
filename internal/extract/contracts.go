package extract

import (
	"context"
	"time"

	"github.com/medlens/medlens/constants"
)

// TextExtractor is Stage 1 of the pipeline: file -> raw text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text       string
	Pages      int
	SourceType constants.Format
	MIME       string
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr"
	Language   string
	Duration   time.Duration
	Warnings   []string
}

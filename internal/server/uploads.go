package server

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medlens/medlens/constants"
	"github.com/medlens/medlens/internal/common"
)

// UploadStore writes multipart uploads into the transient uploads directory.
// Files live there only until extraction finishes; the orchestrator removes
// them on every path.
type UploadStore struct {
	dir    string
	logger *slog.Logger
}

func NewUploadStore(dir string, logger *slog.Logger) (*UploadStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return &UploadStore{dir: dir, logger: logger}, nil
}

// Save stores the named multipart field under a uuid-prefixed name and
// returns the temp path plus the original file name.
func (u *UploadStore) Save(c *gin.Context, field string) (path, originalName string, err error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", "", common.InvalidInputError("No file uploaded")
	}

	ext := filepath.Ext(fh.Filename)
	if !constants.IsAllowedExt(ext) {
		return "", "", common.InvalidInputErrorf("unsupported file type %q", ext)
	}

	name := uuid.New().String() + ext
	dst := filepath.Join(u.dir, name)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		u.logger.Error("upload save failed", "field", field, "error", err)
		return "", "", common.InternalError("store upload", err)
	}

	u.logger.Debug("upload stored", "field", field, "path", dst, "bytes", fh.Size)
	return dst, fh.Filename, nil
}

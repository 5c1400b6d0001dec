package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medlens/medlens/internal/common"
)

// respondError maps application sentinels onto the HTTP error envelope.
// Client-input and extraction failures are 400, auth failures 401, missing
// resources 404, everything else 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrExtraction):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	}

	message := err.Error()
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	c.JSON(status, gin.H{"success": false, "message": message})
}

package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cropcheckai/cropcheck/internal/jamai"
	"github.com/cropcheckai/cropcheck/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// === REQUEST PARSING ===

// readSubmission pulls the image file and description out of the multipart
// form and validates the image locally. On failure it writes the error
// response itself; nothing has gone upstream at that point.
func (h *CaseHandler) readSubmission(c *gin.Context) (data []byte, filename, description string, ok bool) {
	file, header, err := c.Request.FormFile(imageParamKey)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "No image file provided")
		return nil, "", "", false
	}
	defer file.Close()

	description = c.PostForm(descriptionParamKey)
	if description == "" {
		h.respondError(c, http.StatusBadRequest, "Symptom description is required")
		return nil, "", "", false
	}

	// Read one byte past the cap so an oversized upload is detected
	// without buffering all of it.
	data, err = io.ReadAll(io.LimitReader(file, h.config.Upload.MaxFileSize+1))
	if err != nil {
		h.logger.Error("Failed to read upload", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to read uploaded file")
		return nil, "", "", false
	}

	if _, err := h.intake.Validate(data); err != nil {
		h.respondError(c, http.StatusBadRequest, fmt.Sprintf("Invalid image: %v", err))
		return nil, "", "", false
	}

	prepared, preparedName, err := h.intake.Prepare(data, header.Filename)
	if err != nil {
		h.logger.Error("Failed to prepare image", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to prepare image")
		return nil, "", "", false
	}

	return prepared, preparedName, description, true
}

// === RESPONSE HANDLING ===

func (h *CaseHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// respondAnalysisError maps hosted-service failures onto our status codes.
func (h *CaseHandler) respondAnalysisError(c *gin.Context, err error) {
	h.logger.Error("Analysis call failed", zap.Error(err))

	switch {
	case errors.Is(err, jamai.ErrRateLimited):
		h.respondError(c, http.StatusTooManyRequests, "Analysis service quota exhausted, try again later")
	case errors.Is(err, jamai.ErrUnauthorized):
		h.respondError(c, http.StatusBadGateway, "Analysis service rejected our credentials")
	default:
		h.respondError(c, http.StatusBadGateway, "Analysis service call failed")
	}
}

// === UTILITY METHODS ===

func (h *CaseHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			return "unhealthy"
		}
	}
	return "healthy"
}

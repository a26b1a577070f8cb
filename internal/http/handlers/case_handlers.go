package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/cropcheckai/cropcheck/internal/config"
	"github.com/cropcheckai/cropcheck/internal/models"
	"github.com/cropcheckai/cropcheck/internal/services/processor"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	imageParamKey       = "image"
	descriptionParamKey = "description"
)

// Analyzer runs the diagnosis steps against the hosted service.
type Analyzer interface {
	UploadImage(ctx context.Context, data []byte, filename string) (string, error)
	Detect(ctx context.Context, image []byte, filename, description string) (*models.DetectResult, error)
	Clarify(ctx context.Context, req *models.ClarifyRequest) (*models.ClarifyResult, error)
	Conclude(ctx context.Context, req *models.ConcludeRequest) (*models.FinalResult, error)
}

// JobQueue publishes async detect runs. Nil when RabbitMQ is down.
type JobQueue interface {
	PublishDetectJob(ctx context.Context, job *models.AnalysisJob) error
	HealthCheck() string
}

// JobStore serves job records to polling clients.
type JobStore interface {
	Save(ctx context.Context, job *models.AnalysisJob) error
	Get(ctx context.Context, id string) (*models.AnalysisJob, error)
	HealthCheck(ctx context.Context) string
}

// ServiceProber reports whether the hosted analysis service answers
// authenticated requests.
type ServiceProber interface {
	Health(ctx context.Context) error
}

type CaseHandler struct {
	analyzer Analyzer
	intake   *processor.Intake
	queue    JobQueue
	jobs     JobStore
	hosted   ServiceProber
	logger   *zap.Logger
	config   *config.Config
}

func NewCaseHandler(
	analyzer Analyzer,
	intake *processor.Intake,
	queue JobQueue,
	jobs JobStore,
	hosted ServiceProber,
	logger *zap.Logger,
	config *config.Config,
) *CaseHandler {
	return &CaseHandler{
		analyzer: analyzer,
		intake:   intake,
		queue:    queue,
		jobs:     jobs,
		hosted:   hosted,
		logger:   logger,
		config:   config,
	}
}

// === MAIN API ENDPOINTS ===

// Detect accepts the crop photo plus symptom description and runs the
// first diagnosis step synchronously.
func (h *CaseHandler) Detect(c *gin.Context) {
	data, filename, description, ok := h.readSubmission(c)
	if !ok {
		return
	}

	result, err := h.analyzer.Detect(c.Request.Context(), data, filename, description)
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    result,
	})
}

// DetectAsync validates and uploads the image, then queues the table run.
func (h *CaseHandler) DetectAsync(c *gin.Context) {
	if h.queue == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Async analysis is not available")
		return
	}

	data, filename, description, ok := h.readSubmission(c)
	if !ok {
		return
	}

	imageURI, err := h.analyzer.UploadImage(c.Request.Context(), data, filename)
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}

	job := &models.AnalysisJob{
		ID:          uuid.New().String(),
		ImageURI:    imageURI,
		Description: description,
		Status:      models.StatusPending,
		CreatedAt:   time.Now(),
	}

	if err := h.jobs.Save(c.Request.Context(), job); err != nil {
		h.logger.Error("Failed to store pending job", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to create analysis job")
		return
	}

	if err := h.queue.PublishDetectJob(c.Request.Context(), job); err != nil {
		h.logger.Error("Failed to publish job", zap.String("job_id", job.ID), zap.Error(err))
		// Don't leave a pending record no worker will ever pick up.
		job.Status = models.StatusFailed
		job.Error = "failed to queue analysis job"
		if saveErr := h.jobs.Save(c.Request.Context(), job); saveErr != nil {
			h.logger.Error("Failed to mark job failed", zap.String("job_id", job.ID), zap.Error(saveErr))
		}
		h.respondError(c, http.StatusInternalServerError, "Failed to queue analysis job")
		return
	}

	c.JSON(http.StatusAccepted, models.APIResponse{
		Success: true,
		Data:    gin.H{"job_id": job.ID, "status": job.Status},
	})
}

// Clarify runs the user's answer through the second diagnosis step.
func (h *CaseHandler) Clarify(c *gin.Context) {
	var req models.ClarifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	result, err := h.analyzer.Clarify(c.Request.Context(), &req)
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    result,
	})
}

// Conclude produces the final diagnosis from the compiled case.
func (h *CaseHandler) Conclude(c *gin.Context) {
	var req models.ConcludeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	result, err := h.analyzer.Conclude(c.Request.Context(), &req)
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    result,
	})
}

// GetJob reports the status of an async detect run while its record lives.
func (h *CaseHandler) GetJob(c *gin.Context) {
	job, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, http.StatusNotFound, "Job not found or expired")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    job,
	})
}

// HealthCheck aggregates dependency health.
func (h *CaseHandler) HealthCheck(c *gin.Context) {
	services := map[string]string{
		"redis": h.jobs.HealthCheck(c.Request.Context()),
	}

	if h.queue != nil {
		services["queue"] = h.queue.HealthCheck()
	} else {
		services["queue"] = "not configured"
	}

	if err := h.hosted.Health(c.Request.Context()); err != nil {
		services["analysis_api"] = "unhealthy: " + err.Error()
	} else {
		services["analysis_api"] = "healthy"
	}

	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Services:  services,
		},
	})
}

package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"ocrgate/internal/domain"
	"ocrgate/internal/middleware"
	"ocrgate/internal/service"
)

// multipartOverhead is the body allowance on top of the file size limit for
// multipart boundaries and headers.
const multipartOverhead = 1 << 20

// OCRHandler handles text extraction endpoints.
type OCRHandler struct {
	ocrService   service.OCRService
	statsService service.StatsService
	maxBytes     int64
}

// NewOCRHandler creates a new OCRHandler. Uploads larger than maxBytes are
// rejected.
func NewOCRHandler(ocrService service.OCRService, statsService service.StatsService, maxBytes int64) *OCRHandler {
	return &OCRHandler{ocrService: ocrService, statsService: statsService, maxBytes: maxBytes}
}

// Upload handles POST /ocr/upload
// @Summary Extract text from an image
// @Description Upload an image and get its text and a quality score. Identical images are served from the result cache.
// @Tags ocr
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image to extract text from"
// @Success 200 {object} Response{data=UploadResult} "Extraction result"
// @Failure 400 {object} ErrorResponseBody "Missing file"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} ErrorResponseBody "Extraction failed"
// @Router /ocr/upload [post]
func (h *OCRHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleError(c, domain.ErrFileTooLarge)
			return
		}
		HandleError(c, domain.ErrMissingFile)
		return
	}
	defer func() { _ = file.Close() }()

	if h.maxBytes > 0 && header.Size > h.maxBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		HandleError(c, fmt.Errorf("reading upload: %w", err))
		return
	}

	env := h.ocrService.Process(c.Request.Context(), content, header.Filename)
	if !env.Success {
		h.respondFailure(c, env)
		return
	}

	RespondOK(c, UploadResult{
		Text:         env.Text,
		QualityScore: env.Confidence,
		FromCache:    env.FromCache,
		TotalTime:    env.TotalTime,
		ProcessTime:  env.ProcessTime,
		WordCount:    env.WordCount,
	})
}

func (h *OCRHandler) respondFailure(c *gin.Context, env *domain.Envelope) {
	err := domain.ErrExtractionFailed
	if c.Request.Context().Err() != nil {
		err = domain.ErrRequestCanceled
	}
	status, code, _ := MapDomainError(err)
	log.Warn().Str("request_id", middleware.GetRequestID(c)).Str("error", env.Error).
		Msg("OCRHandler.Upload: extraction failed")
	RespondError(c, status, code, env.Error)
}

// Health handles GET /ocr/health
// @Summary Service health
// @Description Aggregated health of the extraction engine, result cache and concurrency gate.
// @Tags ocr
// @Produce json
// @Success 200 {object} domain.HealthReport "Healthy"
// @Failure 503 {object} domain.HealthReport "Unhealthy"
// @Router /ocr/health [get]
func (h *OCRHandler) Health(c *gin.Context) {
	report := h.statsService.Health(c.Request.Context())
	status := http.StatusOK
	if report.Status != domain.HealthStatusHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

// Stats handles GET /ocr/stats
// @Summary Service statistics
// @Tags ocr
// @Produce json
// @Success 200 {object} Response{data=domain.ServiceStats} "Service statistics"
// @Router /ocr/stats [get]
func (h *OCRHandler) Stats(c *gin.Context) {
	RespondOK(c, h.statsService.Report(c.Request.Context()))
}

// ModelInfo handles GET /ocr/model/info
// @Summary Extraction engine metadata
// @Tags ocr
// @Produce json
// @Success 200 {object} ModelInfoResponse "Model information"
// @Router /ocr/model/info [get]
func (h *OCRHandler) ModelInfo(c *gin.Context) {
	info := h.ocrService.ModelInfo()
	info.Initialized = h.ocrService.Initialized()
	c.JSON(http.StatusOK, ModelInfoResponse{Success: true, ModelInfo: info})
}

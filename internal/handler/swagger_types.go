package handler

import (
	"ocrgate/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// UploadResult is the data payload of a successful upload.
type UploadResult struct {
	Text         string         `json:"text" example:"INVOICE #1024"`
	QualityScore float64        `json:"quality_score" example:"0.92"`
	FromCache    bool           `json:"from_cache" example:"false"`
	TotalTime    domain.Seconds `json:"total_time" swaggertype:"number" example:"1.84"`
	ProcessTime  domain.Seconds `json:"process_time" swaggertype:"number" example:"1.79"`
	WordCount    int            `json:"word_count" example:"42"`
}

// ModelInfoResponse is the body of GET /ocr/model/info.
type ModelInfoResponse struct {
	Success   bool             `json:"success" example:"true"`
	ModelInfo domain.ModelInfo `json:"model_info"`
}

// HealthResponse represents the liveness/readiness response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"extraction engine not ready"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ocrgate/internal/domain"
	"ocrgate/internal/handler"
	"ocrgate/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func uploadContext(t *testing.T, filename string, content []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body, contentType := multipartBody(t, "file", filename, content)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/ocr/upload", body)
	c.Request.Header.Set("Content-Type", contentType)
	return c, w
}

func TestOCRHandler_Upload_Success(t *testing.T) {
	mockOCR := new(mocks.MockOCRService)
	h := handler.NewOCRHandler(mockOCR, new(mocks.MockStatsService), 1<<20)

	mockOCR.On("Process", mock.Anything, []byte("image"), "scan.png").Return(&domain.Envelope{
		ExtractionResult: domain.ExtractionResult{
			Success:     true,
			Text:        "HELLO",
			Confidence:  0.92,
			WordCount:   1,
			ProcessTime: domain.Seconds(1500 * time.Millisecond),
		},
		FromCache: true,
		TotalTime: domain.Seconds(2 * time.Second),
	})

	c, w := uploadContext(t, "scan.png", []byte("image"))
	h.Upload(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"text":"HELLO","quality_score":0.92,"from_cache":true,
		"total_time":2,"process_time":1.5,"word_count":1}}`, w.Body.String())
	mockOCR.AssertExpectations(t)
}

func TestOCRHandler_Upload_ExtractionFailed(t *testing.T) {
	mockOCR := new(mocks.MockOCRService)
	h := handler.NewOCRHandler(mockOCR, new(mocks.MockStatsService), 1<<20)

	mockOCR.On("Process", mock.Anything, mock.Anything, "bad.jpg").
		Return(&domain.Envelope{ExtractionResult: *domain.FailedResult(assert.AnError)})

	c, w := uploadContext(t, "bad.jpg", []byte("junk"))
	h.Upload(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "EXTRACTION_FAILED", resp.Error.Code)
	assert.Equal(t, assert.AnError.Error(), resp.Error.Message)
}

func TestOCRHandler_Upload_CanceledRequest(t *testing.T) {
	mockOCR := new(mocks.MockOCRService)
	h := handler.NewOCRHandler(mockOCR, new(mocks.MockStatsService), 1<<20)

	mockOCR.On("Process", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Envelope{ExtractionResult: *domain.FailedResult(domain.ErrRequestCanceled)})

	c, w := uploadContext(t, "a.png", []byte("a"))
	ctx, cancel := context.WithCancel(c.Request.Context())
	cancel()
	c.Request = c.Request.WithContext(ctx)
	h.Upload(c)

	assert.Equal(t, http.StatusRequestTimeout, w.Code)
}

func TestOCRHandler_Upload_NoFile(t *testing.T) {
	mockOCR := new(mocks.MockOCRService)
	h := handler.NewOCRHandler(mockOCR, new(mocks.MockStatsService), 1<<20)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/ocr/upload", nil)

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockOCR.AssertNotCalled(t, "Process", mock.Anything, mock.Anything, mock.Anything)
}

func TestOCRHandler_Upload_WrongField(t *testing.T) {
	mockOCR := new(mocks.MockOCRService)
	h := handler.NewOCRHandler(mockOCR, new(mocks.MockStatsService), 1<<20)

	body, contentType := multipartBody(t, "image", "a.png", []byte("a"))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/ocr/upload", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOCRHandler_Upload_TooLarge(t *testing.T) {
	mockOCR := new(mocks.MockOCRService)
	h := handler.NewOCRHandler(mockOCR, new(mocks.MockStatsService), 1024)

	c, w := uploadContext(t, "big.png", bytes.Repeat([]byte("x"), 4096))
	h.Upload(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	mockOCR.AssertNotCalled(t, "Process", mock.Anything, mock.Anything, mock.Anything)
}

func TestOCRHandler_Health(t *testing.T) {
	tests := []struct {
		name       string
		status     domain.HealthStatus
		wantStatus int
	}{
		{"healthy", domain.HealthStatusHealthy, http.StatusOK},
		{"unhealthy", domain.HealthStatusUnhealthy, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStats := new(mocks.MockStatsService)
			h := handler.NewOCRHandler(new(mocks.MockOCRService), mockStats, 1<<20)
			mockStats.On("Health", mock.Anything).Return(&domain.HealthReport{
				Status:  tt.status,
				Service: "ocrgate OCR Service",
				Stats:   &domain.ServiceStats{Gate: domain.GateStats{Capacity: 3, Available: 3}},
			})

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/ocr/health", nil)
			h.Health(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, string(tt.status), body["status"])
			assert.Contains(t, body, "stats")
			assert.Contains(t, body, "timestamp")
		})
	}
}

func TestOCRHandler_Stats(t *testing.T) {
	mockStats := new(mocks.MockStatsService)
	h := handler.NewOCRHandler(new(mocks.MockOCRService), mockStats, 1<<20)
	mockStats.On("Report", mock.Anything).Return(&domain.ServiceStats{
		Service:     "ocrgate OCR Service",
		Initialized: true,
		Cache:       domain.CacheStats{Connected: true, Keys: 2, Memory: "1M"},
		Gate:        domain.GateStats{Capacity: 3, Available: 1, InUse: 2},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/ocr/stats", nil)
	h.Stats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool                `json:"success"`
		Data    domain.ServiceStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Data.Gate.InUse)
	assert.Equal(t, int64(2), resp.Data.Cache.Keys)
}

func TestOCRHandler_ModelInfo(t *testing.T) {
	mockOCR := new(mocks.MockOCRService)
	h := handler.NewOCRHandler(mockOCR, new(mocks.MockStatsService), 1<<20)
	mockOCR.On("ModelInfo").Return(domain.ModelInfo{Name: "Tesseract", Provider: "tesseract-cli", Available: true})
	mockOCR.On("Initialized").Return(true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/ocr/model/info", nil)
	h.ModelInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.ModelInfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "tesseract-cli", resp.ModelInfo.Provider)
	assert.True(t, resp.ModelInfo.Initialized)
}

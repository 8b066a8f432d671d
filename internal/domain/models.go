package domain

import (
	"encoding/json"
	"math"
	"time"
)

// Seconds is a duration that encodes to JSON as fractional seconds.
type Seconds time.Duration

// Duration returns s as a time.Duration.
func (s Seconds) Duration() time.Duration {
	return time.Duration(s)
}

func (s Seconds) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(s).Seconds())
}

func (s *Seconds) UnmarshalJSON(data []byte) error {
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return err
	}
	*s = Seconds(math.Round(secs * float64(time.Second)))
	return nil
}

// Word is a single recognized word with its confidence.
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ExtractionResult is the output of one call to an extraction engine. It is
// also the value stored in the result cache.
type ExtractionResult struct {
	Success     bool    `json:"success"`
	Text        string  `json:"text"`
	Confidence  float64 `json:"confidence"`
	WordCount   int     `json:"word_count"`
	Words       []Word  `json:"extracted_words"`
	Error       string  `json:"error,omitempty"`
	ProcessTime Seconds `json:"process_time"`
}

// FailedResult builds a failure-shaped result carrying err's message.
func FailedResult(err error) *ExtractionResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &ExtractionResult{
		Success:    false,
		Text:       "",
		Confidence: 0,
		Error:      msg,
	}
}

// ClampConfidence bounds c to [0, 1]. NaN becomes 0.
func ClampConfidence(c float64) float64 {
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// Envelope is the per-request response of the extraction pipeline.
type Envelope struct {
	ExtractionResult
	FromCache bool    `json:"from_cache"`
	TotalTime Seconds `json:"total_time"`
}

// CacheStats is a read-only snapshot of the result cache.
type CacheStats struct {
	Connected bool   `json:"connected"`
	Keys      int64  `json:"keys"`
	Memory    string `json:"memory"`
	Uptime    int64  `json:"uptime"`
	Error     string `json:"error,omitempty"`
}

// GateStats is a read-only snapshot of the concurrency gate.
type GateStats struct {
	Capacity  int `json:"capacity"`
	Available int `json:"available"`
	InUse     int `json:"in_use"`
}

// ServiceStats aggregates the health and capacity signals of the service.
type ServiceStats struct {
	Service             string     `json:"service"`
	Initialized         bool       `json:"initialized"`
	ExtractionAvailable bool       `json:"extraction_available"`
	Cache               CacheStats `json:"cache"`
	Gate                GateStats  `json:"gate"`
}

// HealthReport is ServiceStats plus a derived status.
type HealthReport struct {
	Status    HealthStatus  `json:"status"`
	Service   string        `json:"service"`
	Stats     *ServiceStats `json:"stats"`
	Timestamp time.Time     `json:"timestamp"`
}

// ModelInfo is static metadata about the extraction engine.
type ModelInfo struct {
	Name        string   `json:"name"`
	Provider    string   `json:"provider"`
	Available   bool     `json:"available"`
	Initialized bool     `json:"initialized"`
	Description string   `json:"description"`
	Version     string   `json:"version,omitempty"`
	Languages   []string `json:"languages,omitempty"`
}

package domain

// HealthStatus is the derived health of the service.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// DigestAlgorithm selects the hash used to derive content keys.
type DigestAlgorithm string

const (
	DigestMD5    DigestAlgorithm = "md5"
	DigestBLAKE3 DigestAlgorithm = "blake3"
)

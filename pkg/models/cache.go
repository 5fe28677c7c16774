package models

// CacheStats reports cache performance metrics.
type CacheStats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status string      `json:"status"`
	Cache  *CacheStats `json:"cache,omitempty"`
}

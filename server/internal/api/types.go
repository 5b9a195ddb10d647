package api

// HealthResponse is the payload for GET /health.
type HealthResponse struct {
	FreshCount    int   `json:"fresh_count"`
	TotalCount    int   `json:"total_count"`
	NewestAgeSecs int64 `json:"newest_age_secs"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

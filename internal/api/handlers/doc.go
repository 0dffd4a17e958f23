package handlers

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

// StatusResponse is the health and readiness response body.
type StatusResponse struct {
	Status string   `json:"status" example:"ok"`
	Failed []string `json:"failed,omitempty" example:"store"`
}

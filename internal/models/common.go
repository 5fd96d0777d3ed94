package models

// ErrorResponse is a standardized error response for API
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
}

// WebhookAck is returned for webhook events the service accepts but ignores.
type WebhookAck struct {
	Received bool `json:"received"`
}

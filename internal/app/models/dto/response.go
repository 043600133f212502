package dto

import "time"

// APIResponse is the envelope of every JSON API answer.
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in a successful envelope.
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// CreatedResponse returns the id of a new record.
type CreatedResponse struct {
	ID string `json:"id" example:"6f1c2a4e-0b7d-4a51-9d43-3f0f5b7f8c21"`
}

// ListResponse wraps a collection listing.
type ListResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total" example:"5"`
}

// HealthResponse reports store connectivity.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Store  string `json:"store" example:"postgres"`
}

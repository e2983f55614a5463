// Package dto defines request and response shapes for API v1.
// Response bodies reuse domain structs where those already carry
// canonical JSON tags; this package holds request types and the small
// wrappers that do not map one-to-one onto a domain type.
package dto

// IDResponse carries the identifier of a newly created record.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps a homogeneous collection.
type ListResponse[T any] struct {
	Items []T `json:"items"`
}

// Package handlers implements the explorer's HTTP endpoints.
//
// Error responses share one envelope (ErrorResponse) carrying a stable,
// lowercase snake_case code that clients can branch on:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "comparison_full",
//	  "message": "comparison set is full"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/tbourn/go-motormony/internal/recommend"
	"github.com/tbourn/go-motormony/internal/results"
	"github.com/tbourn/go-motormony/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeComparisonFull       = "comparison_full"
	ErrCodeAlreadyCompared      = "already_compared"
	ErrCodeRecommendationFailed = "recommendation_failed"
	ErrCodeStaleResponse        = "stale_response"
)

// classify maps a service error onto (status, code, message).
func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrSearchNotFound),
		errors.Is(err, services.ErrVehicleNotFound),
		errors.Is(err, results.ErrIndexOutOfRange):
		return http.StatusNotFound, ErrCodeNotFound, err.Error()

	case errors.Is(err, services.ErrEmptyQuery),
		errors.Is(err, services.ErrQueryTooLong),
		errors.Is(err, services.ErrInvalidSort),
		errors.Is(err, services.ErrInvalidView),
		errors.Is(err, services.ErrInvalidYear):
		return http.StatusBadRequest, ErrCodeBadRequest, err.Error()

	case errors.Is(err, results.ErrComparisonFull):
		return http.StatusConflict, ErrCodeComparisonFull, results.ErrComparisonFull.Error()
	case errors.Is(err, results.ErrAlreadyCompared):
		return http.StatusConflict, ErrCodeAlreadyCompared, results.ErrAlreadyCompared.Error()
	case errors.Is(err, results.ErrStaleResponse):
		return http.StatusConflict, ErrCodeStaleResponse, "query was superseded by a newer one"

	case errors.Is(err, recommend.ErrService):
		msg := "recommendation service failed"
		var se *recommend.ServiceError
		if errors.As(err, &se) && se.Message != "" {
			msg = se.Message
		}
		return http.StatusBadGateway, ErrCodeRecommendationFailed, msg
	}
	return http.StatusInternalServerError, ErrCodeInternal, "internal server error"
}

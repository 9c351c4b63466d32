// Package services hosts explorer sessions: it owns one results engine per
// session, runs queries against the recommendation service, and persists
// selections, search history and the comparison set.
//
// This file centralizes the service-level error values. Translation into
// HTTP status codes happens in the handler layer.
package services

import (
	"errors"

	"github.com/tbourn/go-motormony/internal/results"
)

var (
	// ErrSessionNotFound indicates that the session does not exist or is not
	// owned by the caller.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSearchNotFound indicates that the search does not belong to the
	// session.
	ErrSearchNotFound = errors.New("search not found")

	// ErrEmptyQuery is returned when a submitted query is blank.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrQueryTooLong is returned when a query exceeds MaxQueryRunes.
	ErrQueryTooLong = errors.New("query too long")

	// ErrInvalidSort is returned for an unknown sort tag.
	ErrInvalidSort = errors.New("invalid sort order")

	// ErrInvalidView is returned for an unknown view mode.
	ErrInvalidView = errors.New("invalid view mode")

	// ErrInvalidYear is returned for a year filter that is neither "all" nor
	// a positive integer.
	ErrInvalidYear = errors.New("invalid year filter")

	// ErrVehicleNotFound is returned when a comparison reference names a
	// vehicle that is in neither the results nor the comparison set.
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrStaleResponse is returned when a query was superseded before its
	// response arrived.
	ErrStaleResponse = results.ErrStaleResponse
)

package domain

import (
	"errors"
	"fmt"
)

// Domain errors as sentinel values
var (
	// Criteria errors. All of them match ErrInvalidCriteria with errors.Is.
	ErrInvalidCriteria  = errors.New("invalid search criteria")
	ErrEmptyDestination = fmt.Errorf("%w: destination cannot be empty", ErrInvalidCriteria)
	ErrInvalidStayDates = fmt.Errorf("%w: check-out date must be after check-in date", ErrInvalidCriteria)
	ErrNoRooms          = fmt.Errorf("%w: at least one room is required", ErrInvalidCriteria)
	ErrNoAdults         = fmt.Errorf("%w: at least one room must have an adult", ErrInvalidCriteria)
	ErrInvalidChildAge  = fmt.Errorf("%w: child age must be between 0 and 17", ErrInvalidCriteria)
	ErrInvalidResidency = fmt.Errorf("%w: residency must be a two-letter country code", ErrInvalidCriteria)
	ErrInvalidCurrency  = fmt.Errorf("%w: currency must be a three-letter code", ErrInvalidCriteria)

	// Filter errors
	ErrUnknownSortMode = errors.New("unknown sort mode")
	ErrInvalidFilter   = errors.New("invalid filter")

	// Session errors
	ErrSessionNotFound        = errors.New("search session not found")
	ErrSessionExpired         = errors.New("search session has expired")
	ErrResultsExpired         = errors.New("search results are no longer cached")
	ErrListingNotFound        = errors.New("listing not found in search results")
	ErrConcurrentModification = errors.New("search session was modified concurrently")

	// Upstream errors
	ErrSearchUnavailable = errors.New("search service unavailable")
	ErrSearchRejected    = errors.New("search service rejected the request")
)

package apperrors

import "net/http"

// Factories wrapping repository errors.

func ErrNotFound(err error, resource string) *AppError {
	return Wrap(err, CodeNotFound, resource, resource+" not found", http.StatusNotFound)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// Predefined errors for the fulfillment engine.

var (
	ErrNeedNotFound    = New(CodeNotFound, "need", "Need not found", http.StatusNotFound)
	ErrRequestNotFound = New(CodeNotFound, "request", "Request not found", http.StatusNotFound)
	ErrListNotFound    = New(CodeNotFound, "ranking", "Ranking list not found", http.StatusNotFound)
	ErrProjectNotFound = New(CodeNotFound, "project", "Project not found", http.StatusNotFound)

	// Strategy/quantity invariant violations, reported before any state mutation.
	ErrSequentialQuantity = New(CodeValidationFailed, "need",
		"Sequential strategy requires quantity of exactly 1", http.StatusBadRequest)
	ErrParallelQuantity = New(CodeValidationFailed, "need",
		"Parallel strategy requires quantity of at least 2", http.StatusBadRequest)
	ErrMaxRecipientsTooLow = New(CodeValidationFailed, "need",
		"Max recipients must be at least the need quantity", http.StatusBadRequest)
	ErrUnknownStrategy = New(CodeValidationFailed, "need",
		"Unknown dispatch strategy", http.StatusBadRequest)
	ErrMaxRecipientsNotAllowed = New(CodeValidationFailed, "need",
		"Max recipients is only valid for the first_come strategy", http.StatusBadRequest)

	ErrNoQualifiedCandidates = New(CodeValidationFailed, "need",
		"The bound ranking list has no qualified candidates", http.StatusBadRequest)
	ErrNoAvailableCandidates = New(CodeValidationFailed, "need",
		"No candidates remain available after project-wide exclusion", http.StatusBadRequest)

	ErrNeedCompleted = New(CodeInvalidStatus, "need",
		"Need is already completed", http.StatusBadRequest)
	ErrInvalidOutcome = New(CodeValidationFailed, "request",
		"Outcome must be accepted or declined", http.StatusBadRequest)

	ErrRateLimited = New(CodeLimitExceeded, "request",
		"Too many requests, try again later", http.StatusTooManyRequests)
)

package errors

import "net/http"

var (
	ErrUnsupportedFormat = New(
		"UNSUPPORTED_FORMAT",
		"Unsupported file format",
		http.StatusUnsupportedMediaType,
	)

	ErrMalformedInput = New(
		"MALFORMED_INPUT",
		"File could not be parsed",
		http.StatusUnprocessableEntity,
	)

	ErrSessionNotFound = New(
		"SESSION_NOT_FOUND",
		"Session not found or expired",
		http.StatusNotFound,
	)

	ErrRecordNotFound = New(
		"RECORD_NOT_FOUND",
		"Record not found",
		http.StatusNotFound,
	)

	ErrInvalidBBox = New(
		"INVALID_BBOX",
		"Invalid bounding box",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidFilter = New(
		"INVALID_FILTER",
		"Unknown filter field",
		http.StatusBadRequest,
	)

	ErrUploadTooLarge = New(
		"UPLOAD_TOO_LARGE",
		"Uploaded file is too large",
		http.StatusRequestEntityTooLarge,
	)

	ErrRateLimited = New(
		"RATE_LIMITED",
		"Too many requests",
		http.StatusTooManyRequests,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)

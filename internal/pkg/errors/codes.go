package errors

import "net/http"

var (
	ErrStationNotFound = New(
		"STATION_NOT_FOUND",
		"Station not found",
		http.StatusNotFound,
	)

	ErrRunNotFound = New(
		"RUN_NOT_FOUND",
		"No fusion run recorded yet",
		http.StatusNotFound,
	)

	ErrRunFailed = New(
		"RUN_FAILED",
		"Fusion run failed",
		http.StatusInternalServerError,
	)

	ErrInvalidYear = New(
		"INVALID_YEAR",
		"Invalid year value",
		http.StatusBadRequest,
	)

	ErrInvalidSpeed = New(
		"INVALID_SPEED",
		"Invalid speed value",
		http.StatusBadRequest,
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

package errors

import "net/http"

var (
	ErrPlaceNotFound = New(
		"PLACE_NOT_FOUND",
		"Place not found",
		KindNotFound,
		http.StatusNotFound,
	)

	ErrReviewNotFound = New(
		"REVIEW_NOT_FOUND",
		"Review not found",
		KindNotFound,
		http.StatusNotFound,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		KindValidation,
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		KindValidation,
		http.StatusBadRequest,
	)

	ErrReviewAlreadyExists = New(
		"REVIEW_ALREADY_EXISTS",
		"You have already reviewed this place, edit the existing review instead",
		KindAlreadyExists,
		http.StatusConflict,
	)

	ErrReviewForbidden = New(
		"REVIEW_FORBIDDEN",
		"No permission for this review",
		KindForbidden,
		http.StatusForbidden,
	)

	ErrUnauthorized = New(
		"LOGIN_REQUIRED",
		"Authentication required",
		KindUnauthorized,
		http.StatusUnauthorized,
	)

	ErrUpstreamUnavailable = New(
		"UPSTREAM_UNAVAILABLE",
		"External provider is unavailable",
		KindUpstreamUnavailable,
		http.StatusBadGateway,
	)

	ErrUpstreamBadResponse = New(
		"UPSTREAM_BAD_RESPONSE",
		"External provider returned an invalid response",
		KindUpstreamBadResponse,
		http.StatusBadGateway,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		KindInternal,
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		KindInternal,
		http.StatusInternalServerError,
	)
)

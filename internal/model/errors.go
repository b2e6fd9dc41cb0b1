package model

import "errors"

// Sentinel errors shared across services. Handlers translate these into
// HTTP status codes at the request boundary; everything else wraps them
// with %w and extra context.
var (
	// ErrValidation marks missing or malformed client input
	ErrValidation = errors.New("validation error")

	// ErrUnauthorized marks a missing or invalid credential
	ErrUnauthorized = errors.New("not authenticated")

	// ErrForbidden marks an authenticated principal without the required role
	ErrForbidden = errors.New("not authorized")

	// ErrNotFound marks a lookup for an id that does not exist
	ErrNotFound = errors.New("not found")

	// ErrExtraction marks a failed ffprobe/ffmpeg metadata extraction
	ErrExtraction = errors.New("metadata extraction failed")

	// ErrPersistence marks a catalog store failure
	ErrPersistence = errors.New("persistence error")
)

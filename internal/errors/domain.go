package errors

import (
	"fmt"
	"net/http"
)

// Domain-specific error codes for consistent API responses

// Generation and persistence errors
var (
	ErrChunkIO       = &AppError{Code: "CHUNK_IO", Message: "Chunk persistence failed", HTTPStatus: http.StatusServiceUnavailable}
	ErrImageTooLarge = &AppError{Code: "IMAGE_TOO_LARGE", Message: "Export exceeds the 100 megapixel cap", HTTPStatus: http.StatusBadRequest}
	ErrVerification  = &AppError{Code: "VERIFICATION_FAILED", Message: "Chunk failed critical verification", HTTPStatus: http.StatusInternalServerError}
	ErrInvariant     = &AppError{Code: "INVARIANT_VIOLATION", Message: "World invariant violated", HTTPStatus: http.StatusInternalServerError}
	ErrOutOfCapacity = &AppError{Code: "OUT_OF_CAPACITY", Message: "Capacity limit reached", HTTPStatus: http.StatusConflict}
)

// World errors
var (
	ErrWorldNotFound  = &AppError{Code: "WORLD_NOT_FOUND", Message: "World not found", HTTPStatus: http.StatusNotFound}
	ErrWorldExists    = &AppError{Code: "WORLD_EXISTS", Message: "A world is already loaded", HTTPStatus: http.StatusConflict}
	ErrTileOutOfRange = &AppError{Code: "TILE_OUT_OF_RANGE", Message: "Tile coordinate outside the map", HTTPStatus: http.StatusBadRequest}
)

// Chronicle errors
var (
	ErrChronicleStore = &AppError{Code: "CHRONICLE_STORE", Message: "Chronicle store unavailable", HTTPStatus: http.StatusServiceUnavailable}
)

// NewNotFound returns a NotFound error with a custom message
func NewNotFound(format string, args ...any) error {
	return &AppError{
		Code:       ErrNotFound.Code,
		Message:    fmt.Sprintf(format, args...),
		HTTPStatus: ErrNotFound.HTTPStatus,
	}
}

// NewInvalidInput returns an InvalidInput error with a custom message
func NewInvalidInput(format string, args ...any) error {
	return &AppError{
		Code:       ErrInvalidInput.Code,
		Message:    fmt.Sprintf(format, args...),
		HTTPStatus: ErrInvalidInput.HTTPStatus,
	}
}

// NewInvariant returns an invariant-violation error with a custom message
func NewInvariant(format string, args ...any) error {
	return &AppError{
		Code:       ErrInvariant.Code,
		Message:    fmt.Sprintf(format, args...),
		HTTPStatus: ErrInvariant.HTTPStatus,
	}
}

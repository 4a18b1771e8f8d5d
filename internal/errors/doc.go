// Package errors provides standardized error handling for the world
// generator and simulator.
//
// # Core Types
//
//   - AppError: Application-level error with HTTP context, error code, and message
//   - ErrorResponse: JSON structure for API error responses
//
// # Usage
//
// Using predefined errors:
//
//	if px > maxExportPixels {
//	    return errors.ErrImageTooLarge
//	}
//
// Wrapping errors with context:
//
//	if err := store.Save(chunk); err != nil {
//	    return errors.Wrap(errors.ErrChunkIO, "failed to save chunk", err)
//	}
//
// # Policy
//
// The core never aborts: IO failures degrade to in-memory operation,
// exhausted pathfinding falls back to Bresenham without surfacing an
// error, capacity limits silently skip the attempted action, and failed
// verification retries then caches the chunk marked invalid. Errors
// escape to callers only at the service surface.
package errors

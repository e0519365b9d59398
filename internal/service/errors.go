package service

import "errors"

// Error definitions for the generation pipeline. Everything the pipeline
// itself can fail with is caught inside the orchestrator and converted to
// a terminal error status; only request-shape problems surface as direct
// errors to the HTTP layer.
var (
	ErrInvalidDate   = errors.New("date must be in YYYY-MM-DD format")
	ErrDayNotFound   = errors.New("workout day not found")
	ErrBatchTooLarge = errors.New("bulk upsert batch exceeds the maximum size")
	ErrEmptyBatch    = errors.New("bulk upsert batch is empty")
)

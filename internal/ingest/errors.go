package ingest

import "errors"

var (
	// ErrUnsupportedFormat is returned for file types that have no reader
	ErrUnsupportedFormat = errors.New("unsupported input format")

	// ErrNoFiles is returned when the data folder has no matching files
	ErrNoFiles = errors.New("no matching input files")
)

package catalog

import "errors"

var (
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidLicenseType = errors.New("invalid license type")
	ErrInvalidFilePayload = errors.New("invalid file payload")
	ErrInvalidBPM         = errors.New("bpm must be positive")
	ErrInvalidPrice       = errors.New("price cannot be negative")
)

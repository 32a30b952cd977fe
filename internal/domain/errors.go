package domain

import "errors"

var (
	ErrUnknownLicenseType      = errors.New("unknown license type")
	ErrUnknownSubmissionStatus = errors.New("unknown submission status")
)

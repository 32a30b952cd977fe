package submission

import "errors"

var (
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidStatus      = errors.New("invalid submission status")
	ErrInvalidFilePayload = errors.New("invalid file payload")
)

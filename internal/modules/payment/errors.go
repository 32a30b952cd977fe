package payment

import "errors"

var (
	ErrBeatNotFound     = errors.New("beat not found")
	ErrMissingSignature = errors.New("missing signature")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrUpstream         = errors.New("payment provider request failed")
)

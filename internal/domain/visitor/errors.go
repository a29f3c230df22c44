package visitor

import "errors"

var (
	ErrVisitorNotFound   = errors.New("visitor not found")
	ErrHostNotFound      = errors.New("host employee not found")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

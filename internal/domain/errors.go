package domain

import "errors"

// ErrInvalidInput marks configuration or input a job cannot run with.
// Callers test for it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

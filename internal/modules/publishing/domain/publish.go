package domain

import (
	"github.com/reshetovitsme/contentguard/internal/shared/media"
)

// Post is the approved content handed to a publisher
type Post struct {
	Text  string
	Image *media.Image
}

// Result reports a publish attempt. Expected failures are results, not errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Succeeded builds a positive result
func Succeeded(message string) Result {
	return Result{Success: true, Message: message}
}

// Failed builds a negative result
func Failed(message string) Result {
	return Result{Success: false, Message: message}
}

package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeCancelled represents a cooperative cancellation of the run
	ErrorTypeCancelled ErrorType = "cancelled"
	// ErrorTypeHTTP represents a non-2xx response after exhausting fallbacks
	ErrorTypeHTTP ErrorType = "http"
	// ErrorTypeAntiBot represents a 403 rejection by an anti-bot system
	ErrorTypeAntiBot ErrorType = "anti_bot"
	// ErrorTypeExtraction represents malformed HTML, JSON or PDF content
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeCapability represents an optional capability that is absent
	ErrorTypeCapability ErrorType = "capability"
)

// ScrapeError represents a scrape-specific error
type ScrapeError struct {
	Type    ErrorType
	Status  int
	URL     string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	switch {
	case e.Status > 0:
		return fmt.Sprintf("[%s] HTTP %d %s", e.Type, e.Status, e.URL)
	case e.Err != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	default:
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewCancelled creates a cancellation error
func NewCancelled() *ScrapeError {
	return &ScrapeError{Type: ErrorTypeCancelled, Message: "run cancelled"}
}

// NewHTTP creates an error for a failed HTTP request
func NewHTTP(status int, url string) *ScrapeError {
	return &ScrapeError{Type: ErrorTypeHTTP, Status: status, URL: url}
}

// NewNetwork creates an error for a transport round trip that never
// produced a response
func NewNetwork(url string, err error) *ScrapeError {
	return &ScrapeError{Type: ErrorTypeHTTP, URL: url, Message: "request failed", Err: err}
}

// NewAntiBot creates an error for a 403 anti-bot rejection
func NewAntiBot(url string) *ScrapeError {
	return &ScrapeError{Type: ErrorTypeAntiBot, Status: 403, URL: url}
}

// NewExtraction creates an error for unparseable content
func NewExtraction(message string, err error) *ScrapeError {
	return &ScrapeError{Type: ErrorTypeExtraction, Message: message, Err: err}
}

// NewCapability creates an error for an absent optional capability
func NewCapability(name string) *ScrapeError {
	return &ScrapeError{Type: ErrorTypeCapability, Message: name + " unavailable"}
}

// IsCancelled reports whether err is a cancellation error. Cancellation is
// the only error allowed to unwind past a single strategy attempt.
func IsCancelled(err error) bool {
	var se *ScrapeError
	return errors.As(err, &se) && se.Type == ErrorTypeCancelled
}

// IsAntiBot reports whether err is an anti-bot rejection
func IsAntiBot(err error) bool {
	var se *ScrapeError
	return errors.As(err, &se) && se.Type == ErrorTypeAntiBot
}

// StatusOf returns the HTTP status carried by err, or 0 if err carries none
func StatusOf(err error) int {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

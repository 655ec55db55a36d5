package domain

import "fmt"

// Error codes for domain errors
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeParseError        = "PARSE_ERROR"
	ErrCodeScanError         = "SCAN_ERROR"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeLicenseData       = "LICENSE_DATA_ERROR"
)

// DomainError is the error type shared across the application layers
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a domain error with an explicit code
func NewDomainError(code, message string, cause error) error {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// NewInvalidInputError creates an error for invalid user input
func NewInvalidInputError(message string, cause error) error {
	return DomainError{Code: ErrCodeInvalidInput, Message: message, Cause: cause}
}

// NewFileNotFoundError creates an error for a missing file
func NewFileNotFoundError(path string, cause error) error {
	return DomainError{Code: ErrCodeFileNotFound, Message: fmt.Sprintf("file not found: %s", path), Cause: cause}
}

// NewParseError creates an error for a file that could not be parsed
func NewParseError(path string, cause error) error {
	return DomainError{Code: ErrCodeParseError, Message: fmt.Sprintf("failed to parse: %s", path), Cause: cause}
}

// NewScanError creates an error for a failed scan run
func NewScanError(message string, cause error) error {
	return DomainError{Code: ErrCodeScanError, Message: message, Cause: cause}
}

// NewConfigError creates an error for configuration problems
func NewConfigError(message string, cause error) error {
	return DomainError{Code: ErrCodeConfigError, Message: message, Cause: cause}
}

// NewOutputError creates an error for output/serialization failures
func NewOutputError(message string, cause error) error {
	return DomainError{Code: ErrCodeOutputError, Message: message, Cause: cause}
}

// NewUnsupportedFormatError creates an error for an unknown output format
func NewUnsupportedFormatError(format string) error {
	return DomainError{Code: ErrCodeUnsupportedFormat, Message: fmt.Sprintf("unsupported format: %s", format)}
}

// NewLicenseDataError creates an error for a malformed known-licenses file.
// License-data problems are tool errors: they abort the whole run.
func NewLicenseDataError(message string, cause error) error {
	return DomainError{Code: ErrCodeLicenseData, Message: message, Cause: cause}
}

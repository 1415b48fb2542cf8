package domain

import "fmt"

// Error codes for domain errors
const (
	ErrCodeConfig       = "CONFIG_ERROR"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeAnalysis     = "ANALYSIS_ERROR"
	ErrCodeTool         = "TOOL_ERROR"
	ErrCodePrecondition = "PRECONDITION_FAILED"
)

// DomainError represents an error with a classification code
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
func NewDomainError(code, message string, cause error) DomainError {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) DomainError {
	return NewDomainError(ErrCodeConfig, message, cause)
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) DomainError {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewAnalysisError creates an analysis error
func NewAnalysisError(message string, cause error) DomainError {
	return NewDomainError(ErrCodeAnalysis, message, cause)
}

// NewToolError creates a tool infrastructure error. Tool errors are
// run-blocking: they are never downgraded to a per-file PASS.
func NewToolError(message string, cause error) DomainError {
	return NewDomainError(ErrCodeTool, message, cause)
}

// NewPreconditionError creates an environment precondition error
// (e.g. compiler version mismatch). Precondition errors abort the run
// before any tool work starts.
func NewPreconditionError(message string, cause error) DomainError {
	return NewDomainError(ErrCodePrecondition, message, cause)
}

// IsToolError reports whether err is a tool infrastructure failure
func IsToolError(err error) bool {
	return hasCode(err, ErrCodeTool)
}

// IsPreconditionError reports whether err is an environment precondition failure
func IsPreconditionError(err error) bool {
	return hasCode(err, ErrCodePrecondition)
}

func hasCode(err error, code string) bool {
	for err != nil {
		if de, ok := err.(DomainError); ok && de.Code == code {
			return true
		}
		if de, ok := err.(*DomainError); ok && de.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// BoolPtr returns a pointer to the given bool
func BoolPtr(b bool) *bool {
	return &b
}

// BoolValue returns the value of a bool pointer, or def when nil
func BoolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

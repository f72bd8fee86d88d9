package app

import (
	"fmt"
	"strings"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatPlist = "plist"
)

// OutputFormats lists the accepted values of Context.OutputFormat
var OutputFormats = []string{FormatTable, FormatJSON, FormatYAML, FormatPlist}

// ValidateOutputFormat rejects unknown output formats
func ValidateOutputFormat(format string) error {
	for _, f := range OutputFormats {
		if f == format {
			return nil
		}
	}
	return NewError(ErrCodeInvalidInput,
		fmt.Sprintf("unsupported output format %q (want %s)", format, strings.Join(OutputFormats, ", ")), nil)
}

// CommonError represents application-level errors
type CommonError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CommonError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CommonError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeSourceAccess = "SOURCE_ACCESS"
	ErrCodeDecode       = "DECODE_FAILED"
	ErrCodeEncode       = "ENCODE_FAILED"
	ErrCodeWrite        = "WRITE_FAILED"
)

// NewError creates a new CommonError
func NewError(code, message string, cause error) *CommonError {
	return &CommonError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

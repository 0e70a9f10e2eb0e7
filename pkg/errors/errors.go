package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory groups errors by the subsystem that produced them
type ErrorCategory string

const (
	CategoryFile           ErrorCategory = "file"
	CategoryExtract        ErrorCategory = "extract"
	CategoryNormalize      ErrorCategory = "normalize"
	CategoryMapping        ErrorCategory = "mapping"
	CategoryReconciliation ErrorCategory = "reconciliation"
	CategoryConfiguration  ErrorCategory = "configuration"
	CategoryInternal       ErrorCategory = "internal"
)

// ErrorCode identifies a specific failure within a category
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"
	CodeFileCorrupted  ErrorCode = "file_corrupted"

	// Extract errors
	CodeSheetMissing  ErrorCode = "sheet_missing"
	CodeRegionOutside ErrorCode = "region_outside"
	CodeColumnMissing ErrorCode = "column_missing"
	CodeBadDescriptor ErrorCode = "bad_descriptor"

	// Mapping errors
	CodeMappingInvalid ErrorCode = "mapping_invalid"

	// Reconciliation errors
	CodeJoinFailed ErrorCode = "join_failed"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// DashboardError is the base error type for all application errors.
// The transformation core itself never raises on dirty data; these errors
// cover structural misuse such as unreadable files or invalid configuration.
type DashboardError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *DashboardError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *DashboardError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate process exit code for the error
func (e *DashboardError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryExtract, CategoryNormalize:
		return 3
	case CategoryConfiguration, CategoryMapping:
		return 4
	case CategoryReconciliation, CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *DashboardError) WithContext(key string, value interface{}) *DashboardError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a hint for resolving the error
func (e *DashboardError) WithSuggestion(suggestion string) *DashboardError {
	e.Suggestion = suggestion
	return e
}

// New creates a new DashboardError
func New(category ErrorCategory, code ErrorCode, message string) *DashboardError {
	return &DashboardError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with DashboardError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *DashboardError {
	if err == nil {
		return nil
	}

	return &DashboardError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *DashboardError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("source file not found: %s", path)
		suggestion = "check the data directory and file name"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied reading file: %s", path)
		suggestion = "check file permissions"
	case CodeFileCorrupted:
		message = fmt.Sprintf("file could not be decoded: %s", path)
		suggestion = "verify the workbook opens in a spreadsheet application"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *DashboardError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// ExtractError creates an error for a region that could not be extracted.
// Only raised in strict mode; the default behavior is an empty table.
func ExtractError(code ErrorCode, sheet, region string, err error) *DashboardError {
	var message string
	var suggestion string

	switch code {
	case CodeSheetMissing:
		message = fmt.Sprintf("sheet %q is not present in the workbook", sheet)
		suggestion = "check whether the sheet was renamed in the source file"
	case CodeRegionOutside:
		message = fmt.Sprintf("region %s lies outside the data on sheet %q", region, sheet)
		suggestion = "the sheet layout may have shifted; update the region descriptor"
	case CodeColumnMissing:
		message = fmt.Sprintf("region %s on sheet %q references columns beyond the sheet width", region, sheet)
		suggestion = "check the column indices in the region descriptor"
	case CodeBadDescriptor:
		message = fmt.Sprintf("region descriptor %s for sheet %q is invalid", region, sheet)
		suggestion = "fix the descriptor; headers and columns must agree"
	default:
		message = fmt.Sprintf("extraction failed for region %s on sheet %q", region, sheet)
		suggestion = "check the sheet layout against the region descriptor"
	}

	var result *DashboardError
	if err != nil {
		result = Wrap(err, CategoryExtract, code, message)
	} else {
		result = New(CategoryExtract, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("sheet", sheet).
		WithContext("region", region)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, value interface{}, err error) *DashboardError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for '%s': %v", setting, value)
		suggestion = "check the configuration documentation for valid values"
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this setting via flag, env or config file"
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
		suggestion = "check your configuration and try again"
	}

	var result *DashboardError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("setting", setting).
		WithContext("value", value)
}

// MappingError creates an error for an unusable category-mapping table
func MappingError(source string, err error) *DashboardError {
	message := fmt.Sprintf("category mapping table %s could not be loaded", source)

	var result *DashboardError
	if err != nil {
		result = Wrap(err, CategoryMapping, CodeMappingInvalid, message)
	} else {
		result = New(CategoryMapping, CodeMappingInvalid, message)
	}

	return result.
		WithSuggestion("check the YAML mapping file for syntax errors").
		WithContext("source", source)
}

// InternalError creates an internal error
func InternalError(operation string, err error) *DashboardError {
	message := fmt.Sprintf("unexpected error during %s", operation)

	var result *DashboardError
	if err != nil {
		result = Wrap(err, CategoryInternal, CodeUnexpectedError, message)
	} else {
		result = New(CategoryInternal, CodeUnexpectedError, message)
	}

	return result.
		WithSuggestion("this is likely a bug - please report it with the error details").
		WithContext("operation", operation)
}

// IsDashboardError checks if an error is a DashboardError
func IsDashboardError(err error) bool {
	_, ok := err.(*DashboardError)
	return ok
}

// AsDashboardError extracts a DashboardError from an error chain
func AsDashboardError(err error) (*DashboardError, bool) {
	var dashErr *DashboardError
	if errors.As(err, &dashErr) {
		return dashErr, true
	}
	return nil, false
}

// WrapIfNeeded wraps an error if it's not already a DashboardError
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *DashboardError {
	if err == nil {
		return nil
	}

	if dashErr, ok := AsDashboardError(err); ok {
		return dashErr
	}

	return Wrap(err, category, code, message)
}

// FormatForDisplay renders a one-line user-facing description of the error
func FormatForDisplay(err error) string {
	dashErr, ok := AsDashboardError(err)
	if !ok {
		return err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s/%s] %s", dashErr.Category, dashErr.Code, dashErr.Message)
	if dashErr.Suggestion != "" {
		fmt.Fprintf(&b, "\n  suggestion: %s", dashErr.Suggestion)
	}
	return b.String()
}

// Package errors provides the error types used across rostersync.
// Each type answers errors.Is for one of the sentinels below, so callers can
// classify a failure (fatal to a group, fatal to a user, or a validation error)
// without knowing the concrete type.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Join is an alias for the standard library errors.Join.
var Join = errors.Join

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// As is an alias for the standard library errors.As.
var As = errors.As

// Unwrap is an alias for the standard library errors.Unwrap.
var Unwrap = errors.Unwrap

// Sentinel errors.
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable indicates a roster or holds report could not be loaded
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrAmbiguousIdentity indicates more than one directory identity matched a roster key
	ErrAmbiguousIdentity = errors.New("ambiguous identity")

	// ErrAmbiguousGroup indicates more than one directory group matched a group name
	ErrAmbiguousGroup = errors.New("ambiguous group")

	// ErrRemoteOperationFailed indicates the directory answered a call with a non-success response
	ErrRemoteOperationFailed = errors.New("remote operation failed")

	// ErrUnauthenticated indicates credentials were rejected or a token is unusable
	ErrUnauthenticated = errors.New("unauthenticated")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError is raised before any network call when an operation's input
// is unusable. It is never partially applied.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// SourceError reports a roster or holds report that could not be fetched or parsed.
type SourceError struct {
	Source string
	Err    error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// NewSourceError creates a new SourceError
func NewSourceError(source string, err error) *SourceError {
	return &SourceError{Source: source, Err: err}
}

// AmbiguousIdentityError reports a roster key that matched several directory identities.
type AmbiguousIdentityError struct {
	Key         string
	SecondaryID string
	IDs         []string
}

// Error implements the error interface
func (e *AmbiguousIdentityError) Error() string {
	return fmt.Sprintf("roster key %s (secondary id %q) matched %d directory identities: %s",
		e.Key, e.SecondaryID, len(e.IDs), strings.Join(e.IDs, ", "))
}

// Is implements errors.Is support
func (e *AmbiguousIdentityError) Is(target error) bool {
	return target == ErrAmbiguousIdentity
}

// AmbiguousGroupError reports a group name that matched several directory groups.
type AmbiguousGroupError struct {
	Name string
	IDs  []string
}

// Error implements the error interface
func (e *AmbiguousGroupError) Error() string {
	return fmt.Sprintf("group name %q matched %d directory groups: %s", e.Name, len(e.IDs), strings.Join(e.IDs, ", "))
}

// Is implements errors.Is support
func (e *AmbiguousGroupError) Is(target error) bool {
	return target == ErrAmbiguousGroup
}

// APIError represents a non-success response from a remote API
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Service, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if target == ErrRemoteOperationFailed {
		return true
	}
	if target == ErrUnauthenticated {
		return e.StatusCode == 401 || e.StatusCode == 403
	}
	if target == ErrNotFound {
		return e.StatusCode == 404
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(service string, statusCode int, message string) *APIError {
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "csv", "json"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s parse error in %s at line %d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s parse error in %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error reading or writing a local file
type IOError struct {
	Operation string // "read", "write", "create", "open"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// AuthenticationError represents an authentication/authorization error
type AuthenticationError struct {
	Service string
	Method  string // "password", "basic", "bearer"
	Message string
	Err     error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("authentication error for %s (%s): %s", e.Service, e.Method, e.Message)
	}
	return fmt.Sprintf("authentication error (%s): %s", e.Method, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrUnauthenticated
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(service, method, message string, err error) *AuthenticationError {
	return &AuthenticationError{
		Service: service,
		Method:  method,
		Message: message,
		Err:     err,
	}
}

// GroupSyncError wraps the failure that aborted one group's sync.
type GroupSyncError struct {
	Group string
	Step  string
	Err   error
}

// Error implements the error interface
func (e *GroupSyncError) Error() string {
	return fmt.Sprintf("sync of group %s aborted during %s: %v", e.Group, e.Step, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *GroupSyncError) Unwrap() error {
	return e.Err
}

// NewGroupSyncError creates a new GroupSyncError
func NewGroupSyncError(group, step string, err error) *GroupSyncError {
	return &GroupSyncError{Group: group, Step: step, Err: err}
}

// UserError records a per-user operation that failed and was skipped.
type UserError struct {
	Key    string
	Action string
	Err    error
}

// Error implements the error interface
func (e *UserError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action, e.Key, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *UserError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsSourceUnavailable checks if an error is a source error
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsAmbiguous checks if an error is an identity or group ambiguity
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguousIdentity) || errors.Is(err, ErrAmbiguousGroup)
}

// IsRemoteOperationFailed checks if an error came from a failed remote call
func IsRemoteOperationFailed(err error) bool {
	return errors.Is(err, ErrRemoteOperationFailed)
}

// IsFatalToGroup reports whether err must abort the remainder of a group's sync.
func IsFatalToGroup(err error) bool {
	return IsSourceUnavailable(err) || IsAmbiguous(err)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapSource wraps an error as a SourceError
func WrapSource(source string, err error) error {
	if err == nil {
		return nil
	}
	return NewSourceError(source, err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(service string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}

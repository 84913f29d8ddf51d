package identity

import (
	"strings"

	"github.com/agentstation/rostersync/pkg/errors"
)

// Status is the lifecycle state of a directory identity.
type Status string

// Status values. No other value is produced or accepted.
const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// String returns the status name.
func (s Status) String() string {
	return string(s)
}

// Validate returns a validation error for anything outside the enumeration.
func (s Status) Validate() error {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return nil
	default:
		return errors.NewValidationError("status", string(s), "must be one of active, inactive, suspended")
	}
}

// ParseStatus accepts the status name in any case.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

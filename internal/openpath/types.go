package openpath

import (
	"strconv"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
)

// Wire status codes.
const (
	statusActive    = "A"
	statusInactive  = "I"
	statusSuspended = "S"
)

type envelope[T any] struct {
	Data       T   `json:"data"`
	TotalCount int `json:"totalCount,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type wireIdentity struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type wireGroup struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

type wireUser struct {
	ID         int64        `json:"id"`
	Status     string       `json:"status"`
	ExternalID string       `json:"externalId,omitempty"`
	Identity   wireIdentity `json:"identity"`
	Groups     []wireGroup  `json:"groups,omitempty"`
}

type createUserRequest struct {
	Identity   wireIdentity `json:"identity"`
	ExternalID string       `json:"externalId,omitempty"`
}

// patchUserRequest uses pointers so that only set fields are sent.
type patchUserRequest struct {
	Identity   *patchIdentity `json:"identity,omitempty"`
	ExternalID *string        `json:"externalId,omitempty"`
}

type patchIdentity struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type groupIDsRequest struct {
	GroupIDs []int64 `json:"groupIds"`
}

func (u wireUser) toIdentity() (identity.Identity, error) {
	status, err := parseStatus(u.Status)
	if err != nil {
		return identity.Identity{}, err
	}
	groups := identity.NewGroupIDs()
	for _, g := range u.Groups {
		groups.Add(formatID(g.ID))
	}
	return identity.Identity{
		ID:          formatID(u.ID),
		PrimaryKey:  u.Identity.Email,
		SecondaryID: u.ExternalID,
		FirstName:   u.Identity.FirstName,
		LastName:    u.Identity.LastName,
		Status:      status,
		GroupIDs:    groups,
	}, nil
}

func parseStatus(code string) (identity.Status, error) {
	switch code {
	case statusActive:
		return identity.StatusActive, nil
	case statusInactive:
		return identity.StatusInactive, nil
	case statusSuspended:
		return identity.StatusSuspended, nil
	default:
		return "", errors.NewValidationError("status", code, "unknown Openpath user status")
	}
}

func statusCode(s identity.Status) (string, error) {
	switch s {
	case identity.StatusActive:
		return statusActive, nil
	case identity.StatusInactive:
		return statusInactive, nil
	case identity.StatusSuspended:
		return statusSuspended, nil
	default:
		return "", s.Validate()
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(field, id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, errors.NewValidationError(field, id, "must be a numeric Openpath id")
	}
	return n, nil
}

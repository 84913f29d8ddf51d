// Package openpath implements directory.Client against the Openpath access
// control API. Users are listed with preFilter queries, paginated with
// offset/limit, and group membership is replaced as a whole id set.
package openpath

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/agentstation/rostersync/internal/transport"
	"github.com/agentstation/rostersync/pkg/directory"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
	"github.com/agentstation/rostersync/pkg/logging"
)

const service = "openpath"

// Compile-time interface check.
var _ directory.Client = (*Client)(nil)

// Client is an Openpath directory client. The token is set once at
// construction and only read afterwards.
type Client struct {
	cfg  Config
	http *transport.Client

	// groupMu serializes read-modify-write of a user's group id set.
	groupMu sync.Mutex
}

// NewClient creates a client that authenticates with token.
func NewClient(cfg Config, token *Token, opts ...transport.Option) *Client {
	value := ""
	if token != nil {
		value = token.Value
	}
	return &Client{
		cfg:  cfg,
		http: transport.New(service, &transport.BearerAuth{Token: value}, opts...),
	}
}

// Connect logs in and returns a ready client.
func Connect(ctx context.Context, cfg Config, opts ...transport.Option) (*Client, error) {
	token, err := Login(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return NewClient(cfg, token, opts...), nil
}

// ListGroupMembers implements directory.Client.
func (c *Client) ListGroupMembers(ctx context.Context, groupName string) (identity.Members, error) {
	users, err := c.listUsers(ctx, "group.name:(="+groupName+")")
	if err != nil {
		return nil, err
	}
	active := make([]identity.Identity, 0, len(users))
	for _, u := range users {
		if u.IsActive() {
			active = append(active, u)
		}
	}
	logging.FromContext(ctx).Debug().
		Str("group", groupName).
		Int("listed", len(users)).
		Int("active", len(active)).
		Msg("Listed Openpath group members")
	return identity.NewMembers(active), nil
}

// SearchByPrimaryKey implements directory.Client.
func (c *Client) SearchByPrimaryKey(ctx context.Context, key string) ([]identity.Identity, error) {
	if key == "" {
		return nil, nil
	}
	return c.listUsers(ctx, "identity.email:(="+key+")")
}

// SearchBySecondaryID implements directory.Client.
func (c *Client) SearchBySecondaryID(ctx context.Context, id string) ([]identity.Identity, error) {
	if id == "" {
		return nil, nil
	}
	return c.listUsers(ctx, "externalId:(="+id+")")
}

// ResolveGroupID implements directory.Client.
func (c *Client) ResolveGroupID(ctx context.Context, groupName string) (string, error) {
	q := url.Values{}
	q.Set("preFilter", "name:(="+groupName+")")

	var resp envelope[[]wireGroup]
	if err := c.http.DoJSON(ctx, http.MethodGet, c.cfg.orgURL()+"/groups?"+q.Encode(), nil, &resp); err != nil {
		return "", err
	}

	var ids []string
	for _, g := range resp.Data {
		if g.Name == "" || g.Name == groupName {
			ids = append(ids, formatID(g.ID))
		}
	}
	switch len(ids) {
	case 0:
		return "", errors.NewNotFoundError("group", groupName)
	case 1:
		return ids[0], nil
	default:
		return "", &errors.AmbiguousGroupError{Name: groupName, IDs: ids}
	}
}

// CreateIdentity implements directory.Client.
func (c *Client) CreateIdentity(ctx context.Context, req directory.NewIdentity) (identity.Identity, error) {
	if err := req.Validate(); err != nil {
		return identity.Identity{}, err
	}
	body := createUserRequest{
		Identity: wireIdentity{
			Email:     req.PrimaryKey,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		},
		ExternalID: req.SecondaryID,
	}
	var resp envelope[wireUser]
	if err := c.http.DoJSON(ctx, http.MethodPost, c.cfg.orgURL()+"/users", body, &resp); err != nil {
		return identity.Identity{}, err
	}
	return resp.Data.toIdentity()
}

// UpdateIdentity implements directory.Client.
func (c *Client) UpdateIdentity(ctx context.Context, id string, update directory.IdentityUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	if _, err := parseID("id", id); err != nil {
		return err
	}

	body := patchUserRequest{ExternalID: update.SecondaryID}
	if update.PrimaryKey != nil || update.FirstName != nil || update.LastName != nil {
		body.Identity = &patchIdentity{
			Email:     update.PrimaryKey,
			FirstName: update.FirstName,
			LastName:  update.LastName,
		}
	}
	return c.http.DoJSON(ctx, http.MethodPatch, c.userURL(id), body, nil)
}

// SetStatus implements directory.Client.
func (c *Client) SetStatus(ctx context.Context, id string, status identity.Status) error {
	code, err := statusCode(status)
	if err != nil {
		return err
	}
	if _, err := parseID("id", id); err != nil {
		return err
	}
	return c.http.DoJSON(ctx, http.MethodPut, c.userURL(id)+"/status", statusRequest{Status: code}, nil)
}

// AddToGroup implements directory.Client.
func (c *Client) AddToGroup(ctx context.Context, id, groupID string) error {
	return c.updateGroups(ctx, id, groupID, func(g identity.GroupIDs) bool { return g.Add(groupID) })
}

// RemoveFromGroup implements directory.Client.
func (c *Client) RemoveFromGroup(ctx context.Context, id, groupID string) error {
	return c.updateGroups(ctx, id, groupID, func(g identity.GroupIDs) bool { return g.Remove(groupID) })
}

// updateGroups reads the user's current groups, applies change and writes the
// full set back. Nothing is written when change reports no difference.
func (c *Client) updateGroups(ctx context.Context, id, groupID string, change func(identity.GroupIDs) bool) error {
	if _, err := parseID("id", id); err != nil {
		return err
	}
	if _, err := parseID("group_id", groupID); err != nil {
		return err
	}

	c.groupMu.Lock()
	defer c.groupMu.Unlock()

	user, err := c.getUser(ctx, id)
	if err != nil {
		return err
	}
	groups := user.GroupIDs.Clone()
	if !change(groups) {
		logging.FromContext(ctx).Trace().
			Str("user_id", id).
			Str("group_id", groupID).
			Msg("Group membership already in target state")
		return nil
	}

	body := groupIDsRequest{GroupIDs: make([]int64, 0, len(groups))}
	for _, gid := range groups.Sorted() {
		n, err := parseID("group_id", gid)
		if err != nil {
			return err
		}
		body.GroupIDs = append(body.GroupIDs, n)
	}
	return c.http.DoJSON(ctx, http.MethodPut, c.userURL(id)+"/groupIds", body, nil)
}

func (c *Client) getUser(ctx context.Context, id string) (identity.Identity, error) {
	var resp envelope[wireUser]
	if err := c.http.DoJSON(ctx, http.MethodGet, c.userURL(id), nil, &resp); err != nil {
		return identity.Identity{}, err
	}
	return resp.Data.toIdentity()
}

// listUsers pages through GET /users with the given preFilter.
func (c *Client) listUsers(ctx context.Context, preFilter string) ([]identity.Identity, error) {
	limit := c.cfg.pageSize()
	var out []identity.Identity
	for offset := 0; ; offset += limit {
		q := url.Values{}
		q.Set("preFilter", preFilter)
		q.Set("offset", strconv.Itoa(offset))
		q.Set("limit", strconv.Itoa(limit))

		var page envelope[[]wireUser]
		if err := c.http.DoJSON(ctx, http.MethodGet, c.cfg.orgURL()+"/users?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}
		for _, u := range page.Data {
			id, err := u.toIdentity()
			if err != nil {
				return nil, err
			}
			out = append(out, id)
		}
		if len(page.Data) < limit || (page.TotalCount > 0 && offset+len(page.Data) >= page.TotalCount) {
			break
		}
	}
	return out, nil
}

func (c *Client) userURL(id string) string {
	return c.cfg.orgURL() + "/users/" + url.PathEscape(id)
}

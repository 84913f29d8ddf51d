package openpath

import (
	"net/url"
	"strings"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
)

// Config holds Openpath API settings.
type Config struct {
	URL      string `json:"url" yaml:"url" mapstructure:"url"`
	OrgID    string `json:"org_id" yaml:"org_id" mapstructure:"org_id"`
	Email    string `json:"email" yaml:"email" mapstructure:"email"`
	Password string `json:"-" yaml:"-" mapstructure:"password"`
	PageSize int    `json:"page_size,omitempty" yaml:"page_size,omitempty" mapstructure:"page_size"`
}

// Validate checks that every field needed to log in is present.
func (c Config) Validate() error {
	switch {
	case c.URL == "":
		return errors.NewConfigError(service, "url is required", nil)
	case c.OrgID == "":
		return errors.NewConfigError(service, "org_id is required", nil)
	case c.Email == "":
		return errors.NewConfigError(service, "email is required", nil)
	case c.Password == "":
		return errors.NewConfigError(service, "password is required", nil)
	}
	if _, err := url.ParseRequestURI(c.URL); err != nil {
		return errors.NewConfigError(service, "url is not valid", err)
	}
	return nil
}

func (c Config) baseURL() string {
	return strings.TrimRight(c.URL, "/")
}

func (c Config) orgURL() string {
	return c.baseURL() + "/orgs/" + url.PathEscape(c.OrgID)
}

func (c Config) pageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return constants.DefaultPageSize
}

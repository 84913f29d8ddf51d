package openpath

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agentstation/rostersync/internal/transport"
	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/logging"
)

// Token is an Openpath access token acquired once per run.
type Token struct {
	Value     string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// Login exchanges the configured credentials for an access token.
//
// The token's exp claim is read without verifying the signature (the client
// has no key to verify with) so a token that is already expired, or about to
// expire, is rejected up front instead of failing halfway through a run.
func Login(ctx context.Context, cfg Config, opts ...transport.Option) (*Token, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := transport.New(service, &transport.NoAuth{}, opts...)
	var resp envelope[loginResponse]
	err := client.DoJSON(ctx, http.MethodPost, cfg.baseURL()+"/auth/login",
		loginRequest{Email: cfg.Email, Password: cfg.Password}, &resp)
	if err != nil {
		return nil, errors.NewAuthenticationError(service, "password", "login failed", err)
	}
	if resp.Data.Token == "" {
		return nil, errors.NewAuthenticationError(service, "password", "login response carried no token", nil)
	}

	token := &Token{Value: resp.Data.Token}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token.Value, claims); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("Access token is not a JWT, skipping expiry check")
		return token, nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, errors.NewAuthenticationError(service, "password", "access token has a malformed exp claim", err)
	}
	if exp != nil {
		token.ExpiresAt = exp.Time
		if time.Until(exp.Time) < constants.TokenExpiryMargin {
			return nil, errors.NewAuthenticationError(service, "password", "access token expires at "+exp.Time.Format(time.RFC3339), nil)
		}
	}

	logging.FromContext(ctx).Debug().
		Time("expires_at", token.ExpiresAt).
		Msg("Authenticated with Openpath")
	return token, nil
}

package portal

import (
	"context"
	"net/url"
	"strconv"
)

// TokenURL is the OAuth2 token endpoint of the portal.
func (c *Client) TokenURL() string {
	return c.SharingURL("/oauth2/token")
}

// GenerateToken obtains a referer-bound token with the legacy username/password grant.
// expiration is in minutes.
func (c *Client) GenerateToken(ctx context.Context, username, password string, expiration int) (*TokenResponse, error) {
	form := url.Values{
		"username":   {username},
		"password":   {password},
		"client":     {"referer"},
		"referer":    {c.referer},
		"expiration": {strconv.Itoa(expiration)},
	}

	var resp TokenResponse
	if err := c.postForm(ctx, "generateToken", c.SharingURL("/generateToken"), "", form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

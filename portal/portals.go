package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Self returns the portal description as seen by the token's owner.
func (c *Client) Self(ctx context.Context, token string) (*PortalSelf, error) {
	var resp PortalSelf
	if err := c.getJSON(ctx, "portalSelf", c.SharingURL("/portals/self"), token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InviteNewUsers creates accounts through the self-service invite operation of a
// multi-tenant portal.
func (c *Client) InviteNewUsers(ctx context.Context, token string, list InvitationList) (*InviteResponse, error) {
	if list.Apps == nil {
		list.Apps = []string{}
	}
	if list.AppBundles == nil {
		list.AppBundles = []string{}
	}
	encoded, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to encode invitation list: %w", err)
	}
	form := url.Values{"invitationList": {string(encoded)}}

	var resp InviteResponse
	if err := c.postForm(ctx, "portalInvite", c.SharingURL("/portals/self/invite"), token, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateUser creates a built-in account through the admin API of a single-tenant portal.
func (c *Client) CreateUser(ctx context.Context, token string, user CreateUserRequest) (*CreateUserResponse, error) {
	form := url.Values{
		"username":          {user.Username},
		"password":          {user.Password},
		"firstname":         {user.Firstname},
		"lastname":          {user.Lastname},
		"email":             {user.Email},
		"role":              {user.Role},
		"userLicenseTypeId": {user.UserLicenseTypeID},
	}

	var resp CreateUserResponse
	if err := c.postForm(ctx, "createUser", c.baseURL+"/portaladmin/security/users/createUser", token, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

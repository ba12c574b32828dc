package portal

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

const (
	groupMemberRole       = "group_member"
	groupInviteExpiration = 1440 // minutes
)

// CommunitySelf returns the profile of the token's owner.
func (c *Client) CommunitySelf(ctx context.Context, token string) (*CommunitySelf, error) {
	var resp CommunitySelf
	if err := c.getJSON(ctx, "communitySelf", c.SharingURL("/community/self"), token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GroupUsers(ctx context.Context, token, groupID string) (*GroupUsers, error) {
	endpoint := c.SharingURL("/community/groups/" + url.PathEscape(groupID) + "/users")

	var resp GroupUsers
	if err := c.getJSON(ctx, "groupUsers", endpoint, token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddUsersToGroup adds users directly. Users the portal refused are listed in NotAdded.
func (c *Client) AddUsersToGroup(ctx context.Context, token, groupID string, usernames ...string) (*AddUsersResponse, error) {
	endpoint := c.SharingURL("/community/groups/" + url.PathEscape(groupID) + "/addUsers")
	form := url.Values{"users": {joinUsers(usernames)}}

	var resp AddUsersResponse
	if err := c.postForm(ctx, "groupAddUsers", endpoint, token, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InviteToGroup sends group invitations as an ordinary member.
func (c *Client) InviteToGroup(ctx context.Context, token, groupID string, usernames ...string) (*SuccessResponse, error) {
	endpoint := c.SharingURL("/community/groups/" + url.PathEscape(groupID) + "/invite")
	form := url.Values{
		"users":      {joinUsers(usernames)},
		"role":       {groupMemberRole},
		"expiration": {strconv.Itoa(groupInviteExpiration)},
	}

	var resp SuccessResponse
	if err := c.postForm(ctx, "groupInvite", endpoint, token, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserInvitations lists the pending invitations of username. token must belong to that user.
func (c *Client) UserInvitations(ctx context.Context, token, username string) (*UserInvitations, error) {
	endpoint := c.SharingURL("/community/users/" + url.PathEscape(username) + "/invitations")

	var resp UserInvitations
	if err := c.getJSON(ctx, "userInvitations", endpoint, token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AcceptInvitation(ctx context.Context, token, username, invitationID string) (*SuccessResponse, error) {
	endpoint := c.SharingURL("/community/users/" + url.PathEscape(username) + "/invitations/" + url.PathEscape(invitationID) + "/accept")

	var resp SuccessResponse
	if err := c.postForm(ctx, "acceptInvitation", endpoint, token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func joinUsers(usernames []string) string {
	return strings.Join(usernames, ",")
}

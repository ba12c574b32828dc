package portal

// TokenResponse is returned by the legacy generateToken endpoint.
type TokenResponse struct {
	Token   string `json:"token"`
	Expires int64  `json:"expires"`
	SSL     bool   `json:"ssl"`
}

// PortalSelf is the subset of /portals/self used here.
type PortalSelf struct {
	ID                          string      `json:"id"`
	Name                        string      `json:"name"`
	DefaultUserCreditAssignment *float64    `json:"defaultUserCreditAssignment"`
	User                        *PortalUser `json:"user"`
}

type PortalUser struct {
	Username string `json:"username"`
	OrgID    string `json:"orgId"`
}

// CommunitySelf is the token owner's profile from /community/self.
type CommunitySelf struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	OrgID    string `json:"orgId"`
}

type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

type QueryResponse struct {
	Features []Feature `json:"features"`
}

type Feature struct {
	Attributes map[string]any `json:"attributes"`
}

// GroupUsers is the roster of a group.
type GroupUsers struct {
	Owner  string   `json:"owner"`
	Admins []string `json:"admins"`
	Users  []string `json:"users"`
}

type AddUsersResponse struct {
	NotAdded []string `json:"notAdded"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type UserInvitations struct {
	UserInvitations []Invitation `json:"userInvitations"`
}

// Invitation is a pending group invitation addressed to a user.
type Invitation struct {
	ID      string `json:"id"`
	GroupID string `json:"groupId"`
	Type    string `json:"type"`
	Role    string `json:"role"`
}

// NewUserInvitation is one entry of the invitationList sent to /portals/self/invite.
type NewUserInvitation struct {
	Username             string  `json:"username"`
	Firstname            string  `json:"firstname"`
	Lastname             string  `json:"lastname"`
	Fullname             string  `json:"fullname"`
	Email                string  `json:"email"`
	Password             string  `json:"password"`
	Role                 string  `json:"role"`
	UserLicenseType      string  `json:"userLicenseType"`
	Groups               string  `json:"groups"`
	UserCreditAssignment float64 `json:"userCreditAssignment"`
	UserType             string  `json:"userType"`
}

type InvitationList struct {
	Invitations []NewUserInvitation `json:"invitations"`
	Apps        []string            `json:"apps"`
	AppBundles  []string            `json:"appBundles"`
}

type InviteResponse struct {
	Success    bool     `json:"success"`
	NotInvited []string `json:"notInvited"`
}

// CreateUserRequest is the form sent to the portal admin createUser operation.
type CreateUserRequest struct {
	Username          string
	Password          string
	Firstname         string
	Lastname          string
	Email             string
	Role              string
	UserLicenseTypeID string
}

type CreateUserResponse struct {
	Status string `json:"status"`
}

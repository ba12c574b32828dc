package provisioning

import (
	"context"
	"fmt"
	"slices"

	apperrors "github.com/jrsteele09/portal-group-access/internal/errors"
	"github.com/jrsteele09/portal-group-access/portal"
)

const (
	multiTenantName  = "multi_tenant"
	singleTenantName = "single_tenant"

	builtInUserType = "arcgisonly"

	MessageMayAlreadyExist = "Username may already exist."
)

var (
	_ Strategy = (*MultiTenantStrategy)(nil)
	_ Strategy = (*SingleTenantStrategy)(nil)
)

// MultiTenantStrategy creates accounts through the organization's self-service
// invite, which also assigns the license, credits and group in one call.
type MultiTenantStrategy struct {
	portal *portal.Client
}

func NewMultiTenantStrategy(client *portal.Client) *MultiTenantStrategy {
	return &MultiTenantStrategy{portal: client}
}

func (s *MultiTenantStrategy) Name() string {
	return multiTenantName
}

func (s *MultiTenantStrategy) Create(ctx context.Context, token string, user NewUser, ent Entitlements) error {
	list := portal.InvitationList{
		Invitations: []portal.NewUserInvitation{{
			Username:             user.Username,
			Firstname:            user.GivenName,
			Lastname:             user.FamilyName,
			Fullname:             user.FullName(),
			Email:                user.Email,
			Password:             user.Password,
			Role:                 ent.RoleID,
			UserLicenseType:      ent.LicenseID,
			Groups:               ent.GroupID,
			UserCreditAssignment: ent.Credits,
			UserType:             builtInUserType,
		}},
	}

	resp, err := s.portal.InviteNewUsers(ctx, token, list)
	if err != nil {
		return classify(err)
	}
	if slices.Contains(resp.NotInvited, user.Username) {
		return apperrors.Provisioning(MessageMayAlreadyExist, fmt.Errorf("portal did not invite %s", user.Username))
	}
	return nil
}

// SingleTenantStrategy creates accounts through the portal administrator API.
// Group membership is handled afterwards by the reconciler.
type SingleTenantStrategy struct {
	portal *portal.Client
}

func NewSingleTenantStrategy(client *portal.Client) *SingleTenantStrategy {
	return &SingleTenantStrategy{portal: client}
}

func (s *SingleTenantStrategy) Name() string {
	return singleTenantName
}

func (s *SingleTenantStrategy) Create(ctx context.Context, token string, user NewUser, ent Entitlements) error {
	_, err := s.portal.CreateUser(ctx, token, portal.CreateUserRequest{
		Username:          user.Username,
		Password:          user.Password,
		Firstname:         user.GivenName,
		Lastname:          user.FamilyName,
		Email:             user.Email,
		Role:              ent.RoleID,
		UserLicenseTypeID: ent.LicenseID,
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

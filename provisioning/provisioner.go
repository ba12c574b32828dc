// Package provisioning creates new portal accounts. How an account is created
// depends on the portal topology, so the work is delegated to a Strategy that
// is chosen once from the portal URL.
package provisioning

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/jrsteele09/portal-group-access/internal/errors"
	"github.com/jrsteele09/portal-group-access/internal/metrics"
	"github.com/jrsteele09/portal-group-access/internal/utils"
	"github.com/jrsteele09/portal-group-access/portal"
	"github.com/rs/zerolog/log"
)

// UnassignedCredits is used when the portal has no default credit assignment.
const UnassignedCredits = -1

// NewUser is the profile submitted at signup.
type NewUser struct {
	Username   string
	Password   string
	GivenName  string
	FamilyName string
	Email      string
}

func (u NewUser) FullName() string {
	return strings.TrimSpace(u.GivenName + " " + u.FamilyName)
}

// Entitlements are applied to the new account.
type Entitlements struct {
	RoleID    string
	LicenseID string
	GroupID   string
	Credits   float64
}

// ProvisionedUser reports the result of one provisioning attempt.
type ProvisionedUser struct {
	Username string
	OK       bool
	Message  string
}

// Strategy creates one account on a particular kind of portal.
type Strategy interface {
	Name() string
	Create(ctx context.Context, token string, user NewUser, ent Entitlements) error
}

type Provisioner struct {
	portal   *portal.Client
	strategy Strategy
}

// New picks the strategy for the portal the client points at.
func New(client *portal.Client) *Provisioner {
	if client.IsMultiTenant() {
		return NewWithStrategy(client, NewMultiTenantStrategy(client))
	}
	return NewWithStrategy(client, NewSingleTenantStrategy(client))
}

func NewWithStrategy(client *portal.Client, strategy Strategy) *Provisioner {
	return &Provisioner{portal: client, strategy: strategy}
}

func (p *Provisioner) Strategy() Strategy {
	return p.strategy
}

// Provision creates the account. On failure the returned error is an *errors.Error
// and ProvisionedUser.Message holds the text that may be shown to the user.
func (p *Provisioner) Provision(ctx context.Context, managerToken string, user NewUser, ent Entitlements) (ProvisionedUser, error) {
	logger := log.Ctx(ctx).With().Str("username", user.Username).Str("strategy", p.strategy.Name()).Logger()

	credits, err := p.defaultCredits(ctx, managerToken)
	if err != nil {
		logger.Error().Err(err).Msg("Could not read default credit assignment")
		return p.result(user, apperrors.Provisioning("Could not read portal defaults", err))
	}
	ent.Credits = credits

	if err := p.strategy.Create(ctx, managerToken, user, ent); err != nil {
		logger.Error().Err(err).Msg("Can't create user")
		return p.result(user, err)
	}
	logger.Info().Msg("User created")
	return p.result(user, nil)
}

func (p *Provisioner) result(user NewUser, err error) (ProvisionedUser, error) {
	metrics.ProvisioningTotal.WithLabelValues(p.strategy.Name(), metrics.Result(err)).Inc()
	if err != nil {
		return ProvisionedUser{Message: apperrors.UserMessage(err)}, err
	}
	return ProvisionedUser{Username: user.Username, OK: true}, nil
}

func (p *Provisioner) defaultCredits(ctx context.Context, token string) (float64, error) {
	self, err := p.portal.Self(ctx, token)
	if err != nil {
		return 0, err
	}
	return utils.ValueOr(self.DefaultUserCreditAssignment, UnassignedCredits), nil
}

// classify turns a portal failure into a provisioning error carrying the portal's detail.
func classify(err error) error {
	var perr *portal.Error
	if errors.As(err, &perr) {
		return apperrors.Provisioning(perr.Detail(), err)
	}
	return apperrors.Transport("Could not reach the portal", err)
}

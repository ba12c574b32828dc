package identity

import (
	"context"

	apperrors "github.com/jrsteele09/portal-group-access/internal/errors"
	"github.com/jrsteele09/portal-group-access/portal"
	"github.com/rs/zerolog/log"
)

// Classifier answers which user and organization a token belongs to.
type Classifier struct {
	portal *portal.Client
}

func NewClassifier(client *portal.Client) *Classifier {
	return &Classifier{portal: client}
}

// OrgID returns the organization of the token's owner, or "" when it cannot be determined.
func (c *Classifier) OrgID(ctx context.Context, token string) string {
	self, err := c.portal.CommunitySelf(ctx, token)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("An error occurred getting the org id")
		return ""
	}
	return self.OrgID
}

// Username returns the username of the token's owner.
func (c *Classifier) Username(ctx context.Context, token string) (string, error) {
	self, err := c.portal.Self(ctx, token)
	if err != nil {
		return "", apperrors.Auth("Could not determine username from token", err)
	}
	if self.User == nil || self.User.Username == "" {
		return "", apperrors.Auth("Could not determine username from token", apperrors.ErrNotFound)
	}
	return self.User.Username, nil
}

// CrossOrg reports whether a user must be invited rather than added directly.
// An unknown organization on either side counts as a different organization.
func CrossOrg(groupOrg, userOrg string) bool {
	return groupOrg == "" || userOrg == "" || groupOrg != userOrg
}

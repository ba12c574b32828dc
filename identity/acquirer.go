// Package identity obtains portal tokens for the end user and the manager
// account, and answers who a token belongs to.
package identity

import (
	"context"
	"sync"

	"github.com/jrsteele09/portal-group-access/internal/config"
	apperrors "github.com/jrsteele09/portal-group-access/internal/errors"
	"github.com/jrsteele09/portal-group-access/portal"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	userTokenMessage    = "Could not obtain user token"
	managerTokenMessage = "Could not obtain admin token"
)

// Acquirer exchanges credentials for portal tokens. Tokens are never cached.
type Acquirer struct {
	portal          *portal.Client
	oauth2Config    *oauth2.Config
	managerUsername string
	managerPassword string
	expiration      int
}

func NewAcquirer(client *portal.Client, cfg config.Portal) *Acquirer {
	return &Acquirer{
		portal: client,
		oauth2Config: &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.CallbackURL,
			Endpoint: oauth2.Endpoint{
				TokenURL:  client.TokenURL(),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		managerUsername: cfg.ManagerUsername,
		managerPassword: cfg.ManagerPassword,
		expiration:      cfg.ManagerTokenExpiration,
	}
}

// AcquireUserToken exchanges an authorization code and its PKCE verifier for the user's access token.
func (a *Acquirer) AcquireUserToken(ctx context.Context, code, verifier string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.portal.HTTPClient())

	token, err := a.oauth2Config.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", verifier))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("User token exchange failed")
		return "", apperrors.Auth(userTokenMessage, err)
	}
	if token.AccessToken == "" {
		log.Ctx(ctx).Error().Msg("User token exchange returned no access token")
		return "", apperrors.Auth(userTokenMessage, apperrors.ErrNoToken)
	}
	return token.AccessToken, nil
}

// AcquireManagerToken gets a short-lived token for the manager account. The legacy grant is
// used because group and user administration is not available to OAuth end-user tokens.
func (a *Acquirer) AcquireManagerToken(ctx context.Context) (string, error) {
	resp, err := a.portal.GenerateToken(ctx, a.managerUsername, a.managerPassword, a.expiration)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Manager token request failed")
		return "", apperrors.Auth(managerTokenMessage, err)
	}
	if resp.Token == "" {
		log.Ctx(ctx).Error().Msg("Manager token response had no token")
		return "", apperrors.Auth(managerTokenMessage, apperrors.ErrNoToken)
	}
	return resp.Token, nil
}

// AcquireBoth runs the user and manager exchanges concurrently. When both fail
// the user token error is reported.
func (a *Acquirer) AcquireBoth(ctx context.Context, code, verifier string) (userToken, managerToken string, err error) {
	var (
		wg              sync.WaitGroup
		userErr, mgrErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		userToken, userErr = a.AcquireUserToken(ctx, code, verifier)
	}()
	go func() {
		defer wg.Done()
		managerToken, mgrErr = a.AcquireManagerToken(ctx)
	}()
	wg.Wait()

	if userErr != nil {
		return "", "", userErr
	}
	if mgrErr != nil {
		return "", "", mgrErr
	}
	return userToken, managerToken, nil
}

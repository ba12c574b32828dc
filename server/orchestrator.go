package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/portal-group-access/appconfig"
	"github.com/jrsteele09/portal-group-access/identity"
	apperrors "github.com/jrsteele09/portal-group-access/internal/errors"
	"github.com/jrsteele09/portal-group-access/membership"
	"github.com/jrsteele09/portal-group-access/provisioning"
	"github.com/rs/zerolog/log"
)

const signupDisabledMessage = "Signup is not enabled. Sign in with an existing account or contact an administrator."

// CheckPermissionsRequest is the body of POST /check-permissions.
type CheckPermissionsRequest struct {
	Code     string `json:"code"`
	Verifier string `json:"verifier"`
	GlobalID string `json:"globalid"`
}

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
	GlobalID   string `json:"globalid"`
}

// Response is the JSON body returned by both entry points.
type Response struct {
	Message     string `json:"message"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

// Result pairs a response body with its HTTP status.
type Result struct {
	Status int
	Body   Response
}

// Orchestrator sequences the components for each entry point. It holds no
// per-request state.
type Orchestrator struct {
	acquirer    *identity.Acquirer
	classifier  *identity.Classifier
	resolver    *appconfig.Resolver
	provisioner *provisioning.Provisioner
	reconciler  *membership.Reconciler
}

func NewOrchestrator(
	acquirer *identity.Acquirer,
	classifier *identity.Classifier,
	resolver *appconfig.Resolver,
	provisioner *provisioning.Provisioner,
	reconciler *membership.Reconciler,
) *Orchestrator {
	return &Orchestrator{
		acquirer:    acquirer,
		classifier:  classifier,
		resolver:    resolver,
		provisioner: provisioner,
		reconciler:  reconciler,
	}
}

// CheckPermissions adds a signed-in portal user to the application's group.
func (o *Orchestrator) CheckPermissions(ctx context.Context, req CheckPermissionsRequest) Result {
	if req.Code == "" || req.Verifier == "" {
		return errorResult(ctx, apperrors.BadRequest("Missing code or verifier"))
	}

	userToken, managerToken, err := o.acquirer.AcquireBoth(ctx, req.Code, req.Verifier)
	if err != nil {
		return errorResult(ctx, err)
	}

	app, err := o.resolver.Resolve(ctx, req.GlobalID, managerToken)
	if err != nil {
		return errorResult(ctx, err)
	}
	if err := app.Require(appconfig.FieldGroupID, appconfig.FieldRedirectURI); err != nil {
		return errorResult(ctx, err)
	}

	username, err := o.classifier.Username(ctx, userToken)
	if err != nil {
		return errorResult(ctx, err)
	}
	groupOrg := o.classifier.OrgID(ctx, managerToken)
	userOrg := o.classifier.OrgID(ctx, userToken)
	log.Ctx(ctx).Info().Str("username", username).Str("group_org", groupOrg).Str("user_org", userOrg).Msg("Classified user organization")

	// Reconcile logs its own failures and the outcome carries the response either way.
	out, _ := o.reconciler.Reconcile(ctx, membership.Request{
		Username:     username,
		GroupID:      app.GroupID,
		CrossOrg:     identity.CrossOrg(groupOrg, userOrg),
		ManagerToken: managerToken,
		UserToken:    userToken,
	})
	return Result{Status: out.Status, Body: Response{Message: out.Message, RedirectURI: app.RedirectURI}}
}

// Signup creates a new portal account and adds it to the application's group.
func (o *Orchestrator) Signup(ctx context.Context, req SignupRequest) Result {
	managerToken, err := o.acquirer.AcquireManagerToken(ctx)
	if err != nil {
		return errorResult(ctx, err)
	}

	app, err := o.resolver.Resolve(ctx, req.GlobalID, managerToken)
	if err != nil {
		return errorResult(ctx, err)
	}
	if err := app.RequirePresent(appconfig.FieldGroupID, appconfig.FieldRedirectURI, appconfig.FieldUserLicenseID, appconfig.FieldUserRoleID); err != nil {
		return errorResult(ctx, err)
	}
	if !app.SignupEnabled() {
		return errorResult(ctx, apperrors.New(apperrors.KindDisabled, signupDisabledMessage, nil))
	}
	if err := app.Require(appconfig.FieldGroupID, appconfig.FieldRedirectURI); err != nil {
		return errorResult(ctx, err)
	}
	if err := validateSignup(req); err != nil {
		return errorResult(ctx, err)
	}

	user, err := o.provisioner.Provision(ctx, managerToken, provisioning.NewUser{
		Username:   req.Username,
		Password:   req.Password,
		GivenName:  req.GivenName,
		FamilyName: req.FamilyName,
		Email:      req.Email,
	}, provisioning.Entitlements{
		RoleID:    app.UserRoleID,
		LicenseID: app.UserLicenseID,
		GroupID:   app.GroupID,
	})
	if err != nil {
		message := fmt.Sprintf("Could not create new user. %s. Please contact an administrator.", strings.TrimRight(user.Message, "."))
		return errorResult(ctx, apperrors.Provisioning(message, err))
	}

	// A user created by the manager always belongs to the manager's organization.
	out, _ := o.reconciler.Reconcile(ctx, membership.Request{
		Username:     user.Username,
		GroupID:      app.GroupID,
		CrossOrg:     false,
		ManagerToken: managerToken,
	})
	return Result{Status: out.Status, Body: Response{Message: out.Message, RedirectURI: app.RedirectURI}}
}

func validateSignup(req SignupRequest) error {
	switch {
	case strings.TrimSpace(req.Username) == "":
		return apperrors.BadRequest("A username is required")
	case req.Password == "":
		return apperrors.BadRequest("A password is required")
	case strings.TrimSpace(req.Email) == "":
		return apperrors.BadRequest("An email address is required")
	}
	return nil
}

// errorResult logs the full error and reduces it to a user-facing result.
func errorResult(ctx context.Context, err error) Result {
	status := apperrors.StatusCode(err)
	event := log.Ctx(ctx).Error()
	if status < http.StatusInternalServerError {
		event = log.Ctx(ctx).Warn()
	}
	event.Err(err).Str("kind", string(apperrors.KindOf(err))).Int("status", status).Msg("Request failed")
	return Result{Status: status, Body: Response{Message: apperrors.UserMessage(err)}}
}

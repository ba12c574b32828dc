// Package membership makes sure a user ends up in a group, either by adding
// them directly or, across organizations, by inviting them and accepting the
// invitation with their own token.
package membership

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	apperrors "github.com/jrsteele09/portal-group-access/internal/errors"
	"github.com/jrsteele09/portal-group-access/internal/metrics"
	"github.com/jrsteele09/portal-group-access/portal"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	MessageAlreadyMember = "User already in group"
	MessageAdded         = "User added to group"
	MessageInvited       = "User invited to group"
	MessageNotAdded      = "User could not be added to the group. Contact an administrator."
	MessageNotInvited    = "User could not be invited to group"
	MessageManualAccept  = "Please sign in to the portal and manually accept the group invite."
)

// Request describes one user/group pair to reconcile.
type Request struct {
	Username     string
	GroupID      string
	ManagerToken string

	// CrossOrg selects the invite/accept path instead of a direct add.
	CrossOrg bool

	// UserToken is only needed on the invite path, to accept as the user.
	UserToken string
}

// Outcome is the terminal result of a reconciliation.
type Outcome struct {
	State   State
	Role    Role
	Message string
	Status  int
}

type Reconciler struct {
	portal *portal.Client
}

func NewReconciler(client *portal.Client) *Reconciler {
	return &Reconciler{portal: client}
}

// Reconcile runs the membership workflow once. A non-nil error is always an
// *errors.Error whose message and status match the returned Outcome.
func (r *Reconciler) Reconcile(ctx context.Context, req Request) (out Outcome, err error) {
	logger := log.Ctx(ctx).With().Str("username", req.Username).Str("group_id", req.GroupID).Bool("cross_org", req.CrossOrg).Logger()
	defer func() {
		metrics.MembershipOutcomesTotal.WithLabelValues(string(out.State)).Inc()
		if err != nil {
			logger.Error().Err(err).Str("state", string(out.State)).Msg("Group membership failed")
			return
		}
		logger.Info().Str("state", string(out.State)).Msg(out.Message)
	}()

	roster, err := r.portal.GroupUsers(ctx, req.ManagerToken, req.GroupID)
	if err != nil {
		var perr *portal.Error
		if errors.As(err, &perr) {
			return failed(RoleNotMember, http.StatusBadRequest, "Error getting group members: "+perr.Detail(), err)
		}
		return unexpected(err)
	}

	if role := RoleOf(roster, req.Username); role.IsMember() {
		return Outcome{State: StateAlreadyMember, Role: role, Message: MessageAlreadyMember, Status: http.StatusOK}, nil
	}

	if req.CrossOrg {
		logger.Debug().Str("state", string(StateNeedsInvite)).Msg("Inviting user")
		return r.inviteAndAccept(ctx, logger, req)
	}
	logger.Debug().Str("state", string(StateNeedsDirectAdd)).Msg("Adding user")
	return r.add(ctx, req)
}

func (r *Reconciler) add(ctx context.Context, req Request) (Outcome, error) {
	resp, err := r.portal.AddUsersToGroup(ctx, req.ManagerToken, req.GroupID, req.Username)
	if err != nil {
		return unexpected(err)
	}
	if slices.Contains(resp.NotAdded, req.Username) {
		return failed(RoleNotMember, http.StatusBadRequest, MessageNotAdded, fmt.Errorf("portal reported %s as not added", req.Username))
	}
	return Outcome{State: StateAdded, Role: RoleMember, Message: MessageAdded, Status: http.StatusOK}, nil
}

func (r *Reconciler) inviteAndAccept(ctx context.Context, logger zerolog.Logger, req Request) (Outcome, error) {
	resp, err := r.portal.InviteToGroup(ctx, req.ManagerToken, req.GroupID, req.Username)
	if err != nil {
		var perr *portal.Error
		if !errors.As(err, &perr) {
			return unexpected(err)
		}
		return failed(RoleNotMember, http.StatusInternalServerError, MessageNotInvited, err)
	}
	if !resp.Success {
		return failed(RoleNotMember, http.StatusInternalServerError, MessageNotInvited, errors.New("portal reported invite as unsuccessful"))
	}

	accepted, err := r.acceptOnBehalf(ctx, req)
	if err != nil {
		var perr *portal.Error
		if !errors.As(err, &perr) {
			return unexpected(err)
		}
		logger.Warn().Err(err).Msg("Portal refused invitation lookup or accept")
	}
	if !accepted {
		out, ferr := failed(RoleInvited, http.StatusInternalServerError, MessageManualAccept, errors.New("invitation could not be accepted on behalf of user"))
		out.State = StateInvited
		return out, ferr
	}
	return Outcome{State: StateInviteAcceptedOnBehalf, Role: RoleMember, Message: MessageInvited, Status: http.StatusOK}, nil
}

// acceptOnBehalf finds the user's invitation to the group and accepts it with the user's token.
func (r *Reconciler) acceptOnBehalf(ctx context.Context, req Request) (bool, error) {
	if req.UserToken == "" {
		return false, nil
	}
	invitations, err := r.portal.UserInvitations(ctx, req.UserToken, req.Username)
	if err != nil {
		return false, err
	}

	idx := slices.IndexFunc(invitations.UserInvitations, func(inv portal.Invitation) bool {
		return inv.GroupID == req.GroupID
	})
	if idx < 0 {
		return false, nil
	}

	resp, err := r.portal.AcceptInvitation(ctx, req.UserToken, req.Username, invitations.UserInvitations[idx].ID)
	if err != nil {
		return false, err
	}
	return resp.Success, nil
}

func failed(role Role, status int, message string, cause error) (Outcome, error) {
	out := Outcome{State: StateFailed, Role: role, Message: message, Status: status}
	return out, apperrors.WithStatus(apperrors.KindMembership, status, message, cause)
}

func unexpected(err error) (Outcome, error) {
	message := fmt.Sprintf("An error occurred adding the user to the group: %v. Contact an administrator.", err)
	out := Outcome{State: StateFailed, Role: RoleNotMember, Message: message, Status: http.StatusInternalServerError}
	return out, apperrors.WithStatus(apperrors.KindTransport, http.StatusInternalServerError, message, err)
}

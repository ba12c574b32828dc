package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/jrsteele09/portal-group-access/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeDefaults(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.BadRequest("bad"), http.StatusBadRequest},
		{apperrors.New(apperrors.KindDisabled, "off", nil), http.StatusForbidden},
		{apperrors.Auth("no token", nil), http.StatusInternalServerError},
		{apperrors.WithStatus(apperrors.KindMembership, http.StatusBadRequest, "nope", nil), http.StatusBadRequest},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, apperrors.StatusCode(tt.err), tt.err.Error())
	}
}

func TestUserMessageHidesUnclassifiedDetail(t *testing.T) {
	err := fmt.Errorf("dial tcp 10.0.0.1:443: connection refused")
	require.NotContains(t, apperrors.UserMessage(err), "10.0.0.1")

	wrapped := apperrors.Wrapf(apperrors.Config("Couldn't get group_id.", apperrors.ErrMissingField), "resolve")
	require.Equal(t, "Couldn't get group_id.", apperrors.UserMessage(wrapped))
	require.Equal(t, apperrors.KindConfig, apperrors.KindOf(wrapped))
	require.True(t, apperrors.Is(wrapped, apperrors.ErrMissingField))
}

// Package appconfig resolves the per-application settings (target group,
// license, role and redirect) from the configuration table hosted in the portal.
package appconfig

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/jrsteele09/portal-group-access/internal/errors"
	"github.com/jrsteele09/portal-group-access/portal"
	"github.com/rs/zerolog/log"
)

// Field names in the configuration table.
const (
	FieldGroupID       = "group_id"
	FieldUserLicenseID = "user_license_id"
	FieldUserRoleID    = "user_role_id"
	FieldRedirectURI   = "redirect_uri"

	globalIDField = "GlobalID"
	configTable   = 0
)

// AppConfig is one record of the configuration table.
type AppConfig struct {
	GroupID       string
	UserLicenseID string
	UserRoleID    string
	RedirectURI   string

	present map[string]bool
}

// Require fails with a config error unless every named field exists in the record with a non-empty value.
func (a AppConfig) Require(fields ...string) error {
	for _, f := range fields {
		if !a.present[f] || a.value(f) == "" {
			return missingField(f)
		}
	}
	return nil
}

// RequirePresent fails unless every named field exists in the record. Empty values are allowed.
func (a AppConfig) RequirePresent(fields ...string) error {
	for _, f := range fields {
		if !a.present[f] {
			return missingField(f)
		}
	}
	return nil
}

// SignupEnabled reports whether new accounts may be created for this application.
func (a AppConfig) SignupEnabled() bool {
	return a.UserLicenseID != "" && a.UserRoleID != ""
}

func (a AppConfig) value(field string) string {
	switch field {
	case FieldGroupID:
		return a.GroupID
	case FieldUserLicenseID:
		return a.UserLicenseID
	case FieldUserRoleID:
		return a.UserRoleID
	case FieldRedirectURI:
		return a.RedirectURI
	}
	return ""
}

func missingField(field string) error {
	return apperrors.Config(
		fmt.Sprintf("Couldn't get %s. Field is missing from config table.", field),
		apperrors.Wrapf(apperrors.ErrMissingField, "%s", field),
	)
}

// Resolver looks up AppConfig records. Nothing is cached; each call reads the table.
type Resolver struct {
	portal  *portal.Client
	tableID string
}

func NewResolver(client *portal.Client, tableID string) *Resolver {
	return &Resolver{portal: client, tableID: tableID}
}

// Resolve finds the record whose GlobalID matches globalID.
func (r *Resolver) Resolve(ctx context.Context, globalID, token string) (AppConfig, error) {
	logger := log.Ctx(ctx).With().Str("globalid", globalID).Logger()

	if globalID == "" {
		logger.Error().Msg("No globalid supplied for config lookup")
		return AppConfig{}, noMatchingRecord()
	}

	item, err := r.portal.Item(ctx, token, r.tableID)
	if err != nil {
		logger.Error().Err(err).Str("item", r.tableID).Msg("Could not get config table item")
		return AppConfig{}, apperrors.Config("Couldn't get app config from config table.", err)
	}
	if item.URL == "" {
		logger.Error().Str("item", r.tableID).Msg("Config table item has no service url")
		return AppConfig{}, apperrors.Config("Couldn't get app config from config table.", apperrors.ErrNotFound)
	}

	resp, err := r.portal.QueryTable(ctx, token, item.URL, configTable, GlobalIDWhere(globalID))
	if err != nil {
		logger.Error().Err(err).Msg("Config table query failed")
		return AppConfig{}, apperrors.Config("Couldn't get app config from config table.", err)
	}
	if len(resp.Features) == 0 {
		logger.Error().Msg("No matching record in config table")
		return AppConfig{}, noMatchingRecord()
	}

	return fromAttributes(resp.Features[0].Attributes), nil
}

func noMatchingRecord() error {
	return apperrors.Config("Couldn't get app config. No matching record in config table.", apperrors.ErrNoMatchingRecord)
}

// GlobalIDWhere builds the where clause for a GlobalID lookup with the literal quoted.
func GlobalIDWhere(globalID string) string {
	return fmt.Sprintf("%s = '%s'", globalIDField, strings.ReplaceAll(globalID, "'", "''"))
}

func fromAttributes(attrs map[string]any) AppConfig {
	cfg := AppConfig{present: map[string]bool{}}
	for k, v := range attrs {
		field := strings.ToLower(k)
		switch field {
		case FieldGroupID:
			cfg.GroupID = attributeString(v)
		case FieldUserLicenseID:
			cfg.UserLicenseID = attributeString(v)
		case FieldUserRoleID:
			cfg.UserRoleID = attributeString(v)
		case FieldRedirectURI:
			cfg.RedirectURI = attributeString(v)
		default:
			continue
		}
		cfg.present[field] = true
	}
	return cfg
}

func attributeString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

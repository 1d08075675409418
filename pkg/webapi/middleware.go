package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/hackos/hackd/pkg/eventdb/stor"
)

const teamContextKey = "Team"

// CredentialAuth resolves the calling team from unit id + secret, sent either
// as headers (X-Unit-ID / X-Unit-Secret) or query params (unit_id / secret,
// for the websocket handshake). The comparison is verbatim equality done by
// the store; a miss is access denied, never a crash.
func CredentialAuth(teams stor.TeamStor) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			unitID := credentialFromRequest(c, "X-Unit-ID", "unit_id")
			secret := credentialFromRequest(c, "X-Unit-Secret", "secret")

			if unitID == "" || secret == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
			}

			team, err := teams.GetTeamByCredentials(unitID, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "access denied")
			}

			c.Set(teamContextKey, team)
			return next(c)
		}
	}
}

// AdminOnly restricts a route group to the administrative record. Runs after
// CredentialAuth.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			team := teamFromContext(c)
			if team == nil || !team.IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "admin only")
			}
			return next(c)
		}
	}
}

func teamFromContext(c echo.Context) *model.Team {
	team, ok := c.Get(teamContextKey).(*model.Team)
	if !ok {
		return nil
	}
	return team
}

func credentialFromRequest(c echo.Context, header, queryParam string) string {
	if value := c.Request().Header.Get(header); value != "" {
		return value
	}
	return c.QueryParam(queryParam)
}

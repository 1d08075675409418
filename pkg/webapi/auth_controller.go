package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hackos/hackd/pkg/eventdb/stor"
)

type AuthController struct {
	teams   stor.TeamStor
	configs stor.ConfigStor
}

func NewAuthController(teams stor.TeamStor, configs stor.ConfigStor) *AuthController {
	return &AuthController{teams: teams, configs: configs}
}

// Login resolves a (unit id, secret) pair to a team record. The secret is
// compared verbatim; a miss returns access denied. The assigned challenge
// text is withheld until release, same as GetTeam.
func (c *AuthController) Login(ctx echo.Context) error {
	var req struct {
		UnitID string `json:"unit_id"`
		Secret string `json:"secret"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	team, err := c.teams.GetTeamByCredentials(req.UnitID, req.Secret)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "access denied")
	}

	cfg, err := c.configs.GetConfig()
	if err != nil {
		return toHTTPError(err)
	}

	view := *team
	if !cfg.Released {
		view.AssignedProblem = ""
	}

	return ctx.JSON(http.StatusOK, view)
}

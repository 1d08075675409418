package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hackos/hackd/pkg/engine"
	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/hackos/hackd/pkg/eventdb/stor"
)

type LeaderboardController struct {
	teams  stor.TeamStor
	wizard *engine.Wizard
}

func NewLeaderboardController(teams stor.TeamStor, wizard *engine.Wizard) *LeaderboardController {
	return &LeaderboardController{teams: teams, wizard: wizard}
}

type standing struct {
	Team  model.Team `json:"team"`
	State string     `json:"state"`
	Ready bool       `json:"ready"`
}

// Standings is the read-only projection of all participant records, ordered
// by unit id. Banned teams stay visible; verification photos and assigned
// problems are stripped for non-admin callers.
func (c *LeaderboardController) Standings(ctx echo.Context) error {
	teams, err := c.teams.ListParticipants()
	if err != nil {
		return toHTTPError(err)
	}

	caller := teamFromContext(ctx)
	isAdmin := caller != nil && caller.IsAdmin()

	standings := make([]standing, 0, len(teams))
	for i := range teams {
		team := teams[i]
		if !isAdmin {
			team.Photos = model.PhotoList{}
			team.AssignedProblem = ""
		}
		standings = append(standings, standing{
			Team:  team,
			State: c.wizard.State(&teams[i]),
			Ready: engine.Ready(&teams[i]),
		})
	}

	return ctx.JSON(http.StatusOK, standings)
}

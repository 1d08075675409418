package webapi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hackos/hackd/pkg/blobstor"
	"github.com/hackos/hackd/pkg/engine"
	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/hackos/hackd/pkg/eventdb/stor"
)

type TeamController struct {
	teams   stor.TeamStor
	configs stor.ConfigStor
	blobs   blobstor.Store
	wizard  *engine.Wizard
}

func NewTeamController(teams stor.TeamStor, configs stor.ConfigStor, blobs blobstor.Store, wizard *engine.Wizard) *TeamController {
	return &TeamController{teams: teams, configs: configs, blobs: blobs, wizard: wizard}
}

// GetTeam returns the caller's own record plus derived workflow state. The
// assigned challenge text is withheld until the admin releases it.
func (c *TeamController) GetTeam(ctx echo.Context) error {
	team := teamFromContext(ctx)

	cfg, err := c.configs.GetConfig()
	if err != nil {
		return toHTTPError(err)
	}

	view := *team
	if !cfg.Released {
		view.AssignedProblem = ""
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"team":   view,
		"state":  c.wizard.State(team),
		"ready":  engine.Ready(team),
		"config": cfg,
	})
}

// SaveProfile replaces member names and the photo list wholesale. The photo
// list is last-write-wins: concurrent edits are not merged.
func (c *TeamController) SaveProfile(ctx echo.Context) error {
	var req struct {
		Member1Name string          `json:"member1_name"`
		Member2Name string          `json:"member2_name"`
		Photos      model.PhotoList `json:"photos"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	team := teamFromContext(ctx)
	if err := c.mutationGate(team); err != nil {
		return toHTTPError(err)
	}

	if req.Member1Name == "" || req.Member2Name == "" {
		return toHTTPError(errors.Wrap(engine.ErrValidation, "both member names are required"))
	}

	team, err := c.teams.UpdateProfile(team, req.Member1Name, req.Member2Name, req.Photos)
	if err != nil {
		return toHTTPError(err)
	}

	if team.Status == model.StatusLobby {
		if team, err = c.teams.SetStatus(team, model.StatusSetup); err != nil {
			return toHTTPError(err)
		}
	}

	return ctx.JSON(http.StatusOK, team)
}

// SetRepoLink validates and stores the external repository reference. On a
// format error the stored value is left unchanged.
func (c *TeamController) SetRepoLink(ctx echo.Context) error {
	var req struct {
		RepoLink string `json:"repo_link"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	team := teamFromContext(ctx)
	if err := c.mutationGate(team); err != nil {
		return toHTTPError(err)
	}

	if err := engine.ValidateRepoLink(team.UnitID, req.RepoLink); err != nil {
		return toHTTPError(err)
	}

	team, err := c.teams.SetRepoLink(team, req.RepoLink)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, team)
}

// UploadPhoto stores one verification photo and persists its locator
// immediately, matching the capture flow: taking a photo is not abortable
// once snapped.
func (c *TeamController) UploadPhoto(ctx echo.Context) error {
	slot, err := photoSlot(ctx.Param("slot"))
	if err != nil {
		return toHTTPError(err)
	}

	team := teamFromContext(ctx)
	if err := c.mutationGate(team); err != nil {
		return toHTTPError(err)
	}

	data, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "reading upload")
	}
	if len(data) == 0 {
		return toHTTPError(errors.Wrap(engine.ErrValidation, "empty photo upload"))
	}

	name := fmt.Sprintf("%s_p%d_%d.jpg", team.UnitID, slot, time.Now().UnixMilli())
	locator, err := c.blobs.Put(data, name)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	team, err = c.teams.SetPhoto(team, slot, locator)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, team)
}

// UploadArchive stores the submission zip and records its locator. Uploads
// are not retried by the engine; a failed upload is reported and the caller
// decides.
func (c *TeamController) UploadArchive(ctx echo.Context) error {
	team := teamFromContext(ctx)
	if err := c.mutationGate(team); err != nil {
		return toHTTPError(err)
	}

	data, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "reading upload")
	}
	if len(data) == 0 {
		return toHTTPError(errors.Wrap(engine.ErrValidation, "empty archive upload"))
	}

	name := fmt.Sprintf("%s_submission_%d.zip", team.UnitID, time.Now().UnixMilli())
	locator, err := c.blobs.Put(data, name)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	team, err = c.teams.SetArchiveLocator(team, locator)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, team)
}

// GetBlob serves a stored blob back by locator.
func (c *TeamController) GetBlob(ctx echo.Context) error {
	data, err := c.blobs.Get(ctx.Param("locator"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such blob")
	}

	return ctx.Blob(http.StatusOK, "application/octet-stream", data)
}

// mutationGate re-checks the workflow gates server side: a banned team can't
// mutate anything, a submitted team's artifacts are locked, and a frozen
// event blocks intake-affecting writes.
func (c *TeamController) mutationGate(team *model.Team) error {
	if team.Banned {
		return engine.ErrBanned
	}
	if team.Submitted() {
		return engine.ErrAlreadySubmitted
	}

	cfg, err := c.configs.GetConfig()
	if err != nil {
		return err
	}
	if !cfg.IntakeOpen {
		return engine.ErrFrozen
	}

	return nil
}

func photoSlot(param string) (int, error) {
	switch param {
	case "0":
		return 0, nil
	case "1":
		return 1, nil
	default:
		return 0, errors.Wrapf(engine.ErrValidation, "invalid photo slot %q", param)
	}
}

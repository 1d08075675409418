package webapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hackos/hackd/pkg/blobstor"
	"github.com/hackos/hackd/pkg/engine"
	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/hackos/hackd/pkg/eventdb/stor"
)

// AdminController is the event-wide control plane, applied by the sole
// administrative actor. Effects reach all connected sessions through the
// change feed.
type AdminController struct {
	teams         stor.TeamStor
	configs       stor.ConfigStor
	tickets       stor.TicketStor
	announcements stor.AnnouncementStor
	blobs         *blobstor.DiskStore
}

func NewAdminController(stors *stor.Stors, blobs *blobstor.DiskStore) *AdminController {
	return &AdminController{
		teams:         stors.TeamStor,
		configs:       stors.ConfigStor,
		tickets:       stors.TicketStor,
		announcements: stors.AnnouncementStor,
		blobs:         blobs,
	}
}

// Release exposes the assigned challenge text to every team. One-way and
// idempotent: once released it can never be un-released.
func (c *AdminController) Release(ctx echo.Context) error {
	cfg, err := c.configs.Release()
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, cfg)
}

// SetIntake flips the freeze/unfreeze toggle. Freely reversible.
func (c *AdminController) SetIntake(ctx echo.Context) error {
	var req struct {
		Open bool `json:"open"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	cfg, err := c.configs.SetIntakeOpen(req.Open)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, cfg)
}

// SetEventStart records the kickoff moment shown to participants. Clearing it
// (null) is allowed.
func (c *AdminController) SetEventStart(ctx echo.Context) error {
	var req struct {
		EventStart *time.Time `json:"event_start"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	cfg, err := c.configs.SetEventStart(req.EventStart)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, cfg)
}

// CreateTeam adds a participant record. Unit id and secret are required; the
// record starts in lobby with empty profile fields.
func (c *AdminController) CreateTeam(ctx echo.Context) error {
	var req struct {
		UnitID      string `json:"unit_id"`
		Secret      string `json:"secret"`
		Role        string `json:"role"`
		Member1Name string `json:"member1_name"`
		Email       string `json:"email"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if req.UnitID == "" || req.Secret == "" {
		return toHTTPError(errors.Wrap(engine.ErrValidation, "unit id and secret are required"))
	}

	role := req.Role
	if role == "" {
		role = model.RoleParticipant
	}

	team, err := c.teams.CreateTeam(&model.Team{
		UnitID:      req.UnitID,
		Secret:      req.Secret,
		Role:        role,
		Member1Name: req.Member1Name,
		Email:       req.Email,
		Status:      model.StatusLobby,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusCreated, team)
}

// DeleteTeam removes a team irreversibly. Tickets referencing the team are
// deleted first, then the record, so no orphaned tickets survive.
func (c *AdminController) DeleteTeam(ctx echo.Context) error {
	team, err := c.teams.GetTeamByID(ctx.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	if err := c.tickets.DeleteTicketsForTeam(team.ID); err != nil {
		return toHTTPError(err)
	}

	if err := c.teams.DeleteTeam(team); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SetBanned flips a team's ban flag. Reversible; a banned team stays visible
// but is locked out of all workflow mutation.
func (c *AdminController) SetBanned(ctx echo.Context) error {
	var req struct {
		Banned bool `json:"banned"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	team, err := c.teams.GetTeamByID(ctx.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	team, err = c.teams.SetBanned(team, req.Banned)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, team)
}

// AssignProblem sets a team's challenge text. Teams see it only once the
// release flag is true.
func (c *AdminController) AssignProblem(ctx echo.Context) error {
	var req struct {
		Problem string `json:"problem"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	team, err := c.teams.GetTeamByID(ctx.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	team, err = c.teams.SetAssignedProblem(team, req.Problem)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, team)
}

// ListOpenTickets returns the raised-hand queue, oldest first.
func (c *AdminController) ListOpenTickets(ctx echo.Context) error {
	tickets, err := c.tickets.ListOpenTickets()
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, tickets)
}

// ResolveTicket marks a ticket resolved; idempotent. The update reaches the
// owning team via its ticket feed filter so it can clear its waiting
// indicator.
func (c *AdminController) ResolveTicket(ctx echo.Context) error {
	ticket, err := c.tickets.ResolveTicket(ctx.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, ticket)
}

// PostAnnouncement appends to the broadcast log.
func (c *AdminController) PostAnnouncement(ctx echo.Context) error {
	var req struct {
		Body string `json:"body"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if req.Body == "" {
		return toHTTPError(errors.Wrap(engine.ErrValidation, "announcement body is required"))
	}

	announcement, err := c.announcements.CreateAnnouncement(req.Body)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusCreated, announcement)
}

// StorageInventory lists every stored blob, for auditing uploads.
func (c *AdminController) StorageInventory(ctx echo.Context) error {
	blobs, err := c.blobs.Inventory()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.JSON(http.StatusOK, blobs)
}

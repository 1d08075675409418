package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hackos/hackd/pkg/engine"
	"github.com/hackos/hackd/pkg/eventdb/stor"
)

type TicketController struct {
	teams   stor.TeamStor
	tickets stor.TicketStor
}

func NewTicketController(teams stor.TeamStor, tickets stor.TicketStor) *TicketController {
	return &TicketController{teams: teams, tickets: tickets}
}

// RaiseHand opens a help ticket for the caller. The at-most-one-open-ticket
// invariant is enforced inside the ticket store, where the lookup and the
// insert run atomically: a second raise while a ticket is open returns the
// existing ticket and increments nothing.
func (c *TicketController) RaiseHand(ctx echo.Context) error {
	var req struct {
		Message string `json:"message"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if req.Message == "" {
		req.Message = "Help Requested"
	}

	team := teamFromContext(ctx)
	if team.Banned {
		return toHTTPError(engine.ErrBanned)
	}

	ticket, created, err := c.tickets.GetOrCreateOpenTicket(team.ID, req.Message)
	if err != nil {
		return toHTTPError(err)
	}

	if !created {
		return ctx.JSON(http.StatusOK, ticket)
	}

	if _, err := c.teams.IncrementHandRaised(team); err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusCreated, ticket)
}

// GetOpenTicket returns the caller's open ticket, if any, so a reconnecting
// client can restore its waiting indicator.
func (c *TicketController) GetOpenTicket(ctx echo.Context) error {
	team := teamFromContext(ctx)

	ticket, err := c.tickets.GetOpenTicketForTeam(team.ID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, ticket)
}

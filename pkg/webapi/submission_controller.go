package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hackos/hackd/pkg/engine"
)

type SubmissionController struct {
	wizard *engine.Wizard
}

func NewSubmissionController(wizard *engine.Wizard) *SubmissionController {
	return &SubmissionController{wizard: wizard}
}

// Start enters the submission wizard. The server re-checks readiness, the
// intake flag and the ban flag; the response carries the liveness challenge.
func (c *SubmissionController) Start(ctx echo.Context) error {
	team := teamFromContext(ctx)

	challenge, err := c.wizard.Start(team.ID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"state":     engine.StateAwaitingConsent,
		"challenge": challenge,
	})
}

// Consent submits the terms acknowledgment and the challenge answer. A wrong
// answer returns 409 with the regenerated challenge; the wizard stays in
// AwaitingConsent with unlimited attempts.
func (c *SubmissionController) Consent(ctx echo.Context) error {
	var req struct {
		Accepted bool `json:"accepted"`
		Answer   int  `json:"answer"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	team := teamFromContext(ctx)

	challenge, err := c.wizard.Consent(team.ID, req.Accepted, req.Answer)
	switch {
	case errors.Is(err, engine.ErrLivenessCheck):
		return ctx.JSON(http.StatusConflict, echo.Map{
			"error":     err.Error(),
			"state":     engine.StateAwaitingConsent,
			"challenge": challenge,
		})
	case errors.Is(err, engine.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "terms must be accepted")
	case err != nil:
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, echo.Map{"state": engine.StateAwaitingReview})
}

// Confirm commits the terminal submitted status.
func (c *SubmissionController) Confirm(ctx echo.Context) error {
	team := teamFromContext(ctx)

	updated, err := c.wizard.Confirm(team.ID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, updated)
}

// Cancel aborts the wizard from either modal state. Always permitted; no
// stored data is discarded.
func (c *SubmissionController) Cancel(ctx echo.Context) error {
	team := teamFromContext(ctx)
	c.wizard.Cancel(team.ID)
	return ctx.NoContent(http.StatusNoContent)
}

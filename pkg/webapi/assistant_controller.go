package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hackos/hackd/pkg/assistant"
)

type AssistantController struct {
	asker assistant.Asker
}

func NewAssistantController(asker assistant.Asker) *AssistantController {
	return &AssistantController{asker: asker}
}

// Ask forwards a participant question to the assistant collaborator along
// with a context summary (unit id and current status). Any collaborator
// failure surfaces as the generic failure reply, never an error.
func (c *AssistantController) Ask(ctx echo.Context) error {
	var req struct {
		Message string `json:"message"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	team := teamFromContext(ctx)
	reply := c.asker.Ask(req.Message, team.UnitID, team.Status)

	return ctx.JSON(http.StatusOK, echo.Map{"reply": reply})
}

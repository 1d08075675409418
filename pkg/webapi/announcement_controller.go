package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hackos/hackd/pkg/eventdb/stor"
)

type AnnouncementController struct {
	announcements stor.AnnouncementStor
}

func NewAnnouncementController(announcements stor.AnnouncementStor) *AnnouncementController {
	return &AnnouncementController{announcements: announcements}
}

// List returns the broadcast log, oldest first.
func (c *AnnouncementController) List(ctx echo.Context) error {
	announcements, err := c.announcements.ListAnnouncements()
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, announcements)
}

package webapi

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/hackos/hackd/pkg/clog"
	"github.com/hackos/hackd/pkg/feed"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Clients connect from arbitrary origins during the event.
		return true
	},
}

type WSController struct {
	hub *feed.Hub
}

func NewWSController(hub *feed.Hub) *WSController {
	return &WSController{hub: hub}
}

// Subscribe upgrades the connection and streams change events for the
// caller's watches. Admins see every set unfiltered; participants see all
// team rows (the leaderboard is a projection of them), the global config,
// announcements, and only their own tickets. The client must re-fetch full
// state over REST before relying on the stream: missed events are never
// replayed.
func (c *WSController) Subscribe(ctx echo.Context) error {
	team := teamFromContext(ctx)

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		clog.UsingCtx("feed").Errorf("websocket upgrade: %s", err)
		return nil
	}

	var watches []feed.Watch
	if team.IsAdmin() {
		watches = []feed.Watch{
			{Set: feed.SetTeams},
			{Set: feed.SetConfig},
			{Set: feed.SetTickets},
			{Set: feed.SetAnnouncements},
		}
	} else {
		watches = []feed.Watch{
			{Set: feed.SetTeams},
			{Set: feed.SetConfig},
			{Set: feed.SetTickets, TeamID: team.ID},
			{Set: feed.SetAnnouncements},
		}
	}

	sub := c.hub.Subscribe(watches...)
	feed.NewSession(c.hub, sub, conn).Run()

	return nil
}

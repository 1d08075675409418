package webapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/hackos/hackd/pkg/blobstor"
	"github.com/hackos/hackd/pkg/eventdb/model"
)

func newAdminController(api *testAPI) *AdminController {
	return NewAdminController(api.stors, api.blobs)
}

func TestAdminController_Release(t *testing.T) {
	api := newTestAPI(t)
	controller := newAdminController(api)
	admin := api.createAdmin(t)

	c, rec := api.newContext(t, http.MethodPost, "/api/admin/release", nil, admin)
	require.NoError(t, controller.Release(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg model.GlobalConfig
	decodeJSON(t, rec, &cfg)
	require.True(t, cfg.Released)
	require.NotNil(t, cfg.ReleasedAt)

	// Releasing again is a no-op with the same timestamp.
	c, rec = api.newContext(t, http.MethodPost, "/api/admin/release", nil, admin)
	require.NoError(t, controller.Release(c))

	var again model.GlobalConfig
	decodeJSON(t, rec, &again)
	require.Equal(t, cfg.ReleasedAt.Unix(), again.ReleasedAt.Unix())
}

func TestAdminController_SetIntake(t *testing.T) {
	api := newTestAPI(t)
	controller := newAdminController(api)
	admin := api.createAdmin(t)

	c, rec := api.newContext(t, http.MethodPost, "/api/admin/intake",
		echo.Map{"open": false}, admin)
	require.NoError(t, controller.SetIntake(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg model.GlobalConfig
	decodeJSON(t, rec, &cfg)
	require.False(t, cfg.IntakeOpen)

	c, rec = api.newContext(t, http.MethodPost, "/api/admin/intake",
		echo.Map{"open": true}, admin)
	require.NoError(t, controller.SetIntake(c))

	decodeJSON(t, rec, &cfg)
	require.True(t, cfg.IntakeOpen)
}

func TestAdminController_SetEventStart(t *testing.T) {
	api := newTestAPI(t)
	controller := newAdminController(api)
	admin := api.createAdmin(t)

	start := time.Date(2026, 1, 17, 9, 0, 0, 0, time.UTC)
	c, rec := api.newContext(t, http.MethodPost, "/api/admin/event-start",
		echo.Map{"event_start": start}, admin)
	require.NoError(t, controller.SetEventStart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg model.GlobalConfig
	decodeJSON(t, rec, &cfg)
	require.NotNil(t, cfg.EventStart)
	require.True(t, cfg.EventStart.Equal(start))
}

func TestAdminController_CreateTeam(t *testing.T) {
	api := newTestAPI(t)
	controller := newAdminController(api)
	admin := api.createAdmin(t)

	t.Run("creates a lobby participant", func(t *testing.T) {
		c, rec := api.newContext(t, http.MethodPost, "/api/admin/teams",
			echo.Map{"unit_id": "AB12", "secret": "s3cret"}, admin)
		require.NoError(t, controller.CreateTeam(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		var team model.Team
		decodeJSON(t, rec, &team)
		require.Equal(t, "AB12", team.UnitID)
		require.Equal(t, model.RoleParticipant, team.Role)
		require.Equal(t, model.StatusLobby, team.Status)
	})

	t.Run("unit id and secret required", func(t *testing.T) {
		c, _ := api.newContext(t, http.MethodPost, "/api/admin/teams",
			echo.Map{"unit_id": "CD34"}, admin)
		requireHTTPError(t, controller.CreateTeam(c), http.StatusBadRequest)
	})
}

func TestAdminController_DeleteTeamCascadesTickets(t *testing.T) {
	api := newTestAPI(t)
	controller := newAdminController(api)
	admin := api.createAdmin(t)
	team := api.createParticipant(t, "AB12")

	_, err := api.stors.TicketStor.CreateTicket(team.ID, "help")
	require.NoError(t, err)

	c, rec := api.newContext(t, http.MethodDelete, "/api/admin/teams/"+team.ID, nil, admin)
	c.SetParamNames("id")
	c.SetParamValues(team.ID)

	require.NoError(t, controller.DeleteTeam(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err = api.stors.TeamStor.GetTeamByID(team.ID)
	require.Error(t, err)

	tickets, err := api.stors.TicketStor.ListTicketsForTeam(team.ID)
	require.NoError(t, err)
	require.Empty(t, tickets)
}

func TestAdminController_SetBanned(t *testing.T) {
	api := newTestAPI(t)
	controller := newAdminController(api)
	admin := api.createAdmin(t)
	team := api.createParticipant(t, "AB12")

	c, rec := api.newContext(t, http.MethodPost, "/api/admin/teams/"+team.ID+"/ban",
		echo.Map{"banned": true}, admin)
	c.SetParamNames("id")
	c.SetParamValues(team.ID)

	require.NoError(t, controller.SetBanned(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, api.reload(t, team).Banned)

	// Reversible.
	c, _ = api.newContext(t, http.MethodPost, "/api/admin/teams/"+team.ID+"/ban",
		echo.Map{"banned": false}, admin)
	c.SetParamNames("id")
	c.SetParamValues(team.ID)

	require.NoError(t, controller.SetBanned(c))
	require.False(t, api.reload(t, team).Banned)
}

func TestAdminController_AssignProblem(t *testing.T) {
	api := newTestAPI(t)
	controller := newAdminController(api)
	admin := api.createAdmin(t)
	team := api.createParticipant(t, "AB12")

	c, rec := api.newContext(t, http.MethodPost, "/api/admin/teams/"+team.ID+"/problem",
		echo.Map{"problem": "build a scheduler"}, admin)
	c.SetParamNames("id")
	c.SetParamValues(team.ID)

	require.NoError(t, controller.AssignProblem(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "build a scheduler", api.reload(t, team).AssignedProblem)
}

func TestAdminController_Tickets(t *testing.T) {
	api := newTestAPI(t)
	controller := newAdminController(api)
	admin := api.createAdmin(t)
	team := api.createParticipant(t, "AB12")

	ticket, err := api.stors.TicketStor.CreateTicket(team.ID, "help")
	require.NoError(t, err)

	c, rec := api.newContext(t, http.MethodGet, "/api/admin/tickets", nil, admin)
	require.NoError(t, controller.ListOpenTickets(c))

	var open []model.Ticket
	decodeJSON(t, rec, &open)
	require.Len(t, open, 1)

	c, rec = api.newContext(t, http.MethodPost, "/api/admin/tickets/"+ticket.ID+"/resolve", nil, admin)
	c.SetParamNames("id")
	c.SetParamValues(ticket.ID)

	require.NoError(t, controller.ResolveTicket(c))

	var resolved model.Ticket
	decodeJSON(t, rec, &resolved)
	require.Equal(t, model.TicketResolved, resolved.Status)

	c, rec = api.newContext(t, http.MethodGet, "/api/admin/tickets", nil, admin)
	require.NoError(t, controller.ListOpenTickets(c))

	decodeJSON(t, rec, &open)
	require.Empty(t, open)
}

func TestAdminController_PostAnnouncement(t *testing.T) {
	api := newTestAPI(t)
	controller := newAdminController(api)
	admin := api.createAdmin(t)

	c, rec := api.newContext(t, http.MethodPost, "/api/admin/announcements",
		echo.Map{"body": "lunch at noon"}, admin)
	require.NoError(t, controller.PostAnnouncement(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, _ = api.newContext(t, http.MethodPost, "/api/admin/announcements", echo.Map{}, admin)
	requireHTTPError(t, controller.PostAnnouncement(c), http.StatusBadRequest)
}

func TestAdminController_StorageInventory(t *testing.T) {
	api := newTestAPI(t)
	controller := newAdminController(api)
	admin := api.createAdmin(t)

	_, err := api.blobs.Put([]byte("photo"), "ab12_p0_1.jpg")
	require.NoError(t, err)

	c, rec := api.newContext(t, http.MethodGet, "/api/admin/storage", nil, admin)
	require.NoError(t, controller.StorageInventory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var blobs []blobstor.BlobInfo
	decodeJSON(t, rec, &blobs)
	require.Len(t, blobs, 1)
	require.Equal(t, "ab12_p0_1.jpg", blobs[0].Locator)
}

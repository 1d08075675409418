package cmd

import (
	"github.com/labstack/echo/v4"

	"github.com/hackos/hackd/pkg/assistant"
	"github.com/hackos/hackd/pkg/blobstor"
	"github.com/hackos/hackd/pkg/engine"
	"github.com/hackos/hackd/pkg/eventdb/stor"
	"github.com/hackos/hackd/pkg/feed"
	"github.com/hackos/hackd/pkg/webapi"
)

type RouteOpts struct {
	stors  *stor.Stors
	hub    *feed.Hub
	blobs  *blobstor.DiskStore
	asker  assistant.Asker
	wizard *engine.Wizard
}

func setupRoutes(e *echo.Echo, opts RouteOpts) {
	authController := webapi.NewAuthController(opts.stors.TeamStor, opts.stors.ConfigStor)
	e.POST("/api/login", authController.Login)

	auth := webapi.CredentialAuth(opts.stors.TeamStor)

	g := e.Group("/api", auth)

	teamController := webapi.NewTeamController(opts.stors.TeamStor, opts.stors.ConfigStor, opts.blobs, opts.wizard)
	g.GET("/team", teamController.GetTeam)
	g.POST("/team/profile", teamController.SaveProfile)
	g.POST("/team/repo", teamController.SetRepoLink)
	g.POST("/team/photos/:slot", teamController.UploadPhoto)
	g.POST("/team/archive", teamController.UploadArchive)
	g.GET("/blobs/:locator", teamController.GetBlob)

	submissionController := webapi.NewSubmissionController(opts.wizard)
	g.POST("/submission/start", submissionController.Start)
	g.POST("/submission/consent", submissionController.Consent)
	g.POST("/submission/confirm", submissionController.Confirm)
	g.POST("/submission/cancel", submissionController.Cancel)

	ticketController := webapi.NewTicketController(opts.stors.TeamStor, opts.stors.TicketStor)
	g.POST("/help/raise", ticketController.RaiseHand)
	g.GET("/help/ticket", ticketController.GetOpenTicket)

	leaderboardController := webapi.NewLeaderboardController(opts.stors.TeamStor, opts.wizard)
	g.GET("/leaderboard", leaderboardController.Standings)

	announcementController := webapi.NewAnnouncementController(opts.stors.AnnouncementStor)
	g.GET("/announcements", announcementController.List)

	assistantController := webapi.NewAssistantController(opts.asker)
	g.POST("/assist", assistantController.Ask)

	wsController := webapi.NewWSController(opts.hub)
	e.GET("/ws/feed", wsController.Subscribe, auth)

	adminController := webapi.NewAdminController(opts.stors, opts.blobs)
	admin := e.Group("/api/admin", auth, webapi.AdminOnly())
	admin.POST("/release", adminController.Release)
	admin.POST("/intake", adminController.SetIntake)
	admin.POST("/event-start", adminController.SetEventStart)
	admin.POST("/teams", adminController.CreateTeam)
	admin.DELETE("/teams/:id", adminController.DeleteTeam)
	admin.POST("/teams/:id/ban", adminController.SetBanned)
	admin.POST("/teams/:id/problem", adminController.AssignProblem)
	admin.GET("/tickets", adminController.ListOpenTickets)
	admin.POST("/tickets/:id/resolve", adminController.ResolveTicket)
	admin.POST("/announcements", adminController.PostAnnouncement)
	admin.GET("/storage", adminController.StorageInventory)
}

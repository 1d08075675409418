package stor

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/hackos/hackd/pkg/feed"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingNotifier captures published events so tests can assert on the
// change feed without running a hub.
type recordingNotifier struct {
	mu     sync.Mutex
	events []feed.Event
}

func (n *recordingNotifier) Publish(ev feed.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) all() []feed.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]feed.Event(nil), n.events...)
}

func (n *recordingNotifier) last(t *testing.T) feed.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.events)
	return n.events[len(n.events)-1]
}

func newTestStors(t *testing.T) (*Stors, *recordingNotifier) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&model.Team{}, &model.GlobalConfig{}, &model.Ticket{}, &model.Announcement{})
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	return NewGormStors(db, notifier), notifier
}

func createTestTeam(t *testing.T, stors *Stors, unitID string) *model.Team {
	team, err := stors.TeamStor.CreateTeam(&model.Team{
		UnitID: unitID,
		Secret: "s3cret",
		Role:   model.RoleParticipant,
	})
	require.NoError(t, err)
	return team
}

func TestGormTeamStor_CreateAndLookup(t *testing.T) {
	stors, notifier := newTestStors(t)

	team := createTestTeam(t, stors, "AB12")
	require.NotEmpty(t, team.ID)
	require.Equal(t, model.StatusLobby, team.Status)

	ev := notifier.last(t)
	require.Equal(t, feed.OpInsert, ev.Op)
	require.Equal(t, feed.SetTeams, ev.Set)
	require.Equal(t, team.ID, ev.TeamID)

	byID, err := stors.TeamStor.GetTeamByID(team.ID)
	require.NoError(t, err)
	require.Equal(t, "AB12", byID.UnitID)

	byUnit, err := stors.TeamStor.GetTeamByUnitID("AB12")
	require.NoError(t, err)
	require.Equal(t, team.ID, byUnit.ID)

	_, err = stors.TeamStor.GetTeamByID("no-such-id")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormTeamStor_DuplicateUnitIDRejected(t *testing.T) {
	stors, _ := newTestStors(t)

	createTestTeam(t, stors, "AB12")

	_, err := stors.TeamStor.CreateTeam(&model.Team{UnitID: "AB12", Secret: "other"})
	require.Error(t, err)
}

func TestGormTeamStor_Credentials(t *testing.T) {
	stors, _ := newTestStors(t)
	createTestTeam(t, stors, "AB12")

	team, err := stors.TeamStor.GetTeamByCredentials("AB12", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "AB12", team.UnitID)

	// Comparison is verbatim; a case change is a different secret.
	_, err = stors.TeamStor.GetTeamByCredentials("AB12", "S3cret")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = stors.TeamStor.GetTeamByCredentials("AB12", "wrong")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormTeamStor_UpdatesPublishBeforeAndAfterImages(t *testing.T) {
	stors, notifier := newTestStors(t)
	team := createTestTeam(t, stors, "AB12")

	updated, err := stors.TeamStor.SetRepoLink(team, "https://github.com/alice/AB12_Hackathon_Jan")
	require.NoError(t, err)
	require.Equal(t, "https://github.com/alice/AB12_Hackathon_Jan", updated.RepoLink)

	ev := notifier.last(t)
	require.Equal(t, feed.OpUpdate, ev.Op)
	require.Equal(t, feed.SetTeams, ev.Set)
	require.NotEmpty(t, ev.Before)
	require.NotEmpty(t, ev.After)
}

func TestGormTeamStor_PhotoSlots(t *testing.T) {
	stors, _ := newTestStors(t)
	team := createTestTeam(t, stors, "AB12")

	team, err := stors.TeamStor.SetPhoto(team, 0, "ab12_p1_1.jpg")
	require.NoError(t, err)
	require.False(t, team.Photos.Complete())

	team, err = stors.TeamStor.SetPhoto(team, 1, "ab12_p2_2.jpg")
	require.NoError(t, err)
	require.True(t, team.Photos.Complete())

	reloaded, err := stors.TeamStor.GetTeamByID(team.ID)
	require.NoError(t, err)
	require.Equal(t, model.PhotoList{"ab12_p1_1.jpg", "ab12_p2_2.jpg"}, reloaded.Photos)
}

func TestGormTeamStor_ListParticipantsOrderedAndExcludesAdmins(t *testing.T) {
	stors, _ := newTestStors(t)

	createTestTeam(t, stors, "CD34")
	createTestTeam(t, stors, "AB12")

	_, err := stors.TeamStor.CreateTeam(&model.Team{UnitID: "ADMIN", Secret: "x", Role: model.RoleAdmin})
	require.NoError(t, err)

	teams, err := stors.TeamStor.ListParticipants()
	require.NoError(t, err)
	require.Len(t, teams, 2)
	require.Equal(t, "AB12", teams[0].UnitID)
	require.Equal(t, "CD34", teams[1].UnitID)
}

func TestGormTeamStor_DeleteTeam(t *testing.T) {
	stors, notifier := newTestStors(t)
	team := createTestTeam(t, stors, "AB12")

	require.NoError(t, stors.TeamStor.DeleteTeam(team))

	ev := notifier.last(t)
	require.Equal(t, feed.OpDelete, ev.Op)
	require.Equal(t, feed.SetTeams, ev.Set)

	_, err := stors.TeamStor.GetTeamByID(team.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormConfigStor_ReleaseIsOneWay(t *testing.T) {
	stors, _ := newTestStors(t)

	cfg, err := stors.ConfigStor.EnsureConfig()
	require.NoError(t, err)
	require.True(t, cfg.IntakeOpen)
	require.False(t, cfg.Released)
	require.Nil(t, cfg.ReleasedAt)

	released, err := stors.ConfigStor.Release()
	require.NoError(t, err)
	require.True(t, released.Released)
	require.NotNil(t, released.ReleasedAt)

	// A second release keeps the original timestamp.
	again, err := stors.ConfigStor.Release()
	require.NoError(t, err)
	require.True(t, again.Released)
	require.Equal(t, released.ReleasedAt.Unix(), again.ReleasedAt.Unix())
}

func TestGormConfigStor_IntakeToggle(t *testing.T) {
	stors, notifier := newTestStors(t)

	_, err := stors.ConfigStor.EnsureConfig()
	require.NoError(t, err)

	cfg, err := stors.ConfigStor.SetIntakeOpen(false)
	require.NoError(t, err)
	require.False(t, cfg.IntakeOpen)

	ev := notifier.last(t)
	require.Equal(t, feed.SetConfig, ev.Set)

	cfg, err = stors.ConfigStor.SetIntakeOpen(true)
	require.NoError(t, err)
	require.True(t, cfg.IntakeOpen)
}

func TestGormConfigStor_EnsureConfigIsIdempotent(t *testing.T) {
	stors, _ := newTestStors(t)

	first, err := stors.ConfigStor.EnsureConfig()
	require.NoError(t, err)

	_, err = stors.ConfigStor.SetIntakeOpen(false)
	require.NoError(t, err)

	second, err := stors.ConfigStor.EnsureConfig()
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.False(t, second.IntakeOpen)
}

func TestGormTicketStor_Lifecycle(t *testing.T) {
	stors, notifier := newTestStors(t)
	team := createTestTeam(t, stors, "AB12")

	ticket, err := stors.TicketStor.CreateTicket(team.ID, "stuck on deploy")
	require.NoError(t, err)
	require.Equal(t, model.TicketOpen, ticket.Status)

	ev := notifier.last(t)
	require.Equal(t, feed.OpInsert, ev.Op)
	require.Equal(t, feed.SetTickets, ev.Set)
	require.Equal(t, team.ID, ev.TeamID)

	open, err := stors.TicketStor.GetOpenTicketForTeam(team.ID)
	require.NoError(t, err)
	require.Equal(t, ticket.ID, open.ID)

	openList, err := stors.TicketStor.ListOpenTickets()
	require.NoError(t, err)
	require.Len(t, openList, 1)

	resolved, err := stors.TicketStor.ResolveTicket(ticket.ID)
	require.NoError(t, err)
	require.Equal(t, model.TicketResolved, resolved.Status)

	// Resolving twice is a no-op.
	resolved, err = stors.TicketStor.ResolveTicket(ticket.ID)
	require.NoError(t, err)
	require.Equal(t, model.TicketResolved, resolved.Status)

	_, err = stors.TicketStor.GetOpenTicketForTeam(team.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	history, err := stors.TicketStor.ListTicketsForTeam(team.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestGormTicketStor_GetOrCreateOpenTicket(t *testing.T) {
	stors, _ := newTestStors(t)
	team := createTestTeam(t, stors, "AB12")

	first, created, err := stors.TicketStor.GetOrCreateOpenTicket(team.ID, "stuck on deploy")
	require.NoError(t, err)
	require.True(t, created)

	// While the first is open a second call hands it back instead of creating.
	second, created, err := stors.TicketStor.GetOrCreateOpenTicket(team.ID, "still stuck")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)

	open, err := stors.TicketStor.ListOpenTickets()
	require.NoError(t, err)
	require.Len(t, open, 1)

	_, err = stors.TicketStor.ResolveTicket(first.ID)
	require.NoError(t, err)

	third, created, err := stors.TicketStor.GetOrCreateOpenTicket(team.ID, "new problem")
	require.NoError(t, err)
	require.True(t, created)
	require.NotEqual(t, first.ID, third.ID)
}

func TestInMemoryTicketStor_GetOrCreateOpenTicketConcurrent(t *testing.T) {
	tickets := NewInMemoryTicketStor(feed.NopNotifier{})

	const raisers = 16
	var (
		wg           sync.WaitGroup
		createdCount int32
	)

	for i := 0; i < raisers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := tickets.GetOrCreateOpenTicket("team-1", "help")
			require.NoError(t, err)
			if created {
				atomic.AddInt32(&createdCount, 1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), createdCount)

	open, err := tickets.ListOpenTickets()
	require.NoError(t, err)
	require.Len(t, open, 1)
}

func TestGormTicketStor_DeleteTicketsForTeam(t *testing.T) {
	stors, notifier := newTestStors(t)
	team := createTestTeam(t, stors, "AB12")

	_, err := stors.TicketStor.CreateTicket(team.ID, "first")
	require.NoError(t, err)
	first, err := stors.TicketStor.GetOpenTicketForTeam(team.ID)
	require.NoError(t, err)
	_, err = stors.TicketStor.ResolveTicket(first.ID)
	require.NoError(t, err)
	_, err = stors.TicketStor.CreateTicket(team.ID, "second")
	require.NoError(t, err)

	require.NoError(t, stors.TicketStor.DeleteTicketsForTeam(team.ID))

	history, err := stors.TicketStor.ListTicketsForTeam(team.ID)
	require.NoError(t, err)
	require.Empty(t, history)

	var deletes int
	for _, ev := range notifier.all() {
		if ev.Op == feed.OpDelete && ev.Set == feed.SetTickets {
			deletes++
		}
	}
	require.Equal(t, 2, deletes)
}

func TestGormAnnouncementStor_AppendOnly(t *testing.T) {
	stors, notifier := newTestStors(t)

	_, err := stors.AnnouncementStor.CreateAnnouncement("lunch at noon")
	require.NoError(t, err)
	_, err = stors.AnnouncementStor.CreateAnnouncement("judging at five")
	require.NoError(t, err)

	ev := notifier.last(t)
	require.Equal(t, feed.OpInsert, ev.Op)
	require.Equal(t, feed.SetAnnouncements, ev.Set)

	all, err := stors.AnnouncementStor.ListAnnouncements()
	require.NoError(t, err)
	require.Len(t, all, 2)
}

// Package console serves a read-only spectator view of the live standings
// over SSH. Participants log in with the same unit id + secret they use on
// the web surface; nothing here can mutate event state.
package console

import (
	"fmt"
	"io"
	"net"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"github.com/hackos/hackd/pkg/clog"
	"github.com/hackos/hackd/pkg/engine"
	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/hackos/hackd/pkg/eventdb/stor"
)

type Server struct {
	server *ssh.Server
	teams  stor.TeamStor
	wizard *engine.Wizard
}

func NewServer(host, port, hostKeyPath string, teams stor.TeamStor, wizard *engine.Wizard) (*Server, error) {
	s := &Server{teams: teams, wizard: wizard}

	server, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithPasswordAuth(s.authenticate),
		wish.WithMiddleware(s.standings),
	)
	if err != nil {
		return nil, err
	}

	s.server = server
	return s, nil
}

func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

func (s *Server) Close() error {
	return s.server.Close()
}

// authenticate compares the SSH user/password against stored credentials,
// verbatim, the same way the web login does.
func (s *Server) authenticate(ctx ssh.Context, password string) bool {
	_, err := s.teams.GetTeamByCredentials(ctx.User(), password)
	if err != nil {
		clog.UsingCtx("console").Infof("rejected ssh login for %s", ctx.User())
		return false
	}
	return true
}

func (s *Server) standings(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		teams, err := s.teams.ListParticipants()
		if err != nil {
			fmt.Fprintln(sess, "standings unavailable, try again later")
			next(sess)
			return
		}

		renderStandings(sess, teams, s.wizard)
		next(sess)
	}
}

func renderStandings(w io.Writer, teams []model.Team, wizard *engine.Wizard) {
	fmt.Fprintln(w, "LIVE STANDINGS")
	fmt.Fprintln(w, "--------------")
	for i := range teams {
		team := &teams[i]
		line := fmt.Sprintf("%-8s %-12s queries=%d", team.UnitID, wizard.State(team), team.HandRaisedCount)
		if team.Banned {
			line += "  [BANNED]"
		}
		fmt.Fprintln(w, line)
	}
}

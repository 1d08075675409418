package feed

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/hackos/hackd/pkg/clog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 20 * time.Second
)

// Session pumps a subscriber's events over one websocket connection. The
// client sends nothing but control frames; any inbound data message is
// ignored.
type Session struct {
	hub  *Hub
	sub  *Subscriber
	conn *websocket.Conn
}

func NewSession(hub *Hub, sub *Subscriber, conn *websocket.Conn) *Session {
	return &Session{hub: hub, sub: sub, conn: conn}
}

// Run blocks until the connection drops or the hub closes the subscriber.
func (s *Session) Run() {
	go s.readPump()
	s.writePump()
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.hub.Unsubscribe(s.sub)
		s.conn.Close()
	}()

	for {
		select {
		case ev := <-s.sub.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(ev); err != nil {
				return
			}

		case <-s.sub.Closed():
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Session) readPump() {
	defer func() {
		s.hub.Unsubscribe(s.sub)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(1 << 10)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				clog.UsingCtx("feed").Debugf("websocket read: %s", err)
			}
			return
		}
	}
}

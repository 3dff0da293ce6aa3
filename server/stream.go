package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/npillmayer/uxbuilder/dom"
	"github.com/npillmayer/uxbuilder/selection"
	"github.com/npillmayer/uxbuilder/session"
)

// StreamMessage is sent to the embedded view for every pointer event
// received over the websocket stream: the selection state after the event,
// or a notice if the event has been rejected.
type StreamMessage struct {
	Selection *selection.Snapshot `json:"selection,omitempty"`
	Notice    *session.Notice     `json:"notice,omitempty"`
}

const streamWriteTimeout = 5 * time.Second

// stream upgrades to a websocket over which the embedded view forwards
// pointer events as JSON, one message per event. Events are dispatched in
// the order received. The stream ends when either side closes it or the
// session is gone.
func (srv *Server) stream(w http.ResponseWriter, r *http.Request) {
	s := srv.session(w, r)
	if s == nil {
		return
	}
	conn, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		tracer().Errorf("session %s: websocket upgrade: %v", s.ID(), err)
		return
	}
	defer conn.Close()
	tracer().Infof("session %s: event stream opened", s.ID())
	ctx := r.Context()
	for {
		var ev dom.PointerEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				tracer().Debugf("session %s: event stream: %v", s.ID(), err)
			}
			return
		}
		var msg StreamMessage
		err := s.Do(ctx, func(s *session.Session) error {
			if _, err := s.Doc.Dispatch(ev); err != nil {
				return err
			}
			snap := s.Machine.Snapshot()
			msg.Selection = &snap
			return nil
		})
		if errors.Is(err, session.ErrClosed) {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
				time.Now().Add(streamWriteTimeout))
			return
		} else if err != nil {
			msg.Notice = &session.Notice{Time: time.Now(), Level: session.Warning, Message: err.Error()}
		}
		conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			tracer().Debugf("session %s: event stream: %v", s.ID(), err)
			return
		}
	}
}

// Package observer streams episode payloads to websocket viewers. It is
// strictly one-way and fire-and-forget: a slow or stalled viewer drops
// frames and can never block the simulation tick.
package observer

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"gridlife.ai/internal/protocol"
)

type Server struct {
	params protocol.WorldParams
	runID  string
	log    *log.Logger

	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	out       chan []byte
	snapshots bool
}

func NewServer(params protocol.WorldParams, runID string, logger *log.Logger) *Server {
	return &Server{
		params:  params,
		runID:   runID,
		log:     logger,
		clients: map[string]*client{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// Handshake: must send SUBSCRIBE first.
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var sub protocol.SubscribeMsg
		if err := json.Unmarshal(msg, &sub); err != nil || sub.Type != protocol.TypeSubscribe || sub.ProtocolVersion != protocol.Version {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected SUBSCRIBE"),
				time.Now().Add(time.Second))
			return
		}

		sid := fmt.Sprintf("V%d", s.nextID.Add(1))
		cl := &client{out: make(chan []byte, 256), snapshots: sub.SnapshotStream}

		welcome, err := json.Marshal(protocol.WelcomeMsg{
			Type:            protocol.TypeWelcome,
			ProtocolVersion: protocol.Version,
			SessionID:       sid,
			RunID:           s.runID,
			WorldParams:     s.params,
		})
		if err != nil {
			return
		}

		s.mu.Lock()
		s.clients[sid] = cl
		s.mu.Unlock()
		s.log.Printf("viewer %s subscribed (snapshots=%v)", sid, sub.SnapshotStream)

		defer func() {
			s.mu.Lock()
			delete(s.clients, sid)
			s.mu.Unlock()
			s.log.Printf("viewer %s gone", sid)
		}()

		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, welcome); err != nil {
			return
		}

		done := make(chan struct{})
		// Reader goroutine: viewers send nothing after SUBSCRIBE; we only
		// watch for close.
		go func() {
			defer close(done)
			for {
				_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case b := <-cl.out:
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return
				}
			}
		}
	}
}

// broadcast marshals once and fans out without blocking; a full client
// buffer drops the frame for that client.
func (s *Server) broadcast(v any, snapshotOnly bool) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Printf("broadcast marshal: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cl := range s.clients {
		if snapshotOnly && !cl.snapshots {
			continue
		}
		select {
		case cl.out <- b:
		default:
		}
	}
}

func (s *Server) EmitEpisodeStart(m protocol.EpisodeStartMsg) { s.broadcast(m, false) }
func (s *Server) EmitSnapshot(m protocol.SnapshotMsg)         { s.broadcast(m, true) }
func (s *Server) EmitSummary(m protocol.SummaryMsg)           { s.broadcast(m, false) }

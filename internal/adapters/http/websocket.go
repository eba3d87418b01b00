package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	natsadapter "github.com/ribbitnetwork/frogmap/internal/adapters/nats"
	"github.com/ribbitnetwork/frogmap/internal/core/domain"
	"github.com/ribbitnetwork/frogmap/internal/core/usecases"
	"github.com/ribbitnetwork/frogmap/internal/pkg/metrics"
)

// wsMessage is sent from client to pick the sensor whose charts it shows.
type wsMessage struct {
	Action   string `json:"action"` // "select" | "unselect"
	Host     string `json:"host"`
	Duration string `json:"duration"`
	Timezone string `json:"tz"`
}

// wsEvent is pushed to the client.
type wsEvent struct {
	Type      string            `json:"type"` // "refresh" | "charts" | "reading" | "status" | "error"
	Selection *domain.Selection `json:"selection,omitempty"`
	Data      any               `json:"data,omitempty"`
	Message   string            `json:"message,omitempty"`
}

// wsSession is the state of one dashboard connection. The selection is
// replaced wholesale on every select, never mutated in place. ctx ends
// when the client disconnects.
type wsSession struct {
	ctx  context.Context
	deps *Dependencies
	conn *websocket.Conn

	writeMu sync.Mutex

	mu         sync.Mutex
	selection  *domain.Selection
	unsubHost  func()
	chartsTime time.Duration
}

func (s *wsSession) send(ev wsEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *wsSession) current() *domain.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

func (s *wsSession) charts(sel domain.Selection) ([]domain.Series, error) {
	ctx, cancel := context.WithTimeout(s.ctx, s.chartsTime)
	defer cancel()
	return s.deps.Sensors.Charts(ctx, sel)
}

// pushCharts recomputes and sends the charts of sel.
func (s *wsSession) pushCharts(sel domain.Selection) error {
	series, err := s.charts(sel)
	if err != nil {
		return err
	}
	return s.send(wsEvent{Type: "charts", Selection: &sel, Data: series})
}

func (s *wsSession) onRefresh(data []byte) {
	_ = s.send(wsEvent{Type: "refresh", Data: json.RawMessage(data)})

	if sel := s.current(); sel != nil {
		if err := s.pushCharts(*sel); err != nil {
			_ = s.send(wsEvent{Type: "error", Message: err.Error()})
		}
	}
}

// forwardReading relays a live reading with its time in the selection's zone,
// matching the charts sent on the same connection.
func (s *wsSession) forwardReading(sel domain.Selection, loc *time.Location, data []byte) {
	var r domain.Reading
	if err := json.Unmarshal(data, &r); err != nil {
		slog.Debug("ws drop malformed reading", "host", sel.Host, "error", err)
		return
	}
	r.Time = r.Time.In(loc)
	_ = s.send(wsEvent{Type: "reading", Selection: &sel, Data: r})
}

func (s *wsSession) selectSensor(m wsMessage) {
	def := s.deps.Dashboard.DefaultDuration
	if def == "" {
		def = domain.DefaultDuration
	}
	sel := domain.Selection{Host: m.Host, Duration: domain.Duration(m.Duration), Timezone: m.Timezone}
	if sel.Duration == "" {
		sel.Duration = def
	}

	series, err := s.charts(sel)
	if err != nil {
		_ = s.send(wsEvent{Type: "error", Message: err.Error()})
		return
	}
	// Charts succeeded, so host and zone are valid.
	loc, _ := usecases.LoadTimezone(sel.Timezone)

	var unsub func()
	if s.deps.Relay != nil {
		u, err := s.deps.Relay.Subscribe(natsadapter.ReadingSubject(sel.Host), func(data []byte) {
			s.forwardReading(sel, loc, data)
		})
		if err != nil {
			slog.Warn("ws reading subscribe failed", "host", sel.Host, "error", err)
		} else {
			unsub = u
		}
	}

	s.mu.Lock()
	prev := s.unsubHost
	s.selection = &sel
	s.unsubHost = unsub
	s.mu.Unlock()

	if prev != nil {
		prev()
	}
	_ = s.send(wsEvent{Type: "charts", Selection: &sel, Data: series})
}

func (s *wsSession) unselect() {
	s.mu.Lock()
	prev := s.unsubHost
	s.selection = nil
	s.unsubHost = nil
	s.mu.Unlock()

	if prev != nil {
		prev()
	}
	_ = s.send(wsEvent{Type: "status", Message: "unselected"})
}

// WebSocketHandler pushes refresh ticks to dashboard clients and, once a
// client selects a sensor, that sensor's charts and live readings.
// Clients send JSON: {"action":"select","host":"frog-1","duration":"24h","tz":"Europe/Madrid"}.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws client connected", "remote", remoteAddr)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s := &wsSession{ctx: ctx, deps: deps, conn: c, chartsTime: 15 * time.Second}

		if deps.Relay != nil {
			unsub, err := deps.Relay.Subscribe(natsadapter.SubjectRefresh, s.onRefresh)
			if err != nil {
				slog.Warn("ws refresh subscribe failed", "error", err)
			} else {
				defer unsub()
			}
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					s.writeMu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					s.writeMu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		_ = s.send(wsEvent{Type: "status", Message: "connected"})

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = s.send(wsEvent{Type: "error", Message: "invalid JSON"})
				continue
			}

			switch m.Action {
			case "select":
				s.selectSensor(m)
			case "unselect":
				s.unselect()
			default:
				_ = s.send(wsEvent{Type: "error", Message: "unknown action: " + m.Action})
			}
		}

		close(done)
		cancel()
		s.mu.Lock()
		if s.unsubHost != nil {
			s.unsubHost()
		}
		s.mu.Unlock()
		slog.Info("ws client disconnected", "remote", remoteAddr)
	}
}

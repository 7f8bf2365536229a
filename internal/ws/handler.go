package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/fantasy-roster-backend/internal/hub"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/logging"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/session"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/types"
)

type Options struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	OutboxSize     int
	OriginPatterns []string
	Logger         *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 5 * time.Minute
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 3 * time.Second
	}
	if o.OutboxSize < 1 {
		o.OutboxSize = 8
	}
	o.Logger = logging.OrNop(o.Logger)
	return o
}

func Handler(h *hub.Hub, opts Options) http.HandlerFunc {
	opts = opts.withDefaults()

	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		s, err := h.Get(r.Context(), code)
		if err != nil {
			http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
			return
		}
		if s == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		log := opts.Logger.With(zap.String(logging.FieldSession, code), zap.String(logging.FieldClient, clientID))

		out := make(chan session.Snapshot, opts.OutboxSize)
		if err := s.Send(r.Context(), session.Join{ClientID: clientID, Outbox: out}); err != nil {
			conn.Close(websocket.StatusGoingAway, "session closed")
			return
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = s.Send(ctx, session.Leave{ClientID: clientID})
		}()
		log.Debug("websocket connected")

		// Writer goroutine. The session closes out on Leave, shutdown, or when
		// this client falls behind. Watching Done as well means the writer
		// cannot outlive the session.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			for {
				select {
				case snap, ok := <-out:
					if !ok {
						conn.Close(websocket.StatusGoingAway, "session ended")
						return
					}
					for _, msg := range types.FromSnapshot(code, snap) {
						if err := write(writeCtx, conn, opts.WriteTimeout, msg); err != nil {
							log.Debug("websocket write failed", zap.Error(err))
							writeCancel()
							return
						}
					}
				case <-s.Done():
					conn.Close(websocket.StatusGoingAway, "session ended")
					return
				case <-writeCtx.Done():
					return
				}
			}
		}()
		defer func() { <-writerDone }()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(writeCtx, opts.ReadTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					if !errors.Is(err, context.Canceled) {
						log.Debug("websocket read ended", zap.Error(err))
					}
				}
				break
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = write(writeCtx, conn, opts.WriteTimeout, types.ErrorMessage("bad_json", "bad json"))
				continue
			}
			g, ok := cm.Gesture()
			if !ok {
				_ = write(writeCtx, conn, opts.WriteTimeout, types.ErrorMessage("unknown_type", "unknown type"))
				continue
			}

			// Results come back through the outbox.
			if err := s.Send(writeCtx, session.FromClient{ClientID: clientID, Gesture: g}); err != nil {
				log.Debug("gesture not delivered", zap.Error(err))
				break
			}
		}

		writeCancel()
		log.Debug("websocket disconnected")
	}
}

func write(ctx context.Context, conn *websocket.Conn, timeout time.Duration, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}

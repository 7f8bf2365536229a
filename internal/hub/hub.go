package hub

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/fantasy-roster-backend/internal/engine"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/logging"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/metrics"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/session"
)

var ErrHubClosed = errors.New("hub closed")

type HubMsg interface{ isHubMsg() }

// CreateSession starts a session. An empty Code asks the hub for a fresh one.
type CreateSession struct {
	Code  string
	State engine.State
	Reply chan *session.Session
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

type EnsureSession struct {
	Code  string
	State engine.State // only used if creation happens
	Reply chan *session.Session
}

// RemoveSession stops the session and forgets it. Reply is optional and
// reports whether the code was known.
type RemoveSession struct {
	Code  string
	Reply chan bool
}

type ShutdownHub struct{}

// ReapIdle closes sessions with no subscribers whose last gesture is older
// than TTL. Reply is optional and receives the number reaped.
type ReapIdle struct {
	TTL   time.Duration
	Reply chan int
}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (EnsureSession) isHubMsg() {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}
func (ReapIdle) isHubMsg()      {}

type Options struct {
	SearchMode engine.SearchMode
	Logger     *zap.Logger
	Metrics    *metrics.Recorder
	Now        func() time.Time
}

type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	opts     Options
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewHub(parent context.Context, opts Options) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		opts:     opts,
		log:      logging.OrNop(opts.Logger),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed after every session has been told to stop.
func (h *Hub) Done() <-chan struct{} { return h.done }

// Send delivers m unless the hub has stopped or ctx ends first.
func (h *Hub) Send(ctx context.Context, m HubMsg) error {
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}
	select {
	case h.inbox <- m:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) Create(ctx context.Context, state engine.State) (*session.Session, error) {
	reply := make(chan *session.Session, 1)
	if err := h.Send(ctx, CreateSession{State: state, Reply: reply}); err != nil {
		return nil, err
	}
	return await(ctx, h, reply)
}

// Get returns nil when no session has that code.
func (h *Hub) Get(ctx context.Context, code string) (*session.Session, error) {
	reply := make(chan *session.Session, 1)
	if err := h.Send(ctx, GetSession{Code: code, Reply: reply}); err != nil {
		return nil, err
	}
	return await(ctx, h, reply)
}

func (h *Hub) Remove(ctx context.Context, code string) (bool, error) {
	reply := make(chan bool, 1)
	if err := h.Send(ctx, RemoveSession{Code: code, Reply: reply}); err != nil {
		return false, err
	}
	return await(ctx, h, reply)
}

func (h *Hub) Reap(ctx context.Context, ttl time.Duration) (int, error) {
	reply := make(chan int, 1)
	if err := h.Send(ctx, ReapIdle{TTL: ttl, Reply: reply}); err != nil {
		return 0, err
	}
	return await(ctx, h, reply)
}

func await[T any](ctx context.Context, h *Hub, reply <-chan T) (T, error) {
	var zero T
	select {
	case v := <-reply:
		return v, nil
	case <-h.done:
		return zero, ErrHubClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				if msg.Code != "" {
					if s := h.sessions[msg.Code]; s != nil {
						msg.Reply <- s
						break
					}
				}
				msg.Reply <- h.start(msg.Code, msg.State)

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // May be nil

			case EnsureSession:
				if s := h.sessions[msg.Code]; s != nil {
					msg.Reply <- s
					break
				}
				msg.Reply <- h.start(msg.Code, msg.State)

			case RemoveSession:
				s, ok := h.sessions[msg.Code]
				if ok {
					h.stop(msg.Code, s)
				}
				if msg.Reply != nil {
					msg.Reply <- ok
				}

			case ReapIdle:
				n := h.reap(msg.TTL)
				if msg.Reply != nil {
					msg.Reply <- n
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

// start returns nil if no free code could be generated.
func (h *Hub) start(code string, state engine.State) *session.Session {
	if code == "" {
		code = h.freeCode()
		if code == "" {
			return nil
		}
	}
	s := session.New(h.ctx, state, session.Options{
		Code:       code,
		SearchMode: h.opts.SearchMode,
		Logger:     h.log,
		Metrics:    h.opts.Metrics,
		Now:        h.opts.Now,
	})
	h.sessions[code] = s
	h.opts.Metrics.SessionOpened()
	h.log.Info("session created", zap.String(logging.FieldSession, code), zap.Int(logging.FieldSessions, len(h.sessions)))
	return s
}

func (h *Hub) stop(code string, s *session.Session) {
	s.Close()
	delete(h.sessions, code)
	h.opts.Metrics.SessionClosed()
	h.log.Info("session removed", zap.String(logging.FieldSession, code), zap.Int(logging.FieldSessions, len(h.sessions)))
}

func (h *Hub) reap(ttl time.Duration) int {
	cutoff := h.opts.Now().Add(-ttl)
	n := 0
	for code, s := range h.sessions {
		if s.NumClients() > 0 || s.LastActive().After(cutoff) {
			continue
		}
		h.stop(code, s)
		n++
	}
	h.opts.Metrics.SessionsReaped(n)
	if n > 0 {
		h.log.Info("idle sessions reaped", zap.Int("reaped", n), zap.Int(logging.FieldSessions, len(h.sessions)))
	}
	return n
}

func (h *Hub) shutdown() {
	stopped := make([]*session.Session, 0, len(h.sessions))
	for code, s := range h.sessions {
		s.Close()
		h.opts.Metrics.SessionClosed()
		delete(h.sessions, code)
		stopped = append(stopped, s)
	}
	h.cancel()
	for _, s := range stopped {
		<-s.Done()
	}
}

func (h *Hub) freeCode() string {
	for range 16 {
		c, err := GenerateCode()
		if err != nil {
			h.log.Error("generating session code", zap.Error(err))
			return ""
		}
		if h.sessions[c] == nil {
			return c
		}
		h.log.Debug("collision on code, regenerating", zap.String(logging.FieldSession, c))
	}
	return ""
}

// GenerateCode returns a random six character join code.
func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

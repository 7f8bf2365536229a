package session

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/DoyleJ11/fantasy-roster-backend/internal/engine"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/logging"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/metrics"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/present"
)

var ErrClosed = errors.New("session closed")

type Msg interface{ isSessionMsg() }

// FromClient carries one gesture. Reply, when set, must be buffered; the
// session answers exactly once.
type FromClient struct {
	ClientID string
	Gesture  Gesture
	Reply    chan Result
}

func (FromClient) isSessionMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetState struct {
	Reply chan Status
}

func (GetState) isSessionMsg() {}

type Candidates struct {
	SlotID engine.SlotID
	Reply  chan CandidatesResult
}

func (Candidates) isSessionMsg() {}

// Snapshot is what subscribers receive. Rejected snapshots only reach the
// client whose gesture failed, and their View is unchanged.
type Snapshot struct {
	Version      int
	View         present.View
	Notification *present.Notification
	Rejected     bool
	Code         string
}

type Result struct {
	Version      int
	View         present.View
	Notification *present.Notification
	Code         string
	Err          error
}

type Status struct {
	Code       string
	Version    int
	NumClients int
	State      engine.State
	View       present.View
}

type CandidatesResult struct {
	Players []engine.Player
	Err     error
}

type Options struct {
	Code       string
	SearchMode engine.SearchMode
	Logger     *zap.Logger
	Metrics    *metrics.Recorder
	Now        func() time.Time
}

type Session struct {
	code    string
	inbox   chan Msg
	state   engine.State
	version int
	query   string
	drag    engine.DragSession
	mode    engine.SearchMode
	clients map[string]chan Snapshot

	log     *zap.Logger
	metrics *metrics.Recorder
	now     func() time.Time

	lastActive atomic.Int64
	numClients atomic.Int32

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func New(parent context.Context, initial engine.State, opts Options) *Session {
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		code:    opts.Code,
		inbox:   make(chan Msg, 64),
		state:   initial,
		mode:    opts.SearchMode,
		clients: make(map[string]chan Snapshot),
		log:     logging.OrNop(opts.Logger).With(zap.String(logging.FieldSession, opts.Code)),
		metrics: opts.Metrics,
		now:     opts.Now,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.touch()

	go s.loop()
	return s
}

// Inbox exposes the actor's mailbox to the hub and transport layers.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) Code() string { return s.code }

// Done is closed once the session has stopped and released its subscribers.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close stops the session without waiting for queued messages.
func (s *Session) Close() { s.cancel() }

func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) NumClients() int { return int(s.numClients.Load()) }

// Send delivers m unless the session has stopped or ctx ends first. A stopped
// session never accepts a message, even with room left in its inbox.
func (s *Session) Send(ctx context.Context, m Msg) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.inbox <- m:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs one gesture and waits for its result.
func (s *Session) Do(ctx context.Context, clientID string, g Gesture) (Result, error) {
	reply := make(chan Result, 1)
	if err := s.Send(ctx, FromClient{ClientID: clientID, Gesture: g, Reply: reply}); err != nil {
		return Result{}, err
	}
	select {
	case res := <-reply:
		return res, nil
	case <-s.done:
		return Result{}, ErrClosed
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (s *Session) Status(ctx context.Context) (Status, error) {
	reply := make(chan Status, 1)
	if err := s.Send(ctx, GetState{Reply: reply}); err != nil {
		return Status{}, err
	}
	select {
	case st := <-reply:
		return st, nil
	case <-s.done:
		return Status{}, ErrClosed
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}

func (s *Session) Candidates(ctx context.Context, slotID engine.SlotID) ([]engine.Player, error) {
	reply := make(chan CandidatesResult, 1)
	if err := s.Send(ctx, Candidates{SlotID: slotID, Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case res := <-reply:
		return res.Players, res.Err
	case <-s.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Session) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.join(msg)

			case Leave:
				if ch, ok := s.clients[msg.ClientID]; ok {
					close(ch)
					delete(s.clients, msg.ClientID)
					s.numClients.Store(int32(len(s.clients)))
					s.metrics.ClientLeft()
				}

			case FromClient:
				s.touch()
				res := s.handle(msg.ClientID, msg.Gesture)
				if msg.Reply != nil {
					msg.Reply <- res
				}

			case GetState:
				msg.Reply <- Status{
					Code:       s.code,
					Version:    s.version,
					NumClients: len(s.clients),
					State:      s.state.Clone(),
					View:       s.view(),
				}

			case Candidates:
				players, err := engine.CandidatesForSlot(s.state, msg.SlotID)
				msg.Reply <- CandidatesResult{Players: players, Err: err}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) join(msg Join) {
	if old, ok := s.clients[msg.ClientID]; ok {
		close(old)
		s.metrics.ClientLeft()
	}
	s.touch()

	// Register client and send the current snapshot immediately.
	s.clients[msg.ClientID] = msg.Outbox
	s.numClients.Store(int32(len(s.clients)))
	s.metrics.ClientJoined()
	s.sendTo(msg.ClientID, Snapshot{Version: s.version, View: s.view()})
	s.log.Debug("client joined", zap.String(logging.FieldClient, msg.ClientID), zap.Int(logging.FieldClients, len(s.clients)))
}

func (s *Session) handle(clientID string, g Gesture) Result {
	switch g.Type {
	case GestureSetSearchQuery:
		s.query = g.Query
		return s.accept(g, nil)

	case GestureBeginDrag:
		if err := s.drag.Begin(s.state, g.SourceID); err != nil {
			return s.reject(clientID, g, err, true)
		}
		return s.accept(g, nil)

	case GestureCancelDrag:
		if _, active := s.drag.Source(); !active {
			return s.unchanged(g)
		}
		s.drag.Cancel()
		return s.accept(g, nil)

	case GestureDrop:
		_, wasActive := s.drag.Source()
		cmd, err := s.drag.Resolve(s.state, g.TargetID)
		if err != nil {
			if !wasActive {
				return s.reject(clientID, g, err, false)
			}
			return s.refuseDrop(clientID, g, err)
		}
		return s.apply(clientID, g, cmd)

	default:
		cmd, err := g.Command()
		if err != nil {
			return s.reject(clientID, g, err, true)
		}
		return s.apply(clientID, g, cmd)
	}
}

func (s *Session) apply(clientID string, g Gesture, cmd engine.Command) Result {
	before := s.state
	events, next, err := engine.Apply(s.state, cmd)
	if err != nil {
		if g.Type == GestureDrop {
			return s.refuseDrop(clientID, g, err)
		}
		return s.reject(clientID, g, err, true)
	}
	if len(events) == 0 {
		if g.Type == GestureDrop {
			// Dropped back onto its own slot: only the drag ended.
			return s.accept(g, nil)
		}
		return s.unchanged(g)
	}

	s.state = next
	s.checkInvariant()
	n := present.Success(before, cmd, events)
	return s.accept(g, &n)
}

// accept bumps the version and fans the new snapshot out to every client.
func (s *Session) accept(g Gesture, n *present.Notification) Result {
	s.version++
	snap := Snapshot{Version: s.version, View: s.view(), Notification: n}
	s.broadcast(snap)

	code := present.Code(nil)
	s.metrics.Gesture(string(g.Type), code)
	s.log.Debug("gesture applied",
		zap.String(logging.FieldGesture, string(g.Type)),
		zap.Int(logging.FieldVersion, s.version),
	)
	return Result{Version: s.version, View: snap.View, Notification: n, Code: code}
}

func (s *Session) unchanged(g Gesture) Result {
	code := present.Code(nil)
	s.metrics.Gesture(string(g.Type), code)
	return Result{Version: s.version, View: s.view(), Code: code}
}

// reject reports err to the sender only; the roster is untouched.
func (s *Session) reject(clientID string, g Gesture, err error, notify bool) Result {
	code := present.Code(err)
	var n *present.Notification
	if notify {
		f := present.Failure(s.state, err)
		n = &f
	}

	s.metrics.Gesture(string(g.Type), code)
	s.log.Debug("gesture rejected",
		zap.String(logging.FieldGesture, string(g.Type)),
		zap.String(logging.FieldClient, clientID),
		zap.String(logging.FieldOutcome, code),
		zap.String(logging.FieldPlayer, string(g.PlayerID)),
		zap.String(logging.FieldSlot, string(g.SlotID)),
		zap.Error(err),
	)

	view := s.view()
	if n != nil {
		s.sendTo(clientID, Snapshot{Version: s.version, View: view, Notification: n, Rejected: true, Code: code})
	}
	return Result{Version: s.version, View: view, Notification: n, Code: code, Err: err}
}

// refuseDrop rejects a drop without a notification. A refused drop is only a
// visual cue, but the drag has ended, so everyone gets a fresh snapshot.
func (s *Session) refuseDrop(clientID string, g Gesture, err error) Result {
	res := s.reject(clientID, g, err, false)
	s.version++
	view := s.view()
	s.broadcast(Snapshot{Version: s.version, View: view})
	res.Version = s.version
	res.View = view
	return res
}

func (s *Session) view() present.View {
	v := present.BuildView(s.state, s.query, s.mode)
	v.Dragging, _ = s.drag.Source()
	return v
}

func (s *Session) checkInvariant() {
	if !s.log.Core().Enabled(zapcore.DebugLevel) {
		return
	}
	if err := engine.CheckInvariant(s.state); err != nil {
		s.log.Error("roster invariant violated", zap.Error(err))
	}
}

func (s *Session) touch() {
	s.lastActive.Store(s.now().UnixNano())
}

func (s *Session) shutdown() {
	for id, ch := range s.clients {
		close(ch) // Tell client no more snapshots
		delete(s.clients, id)
		s.metrics.ClientLeft()
	}
	s.numClients.Store(0)
	s.cancel()
	s.drainJoins()
	s.log.Debug("session stopped")
}

// drainJoins closes the outbox of every Join still queued so its subscriber
// sees the session end.
func (s *Session) drainJoins() {
	for {
		select {
		case m := <-s.inbox:
			if j, ok := m.(Join); ok {
				close(j.Outbox)
			}
		default:
			return
		}
	}
}

func (s *Session) sendTo(clientID string, snap Snapshot) {
	ch, ok := s.clients[clientID]
	if !ok {
		return
	}
	select {
	case ch <- snap:
	default:
		s.drop(clientID, ch)
	}
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.clients {
		select {
		case ch <- snap:
			// ok
		default:
			// Client is slow/full - drop them.
			s.drop(id, ch)
		}
	}
}

func (s *Session) drop(id string, ch chan Snapshot) {
	close(ch)
	delete(s.clients, id)
	s.numClients.Store(int32(len(s.clients)))
	s.metrics.ClientDropped()
	s.log.Info("slow client dropped", zap.String(logging.FieldClient, id))
}

// Package redis implements the messaging substrate over Redis pub/sub.
// Each peer owns a direct-message channel; a shared presence channel
// carries join, here and leave announcements so peers can build a roster.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/protocol"
	"github.com/frodon-community/peergames/internal/transport"
)

type Config struct {
	Address  string
	Password string
	DB       int
	// ChannelPrefix namespaces all channels so multiple deployments can
	// share one Redis
	ChannelPrefix string
}

func (c Config) prefix() string {
	if c.ChannelPrefix == "" {
		return "peergames"
	}
	return c.ChannelPrefix
}

func (c Config) dmChannel(id model.PeerID) string {
	return fmt.Sprintf("%s:dm:%s", c.prefix(), id)
}

func (c Config) presenceChannel() string {
	return c.prefix() + ":presence"
}

const (
	presenceJoin  = "join"
	presenceHere  = "here"
	presenceLeave = "leave"
)

type presenceEvent struct {
	Kind string         `json:"kind"`
	Peer model.PeerInfo `json:"peer"`
}

type envelope struct {
	From model.PeerID     `json:"from"`
	Msg  protocol.Message `json:"msg"`
}

// Messenger is a Redis-backed transport.Messenger
type Messenger struct {
	cfg    Config
	client *goredis.Client
	self   model.PeerInfo
	logger *slog.Logger

	mu      sync.RWMutex
	handler transport.Handler
	roster  map[model.PeerID]model.PeerInfo

	sub    *goredis.PubSub
	cancel context.CancelFunc
	done   chan struct{}
}

var _ transport.Messenger = (*Messenger)(nil)

func NewMessenger(cfg Config, self model.PeerInfo, logger *slog.Logger) *Messenger {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Messenger{
		cfg:    cfg,
		client: client,
		self:   self,
		logger: logger,
		roster: make(map[model.PeerID]model.PeerInfo),
		done:   make(chan struct{}),
	}
}

// Start subscribes to the peer's channels and announces presence. Events
// are delivered to the handler from a single goroutine, in subscription
// order.
func (m *Messenger) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.sub = m.client.Subscribe(ctx, m.cfg.dmChannel(m.self.PeerID), m.cfg.presenceChannel())
	if _, err := m.sub.Receive(ctx); err != nil {
		cancel()
		return fmt.Errorf("subscribing: %w", err)
	}

	if err := m.announce(ctx, presenceJoin); err != nil {
		cancel()
		return err
	}

	go m.receiveLoop(ctx)
	return nil
}

func (m *Messenger) Self() model.PeerInfo { return m.self }

func (m *Messenger) SetHandler(h transport.Handler) {
	m.mu.Lock()
	m.handler = h
	m.mu.Unlock()
}

func (m *Messenger) Send(ctx context.Context, to model.PeerID, msg protocol.Message) error {
	data, err := json.Marshal(envelope{From: m.self.PeerID, Msg: msg})
	if err != nil {
		return fmt.Errorf("encoding envelope: %w", err)
	}
	if err := m.client.Publish(ctx, m.cfg.dmChannel(to), data).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", to, err)
	}
	return nil
}

func (m *Messenger) Peers() []model.PeerInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.PeerInfo, 0, len(m.roster))
	for _, p := range m.roster {
		out = append(out, p)
	}
	return out
}

func (m *Messenger) Close() error {
	ctx := context.Background()
	if err := m.announce(ctx, presenceLeave); err != nil {
		m.logger.Warn("failed to announce leave", slog.String("error", err.Error()))
	}
	if m.cancel != nil {
		m.cancel()
	}
	if m.sub != nil {
		if err := m.sub.Close(); err != nil {
			return err
		}
		<-m.done
	}
	return m.client.Close()
}

func (m *Messenger) announce(ctx context.Context, kind string) error {
	data, err := json.Marshal(presenceEvent{Kind: kind, Peer: m.self})
	if err != nil {
		return fmt.Errorf("encoding presence: %w", err)
	}
	if err := m.client.Publish(ctx, m.cfg.presenceChannel(), data).Err(); err != nil {
		return fmt.Errorf("publishing presence: %w", err)
	}
	return nil
}

func (m *Messenger) receiveLoop(ctx context.Context) {
	defer close(m.done)
	ch := m.sub.Channel()
	for raw := range ch {
		switch raw.Channel {
		case m.cfg.presenceChannel():
			m.handlePresence(ctx, raw.Payload)
		default:
			m.handleEnvelope(raw.Payload)
		}
	}
}

func (m *Messenger) handlePresence(ctx context.Context, payload string) {
	var ev presenceEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		m.logger.Warn("dropping malformed presence event", slog.String("error", err.Error()))
		return
	}
	if ev.Peer.PeerID == m.self.PeerID {
		return
	}

	switch ev.Kind {
	case presenceJoin, presenceHere:
		m.mu.Lock()
		_, known := m.roster[ev.Peer.PeerID]
		m.roster[ev.Peer.PeerID] = ev.Peer
		h := m.handler
		m.mu.Unlock()

		// A join is answered with a here so the newcomer learns the
		// existing roster; here events are never answered
		if ev.Kind == presenceJoin {
			if err := m.announce(ctx, presenceHere); err != nil {
				m.logger.Warn("failed to answer join", slog.String("error", err.Error()))
			}
		}
		if !known && h != nil {
			h.HandlePeerAppear(ev.Peer)
		}
	case presenceLeave:
		m.mu.Lock()
		_, known := m.roster[ev.Peer.PeerID]
		delete(m.roster, ev.Peer.PeerID)
		h := m.handler
		m.mu.Unlock()
		if known && h != nil {
			h.HandlePeerLeave(ev.Peer.PeerID)
		}
	default:
		m.logger.Warn("unknown presence kind", slog.String("kind", ev.Kind))
	}
}

func (m *Messenger) handleEnvelope(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		m.logger.Warn("dropping malformed envelope", slog.String("error", err.Error()))
		return
	}
	m.mu.RLock()
	h := m.handler
	m.mu.RUnlock()
	if h != nil {
		h.HandleMessage(env.From, env.Msg)
	}
}

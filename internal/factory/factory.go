// Package factory wires the application together from a Config.
package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/frodon-community/peergames/internal/api/events"
	"github.com/frodon-community/peergames/internal/dependencies/clock"
	"github.com/frodon-community/peergames/internal/dependencies/random"
	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/registry"
	"github.com/frodon-community/peergames/internal/router"
	"github.com/frodon-community/peergames/internal/services/poker"
	"github.com/frodon-community/peergames/internal/services/presence"
	"github.com/frodon-community/peergames/internal/services/stats"
	"github.com/frodon-community/peergames/internal/services/tictactoe"
	"github.com/frodon-community/peergames/internal/storage"
	"github.com/frodon-community/peergames/internal/storage/memory"
	redisstorage "github.com/frodon-community/peergames/internal/storage/redis"
	"github.com/frodon-community/peergames/internal/transport"
	"github.com/frodon-community/peergames/internal/transport/inproc"
	redistransport "github.com/frodon-community/peergames/internal/transport/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Transport type constants
const (
	TransportTypeInproc = "inproc"
	TransportTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Substrate
	Messenger transport.Messenger

	// Services
	Registry         *registry.Registry
	StatsService     *stats.Service
	TicTacToeService *tictactoe.Service
	PokerService     *poker.Service
	Presence         *presence.Reconciler
	Router           *router.Router
	Hub              *events.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// Self is this peer's platform identity (required)
	Self model.PeerInfo
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisStorage holds Redis connection settings (required if StorageType is "redis")
	RedisStorage *redisstorage.Config
	// TransportType selects the messaging substrate ("inproc" or "redis")
	// If empty, defaults to "inproc"
	TransportType string
	// RedisTransport holds pub/sub settings (required if TransportType is "redis")
	RedisTransport *redistransport.Config
	// Network is the in-process substrate to join (optional)
	// If nil and TransportType is "inproc", a fresh single-peer network is created
	Network *inproc.Network
}

// New creates a new application with all dependencies wired. For a Redis
// transport the caller still has to call App.Messenger's Start.
func New(cfg Config) (*App, error) {
	if cfg.Self.PeerID == "" {
		return nil, errors.New("Self peer identity is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisStorage == nil {
			return nil, errors.New("RedisStorage required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisStorage)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	var messenger transport.Messenger
	transportType := cfg.TransportType
	if transportType == "" {
		transportType = TransportTypeInproc
	}

	switch transportType {
	case TransportTypeInproc:
		network := cfg.Network
		if network == nil {
			network = inproc.NewNetwork()
		}
		messenger = network.Join(cfg.Self)
	case TransportTypeRedis:
		if cfg.RedisTransport == nil {
			return nil, errors.New("RedisTransport required when TransportType is redis")
		}
		messenger = redistransport.NewMessenger(*cfg.RedisTransport, cfg.Self, logger)
	default:
		return nil, errors.New("invalid TransportType: must be 'inproc' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, messenger, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	messenger transport.Messenger,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *App {
	reg := registry.New()
	statsService := stats.New(store, clk, logger, messenger.Self().PeerID)
	tictactoeService := tictactoe.New(reg, messenger, statsService, clk, rnd, logger)
	pokerService := poker.New(reg, messenger, statsService, clk, rnd, logger)
	presenceReconciler := presence.New(clk, logger)
	hub := events.NewHub(logger)
	go hub.Run()

	messageRouter := router.New(reg, tictactoeService, pokerService, presenceReconciler, hub, logger)
	messenger.SetHandler(messageRouter)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		Messenger:        messenger,
		Registry:         reg,
		StatsService:     statsService,
		TicTacToeService: tictactoeService,
		PokerService:     pokerService,
		Presence:         presenceReconciler,
		Router:           messageRouter,
		Hub:              hub,
	}
}

// Close releases the app's substrate and event resources
func (a *App) Close() error {
	a.Hub.Close()
	return a.Messenger.Close()
}

// Interface checks
var _ router.Notifier = (*events.Hub)(nil)

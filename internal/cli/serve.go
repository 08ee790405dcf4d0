package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/frodon-community/peergames/internal/api"
	"github.com/frodon-community/peergames/internal/factory"
	"github.com/frodon-community/peergames/internal/model"
	redisstorage "github.com/frodon-community/peergames/internal/storage/redis"
	redistransport "github.com/frodon-community/peergames/internal/transport/redis"
)

func newServeCmd() *cobra.Command {
	var (
		peerID      string
		displayName string
		avatar      string
		port        int
		redisAddr   string
		storageType string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a peer",
		Long: `Run a peer: join the Redis pub/sub substrate under the given peer
identity and expose the local view surface over HTTP.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}))
			slog.SetDefault(logger)

			name := displayName
			if name == "" {
				name = peerID
			}

			factoryCfg := factory.Config{
				Self: model.PeerInfo{
					PeerID:      model.PeerID(peerID),
					DisplayName: name,
					Avatar:      avatar,
				},
				Logger:        logger,
				StorageType:   storageType,
				TransportType: factory.TransportTypeRedis,
				RedisTransport: &redistransport.Config{
					Address: redisAddr,
				},
			}
			if storageType == factory.StorageTypeRedis {
				redisCfg := redisstorage.DefaultConfig()
				if url := os.Getenv("REDIS_URL"); url != "" {
					redisCfg.URL = url
				}
				factoryCfg.RedisStorage = &redisCfg
			}

			app, err := factory.New(factoryCfg)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			messenger := app.Messenger.(*redistransport.Messenger)
			if err := messenger.Start(ctx); err != nil {
				return err
			}

			apiRouter := api.NewRouter(api.RouterConfig{
				Logger:       logger,
				Registry:     app.Registry,
				PokerService: app.PokerService,
				StatsService: app.StatsService,
				Presence:     app.Presence,
				Hub:          app.Hub,
			})

			serverConfig := api.DefaultServerConfig()
			serverConfig.Port = port
			server := api.NewServer(apiRouter, serverConfig, logger)

			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				logger.Info("shutdown signal received")
				cancel()
			}()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			logger.Info("peer started",
				slog.String("peer_id", peerID),
				slog.String("addr", server.Addr()))

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				return server.Shutdown(context.Background())
			}
		},
	}

	cmd.Flags().StringVar(&peerID, "peer-id", "", "Stable peer identity (required)")
	cmd.Flags().StringVar(&displayName, "name", "", "Display name (defaults to peer id)")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar URL")
	cmd.Flags().IntVar(&port, "port", 8080, "View surface listen port")
	cmd.Flags().StringVar(&redisAddr, "redis", "localhost:6379", "Redis address for the messaging substrate")
	cmd.Flags().StringVar(&storageType, "storage", factory.StorageTypeMemory, "Stats storage backend: memory, redis")
	_ = cmd.MarkFlagRequired("peer-id")

	return cmd
}

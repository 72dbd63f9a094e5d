package main

import (
	"chat-hub/contract"
	"chat-hub/infrastructure/api"
	"chat-hub/infrastructure/bus"
	"chat-hub/infrastructure/cache"
	"chat-hub/infrastructure/postgres"
	"chat-hub/internal"
	"chat-hub/moderation"
	"chat-hub/observability"
	"chat-hub/presence"
	"chat-hub/repositories"
	"chat-hub/router"
	"chat-hub/runtime"
	"chat-hub/runtime/workers"
	"chat-hub/sequencer"
	"chat-hub/services"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component, serves until a signal arrives, then shuts down in reverse order.
// Returning instead of exiting lets the deferred closes run.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.Load()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	censorChar, err := internal.CharacterRune(config.CensorCharacter)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage. Badger always holds the moderation blacklist.
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	var rooms repositories.IRoomRepository = repositories.NewRoomRepository(db, log)
	var messages repositories.IMessageRepository = repositories.NewMessageRepository(db, log)
	if config.StorageDriver == internal.StoragePostgres {
		store, err := postgres.NewStore(ctx, log, config.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		if err = store.Migrate(ctx); err != nil {
			return err
		}
		rooms, messages = store, store
	}
	log.Info("Storage ready", "driver", config.StorageDriver)

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() { _ = writer.Close() }()

	// 3. Moderation
	if err = moderation.SeedWords(db, config.CensoredWords); err != nil {
		return fmt.Errorf("seed censored words: %w", err)
	}
	words, err := moderation.LoadWords(db)
	if err != nil {
		return fmt.Errorf("load censored words: %w", err)
	}
	moderator, err := moderation.NewModerator(words, censorChar, log)
	if err != nil {
		return err
	}

	// 4. Observability & live hub
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := observability.NewMetrics(registry)
	monitoring := observability.NewMonitoringManager()
	hub := runtime.NewHub(log, metrics)

	// 5. Shared state: in memory for one instance, Redis once REDIS_URL is set
	var (
		dispatcher     contract.IDispatcher = hub
		presenceStore  contract.IPresenceStore
		sequencerStore contract.ISequencerStore
		dedupStore     contract.IDedupStore
		backplane      *cache.Backplane
		lease          *cache.PresenceStore
	)
	if config.RedisURL != "" {
		client, err := cache.NewClient(ctx, config.RedisURL)
		if err != nil {
			return err
		}
		defer func(client *redis.Client) { _ = client.Close() }(client)
		backplane = cache.NewBackplane(client, log)
		dispatcher = backplane
		instance := config.InstanceID
		if instance == "" {
			instance = uuid.NewString()
		}
		lease = cache.NewPresenceStore(client, instance, config.PresenceLeaseTTL)
		if err = lease.Renew(ctx); err != nil {
			return err
		}
		presenceStore = lease
		sequencerStore = cache.NewSequencerStore(client, config.StreamLockTTL, config.StreamLockWait, config.StreamClosedRetention)
		dedupStore = cache.NewDedupStore(client, config.DedupTTL)
		log.Info("Shared state on Redis", "instance", instance)
	} else {
		presenceStore = presence.NewMemoryStore()
		sequencerStore = sequencer.NewMemoryStore(config.StreamClosedRetention)
		dedupStore = router.NewMemoryDedup(config.DedupTTL)
		log.Info("Shared state in memory, single instance only")
	}

	// 6. Domain services
	tracker := presence.NewTracker(log, presenceStore, dispatcher, metrics)
	streams := sequencer.NewSequencer(log, sequencerStore, router.NewChunkEmitter(dispatcher),
		metrics, config.StreamBufferSize, config.StreamIdleTimeout)
	chats := services.NewChatService(log, rooms, tracker, dispatcher)
	messageService := services.NewMessageService(log, chats, messages, repositories.NewSearchIndex(writer, log),
		moderator, dispatcher, config.MaxContentLength)

	eventRouter, err := router.NewRouter(log, dedupStore, metrics,
		router.NewHandlers(log, streams, tracker, chats, dispatcher).Table())
	if err != nil {
		return err
	}

	// 7. Bus
	busClient := bus.NewClient(log, bus.Config{
		URL:        config.NatsURL,
		Stream:     config.BusStream,
		Consumer:   config.BusConsumer,
		MaxDeliver: config.BusMaxDeliver,
		AckWait:    config.BusAckWait,
		MaxAge:     config.BusMaxAge,
	})
	if err = busClient.Connect(ctx); err != nil {
		return err
	}
	defer busClient.Close()
	if err = busClient.EnsureConsumer(ctx); err != nil {
		return err
	}

	// 8. Supervision
	sampler, err := observability.NewProcessSampler()
	if err != nil {
		return err
	}
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewBusConsumer(log, busClient, eventRouter, config.BusNakDelay, config.BusWorkers),
		workers.NewStreamReaper(log, streams, config.StreamReapInterval),
		workers.NewHeartbeatWorker(log, sampler, monitoring, metrics, config.HeartbeatInterval),
	)
	if backplane != nil {
		sup.Add(
			workers.NewBackplaneListener(log, backplane, hub),
			workers.NewPresenceLease(log, lease, tracker, config.PresenceRenew),
		)
	}
	workersCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	supervised := make(chan struct{})
	go func() {
		defer close(supervised)
		sup.Run(workersCtx)
	}()

	// 9. HTTP & live channel
	server := api.NewServer(log, api.Config{
		BasePath:     config.BasePath,
		JWTSecret:    []byte(config.JWTSecret),
		WriteTimeout: config.WSWriteTimeout,
	}, chats, messageService, tracker, hub, monitoring, registry)

	errChan := make(chan error, 1)
	go func() {
		address := fmt.Sprintf("%s:%d", config.Host, config.Port)
		if err := server.Listen(address); err != nil {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 10. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err = <-errChan:
		log.Error("Server stopped unexpectedly", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.ShutdownTimeout)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Warn("HTTP shutdown incomplete", "error", shutdownErr)
	}
	stopWorkers()
	select {
	case <-supervised:
	case <-shutdownCtx.Done():
		log.Warn("Workers did not stop in time")
	}
	log.Info("Program stopped cleanly")
	return err
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/twentyone/pkg/api"
	authproviders "github.com/cbodonnell/twentyone/pkg/auth/providers"
	"github.com/cbodonnell/twentyone/pkg/config"
	"github.com/cbodonnell/twentyone/pkg/dice"
	"github.com/cbodonnell/twentyone/pkg/effects"
	"github.com/cbodonnell/twentyone/pkg/game"
	"github.com/cbodonnell/twentyone/pkg/log"
	"github.com/cbodonnell/twentyone/pkg/network"
	"github.com/cbodonnell/twentyone/pkg/notify"
	"github.com/cbodonnell/twentyone/pkg/queue"
	"github.com/cbodonnell/twentyone/pkg/repositories"
	"github.com/cbodonnell/twentyone/pkg/state"
	"github.com/cbodonnell/twentyone/pkg/version"
	"github.com/cbodonnell/twentyone/pkg/wallet"
	"github.com/cbodonnell/twentyone/pkg/workers"
)

func main() {
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting twentyone server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	repository, err := repositories.NewRepository(ctx, cfg.DatabaseURL, cfg.Migrations)
	if err != nil {
		panic(fmt.Sprintf("Failed to create repository: %v", err))
	}
	defer repository.Close(context.Background())

	authProvider, err := newAuthProvider(ctx, cfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to create auth provider: %v", err))
	}

	roller, err := newRoller(cfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to create dice roller: %v", err))
	}

	stateStore := state.NewStore(state.NewStoreOptions{
		Settings:  state.NewRepositorySettings(repository),
		Authority: cfg.AuthorityID,
		Limits:    cfg.Limits(),
	})
	go stateStore.Start(ctx)

	hub := network.NewHub(network.NewHubOptions{
		AuthProvider: authProvider,
		WSPort:       cfg.WSPort,
		WSServerTLS:  wsTLS(cfg),
	})

	notifiers := notify.Multi{hub, notify.NewLogNotifier()}
	if cfg.RedisAddr != "" {
		rdb, err := notify.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			panic(fmt.Sprintf("Failed to create redis client: %v", err))
		}
		defer rdb.Close()
		notifiers = append(notifiers, notify.NewRedisNotifier(rdb))
		log.Info("Publishing effects to redis at %s", cfg.RedisAddr)
	}

	effectQueueSize := 1024
	effectDispatcher := workers.NewEffectDispatcher(workers.NewEffectDispatcherOptions{
		EffectQueue: queue.NewInMemoryQueue[effects.Effect](effectQueueSize),
		Notifier:    notifiers,
	})
	go effectDispatcher.Start(ctx)

	ledger := wallet.NewRepositoryLedger(repository, wallet.NewProfiles())

	requestQueueSize := 1024
	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		State:       stateStore,
		Authority:   cfg.AuthorityID,
		Wallet:      ledger,
		Roller:      roller,
		Sink:        effectDispatcher,
		Requests:    queue.NewInMemoryQueue[*game.Request](requestQueueSize),
		Ante:        cfg.Ante,
		GameMode:    cfg.GameMode,
		RevealDelay: cfg.RevealDelay,
	})
	hub.Actions = gameManager

	stateBroadcastWorker := workers.NewStateBroadcastWorker(workers.NewStateBroadcastWorkerOptions{
		Publisher: hub,
		StateChan: stateStore.Subscribe(),
	})
	go stateBroadcastWorker.Start(ctx)

	auditWorker := workers.NewAuditWorker(workers.NewAuditWorkerOptions{
		StateManager: stateStore,
		Limits:       cfg.DiagnosticLimits(),
		Interval:     cfg.AuditInterval,
	})
	go auditWorker.Start(ctx)

	go hub.Start(ctx)

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:         cfg.APIPort,
		TLS:          apiTLS(cfg),
		AuthProvider: authProvider,
		Actions:      gameManager,
		Accounts:     ledger,
		Limits:       cfg.DiagnosticLimits(),
	})
	go apiServer.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiServer.Stop(shutdownCtx); err != nil {
			log.Error("Failed to stop API server: %v", err)
		}
	}()

	log.Info("Starting game manager")
	if err := gameManager.Start(ctx); err != nil {
		panic(fmt.Sprintf("Failed to start game manager: %v", err))
	}
	log.Info("Shutting down")
}

func newAuthProvider(ctx context.Context, cfg *config.Config) (authproviders.AuthProvider, error) {
	if cfg.FirebaseProjectID != "" {
		return authproviders.NewFirebaseAuthProvider(ctx, authproviders.NewFirebaseAuthProviderOptions{
			ProjectID:       cfg.FirebaseProjectID,
			APIKey:          cfg.FirebaseAPIKey,
			CredentialsFile: cfg.FirebaseCredentialsFile,
		})
	}
	tokens, err := authproviders.ParseStaticTokens(cfg.StaticTokens)
	if err != nil {
		return nil, err
	}
	log.Warn("Using %d static tokens for authentication", len(tokens))
	return authproviders.NewStaticAuthProvider(tokens), nil
}

func newRoller(cfg *config.Config) (dice.Roller, error) {
	if cfg.DiceSeed != 0 {
		log.Warn("Dice seeded with fixed value %d", cfg.DiceSeed)
		return dice.NewSeededRoller(cfg.DiceSeed), nil
	}
	return dice.NewRoller()
}

func wsTLS(cfg *config.Config) *network.TLSConfig {
	if cfg.TLSCert == "" {
		return nil
	}
	return &network.TLSConfig{CertFile: cfg.TLSCert, KeyFile: cfg.TLSKey}
}

func apiTLS(cfg *config.Config) *api.TLSConfig {
	if cfg.TLSCert == "" {
		return nil
	}
	return &api.TLSConfig{CertFile: cfg.TLSCert, KeyFile: cfg.TLSKey}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/khaldane/Scrabble-Game/config"
	"github.com/khaldane/Scrabble-Game/events"
	"github.com/khaldane/Scrabble-Game/lexicon"
	"github.com/khaldane/Scrabble-Game/logger"
	"github.com/khaldane/Scrabble-Game/monitor"
	"github.com/khaldane/Scrabble-Game/persistence"
	"github.com/khaldane/Scrabble-Game/room"
	"github.com/khaldane/Scrabble-Game/rpc"
	"github.com/khaldane/Scrabble-Game/server"
	"github.com/khaldane/Scrabble-Game/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize lexicon
	oracle, checker, closeLexicon, err := openLexicon(ctx, cfg.Lexicon, cfg.Database.Postgres)
	if err != nil {
		logger.Log.Fatalf("Failed to open lexicon: %v", err)
	}
	defer closeLexicon()

	publisher, err := openPublisher(cfg.Events)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer publisher.Close()

	mon := monitor.NewMonitor("tilegame")

	rooms := room.NewRoomManager(room.Options{
		MaxPlayers:     cfg.Game.MaxPlayers,
		Oracle:         lexicon.NewRetrying(oracle, cfg.Lexicon.Retry.Attempts, cfg.Lexicon.Retry.Delay),
		Publisher:      publisher,
		Monitor:        mon,
		LexiconTimeout: cfg.Lexicon.Timeout,
	}, cfg.Game.EndedRoomTTL)
	defer rooms.Close()

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg.Server.HTTPAddress, rooms, mon)
	gameServer.SetHeartbeat(cfg.Server.Heartbeat)

	rpcServer, err := rpc.NewServer(cfg.Server.RPCAddress, rpc.NewAdminService(rooms, checker))
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return gameServer.Start(gctx) })
	g.Go(func() error { return mon.StartServer(gctx, cfg.Server.MetricsAddress) })
	g.Go(rpcServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		rpcServer.Stop()
		return nil
	})

	// Start Server
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := g.Wait(); err != nil {
		logger.Log.Errorf("Server stopped: %v", err)
	}
	logger.Log.Info("Server exited.")
}

// openLexicon builds the configured dictionary backend. SQL backends are
// seeded when empty.
func openLexicon(ctx context.Context, lc config.LexiconConfig, pg config.PostgresConfig) (lexicon.Oracle, rpc.WordChecker, func(), error) {
	var (
		db  persistence.Database
		err error
	)
	switch lc.Backend {
	case "", "memory":
		set := lexicon.Default()
		if lc.WordsFile != "" {
			if set, err = lexicon.LoadFile(lc.WordsFile); err != nil {
				return nil, nil, nil, err
			}
		}
		logger.Log.Infof("内存词典加载 %d 个单词", set.Len())
		return set, rpc.OracleChecker(set), func() {}, nil
	case "sqlite":
		db, err = persistence.NewSQLite(ctx, lc.SQLitePath)
	case "postgres":
		db, err = persistence.NewPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	case "gorm":
		db, err = persistence.NewGormPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	default:
		return nil, nil, nil, fmt.Errorf("unknown lexicon backend %q", lc.Backend)
	}
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Log.Info("Database connection successful.")

	dict := services.NewDictionaryService(db)
	if _, err := dict.SeedIfEmpty(ctx, lc.SeedFile); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return db, dict, func() { db.Close() }, nil
}

func openPublisher(ec config.EventsConfig) (events.Publisher, error) {
	if ec.NATSURL == "" {
		return events.Nop{}, nil
	}
	return events.NewNATSPublisher(ec.NATSURL, ec.Subject)
}

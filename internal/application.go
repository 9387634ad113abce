package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/config"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/repository"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/service"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/session"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/terminal"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/transport"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/transport/memory"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/transport/redispubsub"
)

// RunApp - wires storage, transport, session and the terminal front end, and
// runs until the terminal exits or a signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	leaderboardRepo := repository.NewLeaderboardRepository(redisStorage.Connection, conf.LeaderboardKey)
	leaderboardService := service.NewLeaderboardService(logger, leaderboardRepo)

	var tr transport.Transport
	switch conf.Transport.Backend {
	case config.TransportRedis:
		tr = redispubsub.New(logger, redisStorage.Connection)
	default:
		tr = memory.NewBroker().NewChannel()
	}

	controller := session.NewController(logger, tr, leaderboardService)
	term := terminal.New(logger, controller, leaderboardService, os.Stdin, os.Stdout)

	termErrCh := make(chan error, 1)
	go func() {
		termErrCh <- term.Run(ctx)
	}()

	select {
	case err = <-termErrCh:
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	// the analog of a page unload: let the peer know before vanishing
	controller.Leave(context.Background())

	if err != nil {
		return fmt.Errorf("terminal error: %w", err)
	}

	return nil
}

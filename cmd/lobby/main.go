package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/agent-racer/multiplayer/internal/config"
	"github.com/agent-racer/multiplayer/internal/events"
	"github.com/agent-racer/multiplayer/internal/logging"
	"github.com/agent-racer/multiplayer/internal/menu"
	"github.com/agent-racer/multiplayer/internal/provider/null"
	"github.com/agent-racer/multiplayer/internal/session"
	"github.com/agent-racer/multiplayer/internal/settings"
	"github.com/agent-racer/multiplayer/internal/tui/app"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	logPath := flag.String("log", "lobby.log", "Log file; empty logs to stderr")
	name := flag.String("name", "", "Override the player name")
	match := flag.String("match", "", "Override the match type")
	seed := flag.Int("seed", -1, "Override the number of bot lobbies on the LAN")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *name != "" {
		cfg.Provider.OwnerName = *name
	}
	if *match != "" {
		cfg.Session.MatchType = *match
	}
	if *seed >= 0 {
		cfg.Provider.SeedLobbies = *seed
	}
	if cfg.Provider.Subsystem != session.LANSubsystemName {
		log.Fatalf("Unsupported provider subsystem %q", cfg.Provider.Subsystem)
	}

	logger, closeLog, err := buildLogger(*logPath, cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer closeLog()
	defer logger.Sync()

	panel, err := settings.NewPanel(settings.NewStore(cfg.Settings.Dir), settings.WithLogger(logger))
	if err != nil {
		logger.Fatal("failed to load settings", zap.Error(err))
	}

	owner := cfg.Provider.OwnerName
	if owner == "" {
		owner = null.DefaultOwnerName()
	}

	lan := null.NewLAN()
	provider := null.New(lan,
		null.WithOwner(owner),
		null.WithAddress(cfg.Provider.Address),
		null.WithLogger(logger.Named("provider")),
	)
	if n := cfg.Provider.SeedLobbies; n > 0 {
		bots := null.SeedLobbies(lan, n, cfg.Session.MatchType, cfg.Session.PublicConnections)
		logger.Info("seeded lobbies", zap.Int("count", len(bots)))
	}

	orch := session.New(provider,
		session.WithLogger(logger.Named("session")),
		session.WithLocalUser(session.UserID(owner)),
	)
	travel := app.NewTravel(logger.Named("travel"))
	ctrl := menu.NewController(orch, travel,
		menu.WithLogger(logger.Named("menu")),
		menu.WithMaxSearchResults(cfg.Session.MaxSearchResults),
	)
	ctrl.Setup(cfg.Session.PublicConnections, cfg.Session.MatchType, cfg.Session.LobbyPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var feed string
	if cfg.Events.Enabled {
		feed = cfg.Events.Addr()
		hub := events.NewHub(orch, logger.Named("events"))
		server := events.NewServer(hub, orch, logger.Named("events"))
		go func() {
			if err := server.ListenAndServe(ctx, feed); err != nil {
				logger.Error("event feed stopped", zap.Error(err))
			}
		}()
	}

	m := app.New(app.Deps{
		Orch:      orch,
		Menu:      ctrl,
		Panel:     panel,
		Pump:      provider,
		Travel:    travel,
		Subsystem: provider.SubsystemName(),
		Owner:     owner,
		Feed:      feed,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildLogger logs to path, or to stderr when path is empty.
func buildLogger(path string, cfg config.LogConfig) (*zap.Logger, func(), error) {
	if path == "" {
		l, err := logging.New(cfg.Level, cfg.Development)
		return l, func() {}, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	l, err := logging.NewWriter(f, cfg.Level)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return l, func() { f.Close() }, nil
}

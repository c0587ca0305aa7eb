package app

import (
	"sync"

	"go.uber.org/zap"
)

// Travel records where the menu sent the player. There is no game world to
// load, so travelling only updates the location shown in the status bar.
type Travel struct {
	logger *zap.Logger

	mu       sync.Mutex
	location string
	hosting  bool
}

// NewTravel creates a Travel that logs each move.
func NewTravel(logger *zap.Logger) *Travel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Travel{logger: logger}
}

func (t *Travel) ServerTravel(url string) {
	t.mu.Lock()
	t.location = "hosting " + url
	t.hosting = true
	t.mu.Unlock()
	t.logger.Info("server travel", zap.String("url", url))
}

func (t *Travel) ClientTravel(address string) {
	t.mu.Lock()
	t.location = "connected to " + address
	t.hosting = false
	t.mu.Unlock()
	t.logger.Info("client travel", zap.String("address", address))
}

// Location describes the current destination, or "" before any travel.
func (t *Travel) Location() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.location
}

// Hosting reports whether the last travel was a listen server.
func (t *Travel) Hosting() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hosting
}

// Reset returns to the menu.
func (t *Travel) Reset() {
	t.mu.Lock()
	t.location = ""
	t.hosting = false
	t.mu.Unlock()
}

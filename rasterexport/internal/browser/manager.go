// CLAUDE:SUMMARY Manages the headless Chrome used for captures: launch or remote connect, time-based recycling, close.
// Package browser owns the headless Chrome instance behind rasterized
// exports and renders note views as pages that can be captured.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Config configures the browser manager.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local headless Chrome.
	RemoteURL string

	// Bin is the Chrome binary. Empty = let the launcher find or fetch one.
	Bin string

	// RecycleInterval is the maximum lifetime of a Chrome process. Default: 1h.
	RecycleInterval time.Duration

	// ViewportWidth is the CSS width of the note view. Default: 1200.
	ViewportWidth int

	// DeviceScale is the device pixel ratio of captures. Default: 2.
	DeviceScale float64

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.RecycleInterval <= 0 {
		c.RecycleInterval = time.Hour
	}
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = 1200
	}
	if c.DeviceScale <= 0 {
		c.DeviceScale = 2
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Manager manages Chrome lifecycle.
type Manager struct {
	cfg     Config
	mu      sync.RWMutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	startAt time.Time
	closed  bool
}

// NewManager creates a browser Manager. Chrome is launched lazily by the
// first Browser call.
func NewManager(cfg Config) *Manager {
	cfg.defaults()
	return &Manager{cfg: cfg}
}

// Browser returns a connected browser, launching or recycling Chrome when
// needed.
func (m *Manager) Browser(ctx context.Context) (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("browser: manager is closed")
	}
	if m.browser != nil && time.Since(m.startAt) > m.cfg.RecycleInterval {
		m.cfg.Logger.Info("browser: recycle interval reached", "uptime", time.Since(m.startAt))
		m.cleanup()
	}
	if m.browser == nil {
		b, err := m.launch(ctx)
		if err != nil {
			return nil, err
		}
		m.browser = b
		m.startAt = time.Now()
	}
	return m.browser, nil
}

// Close shuts down Chrome.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cleanup()
	return nil
}

func (m *Manager) launch(ctx context.Context) (*rod.Browser, error) {
	log := m.cfg.Logger

	var wsURL string
	if m.cfg.RemoteURL != "" {
		wsURL = m.cfg.RemoteURL
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().Context(ctx).Headless(true)
		if m.cfg.Bin != "" {
			l = l.Bin(m.cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		log.Info("browser: launched local chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	return b, nil
}

func (m *Manager) cleanup() {
	if m.browser != nil {
		m.browser.Close()
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
}

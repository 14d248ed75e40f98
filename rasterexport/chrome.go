// CLAUDE:SUMMARY Public entry to the Chrome-backed surface: renders a note view and runs a rasterized export on it.
package rasterexport

import (
	"context"
	"html/template"
	"io"
	"log/slog"
	"time"

	"github.com/hazyhaar/notebook/markup"
	"github.com/hazyhaar/notebook/rasterexport/internal/browser"
)

// BrowserConfig configures the headless Chrome behind ExportView.
type BrowserConfig struct {
	RemoteURL       string        `yaml:"remote_url"`
	Bin             string        `yaml:"bin"`
	RecycleInterval time.Duration `yaml:"recycle_interval"`
	ViewportWidth   int           `yaml:"viewport_width"` // default 1200
	DeviceScale     float64       `yaml:"device_scale"`   // default 2
}

// NoteView is a note as the visual surface shows it.
type NoteView struct {
	Title      string
	Tags       []string
	Body       string // stored markup, sanitized before display
	Background string
	FontFamily string
}

// Chrome renders note views in a shared headless Chrome.
type Chrome struct {
	mgr *browser.Manager
}

// NewChrome returns a Chrome that launches the browser on first use.
func NewChrome(cfg BrowserConfig, logger *slog.Logger) *Chrome {
	return &Chrome{mgr: browser.NewManager(browser.Config{
		RemoteURL:       cfg.RemoteURL,
		Bin:             cfg.Bin,
		RecycleInterval: cfg.RecycleInterval,
		ViewportWidth:   cfg.ViewportWidth,
		DeviceScale:     cfg.DeviceScale,
		Logger:          logger,
	})}
}

// ExportView loads v in a tab and exports it through e.
func (c *Chrome) ExportView(ctx context.Context, e *Exporter, noteID string, v NoteView, w io.Writer) error {
	s, err := browser.Open(ctx, c.mgr, browser.View{
		Title:      v.Title,
		Tags:       v.Tags,
		Body:       template.HTML(markup.Sanitize(markup.DecodeEntities(v.Body))),
		Background: v.Background,
		FontFamily: v.FontFamily,
	})
	if err != nil {
		return &CaptureError{Op: "open", Err: err}
	}
	defer s.Close()
	return e.Export(ctx, noteID, s, w, v.Background)
}

// Close shuts the browser down.
func (c *Chrome) Close() error {
	return c.mgr.Close()
}

// CLAUDE:SUMMARY Rasterized export: exclude controls, capture the laid out note as a bitmap, restore, tile onto pages, assemble a PDF.
// Package rasterexport exports a note by capturing its on-screen rendering
// as a bitmap and tiling it across fixed-size pages. The output matches the
// screen exactly (background colors, fonts, cropping) but holds no
// selectable text.
//
// Capture is a side effect on a visual Surface: interactive controls are
// hidden first and always shown again afterwards, on every exit path.
package rasterexport

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"
	"time"
)

// ErrExportFailed is matched by every capture failure.
var ErrExportFailed = errors.New("export failed")

// ErrCaptureInProgress is returned when a note is already being captured.
var ErrCaptureInProgress = errors.New("rasterexport: capture already in progress for this note")

// CaptureError reports a failed step of the capture.
type CaptureError struct {
	Op  string // "open", "exclude", "capture", "restore", "tile" or "assemble"
	Err error
}

func (e *CaptureError) Error() string {
	return "export failed: " + e.Op + ": " + e.Err.Error()
}

// Unwrap exposes both ErrExportFailed and the cause to errors.Is/As.
func (e *CaptureError) Unwrap() []error { return []error{ErrExportFailed, e.Err} }

// Restore undoes an Exclude.
type Restore = func() error

// Surface is a laid out note that can be captured.
type Surface interface {
	// Exclude hides the elements matching selectors. On error nothing
	// stays hidden.
	Exclude(ctx context.Context, selectors []string) (Restore, error)
	// Capture returns the current rendering of the note content.
	Capture(ctx context.Context) (image.Image, error)
}

// Config configures the exporter.
type Config struct {
	PageSize   string   `yaml:"page_size"`    // default "A4"
	Margin     float64  `yaml:"margin"`       // points, default 10
	Background string   `yaml:"background"`   // page fill, default white
	Exclude    []string `yaml:"exclude"`      // default [".pdf-exclude"]
	MaxWidthPx int      `yaml:"max_width_px"` // wider captures are scaled down, default 2480

	Browser BrowserConfig `yaml:"browser"`

	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.PageSize == "" {
		c.PageSize = "A4"
	}
	if c.Margin <= 0 {
		c.Margin = 10
	}
	if c.Background == "" {
		c.Background = "#ffffff"
	}
	if len(c.Exclude) == 0 {
		c.Exclude = []string{".pdf-exclude"}
	}
	if c.MaxWidthPx <= 0 {
		c.MaxWidthPx = 2480
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Exporter runs rasterized exports. Captures of different notes may run
// concurrently; a note is captured by at most one export at a time.
type Exporter struct {
	cfg Config

	mu   sync.Mutex
	busy map[string]struct{}
}

// New returns an Exporter for cfg.
func New(cfg Config) *Exporter {
	cfg.defaults()
	return &Exporter{cfg: cfg, busy: make(map[string]struct{})}
}

// Config returns the effective configuration.
func (e *Exporter) Config() Config { return e.cfg }

func (e *Exporter) acquire(noteID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.busy[noteID]; ok {
		return false
	}
	e.busy[noteID] = struct{}{}
	return true
}

func (e *Exporter) release(noteID string) {
	e.mu.Lock()
	delete(e.busy, noteID)
	e.mu.Unlock()
}

// Export captures s and writes the paginated PDF to w. background
// overrides the configured page fill when not empty.
//
// There is no capture timeout: a surface that never answers blocks the
// export until ctx is done.
func (e *Exporter) Export(ctx context.Context, noteID string, s Surface, w io.Writer, background string) error {
	if !e.acquire(noteID) {
		return ErrCaptureInProgress
	}
	defer e.release(noteID)

	log := e.cfg.Logger.With("note", noteID)
	start := time.Now()

	img, err := e.capture(ctx, s)
	if err != nil {
		log.Warn("raster: capture failed", "error", err)
		return err
	}

	if background == "" {
		background = e.cfg.Background
	}
	layout, err := e.layout(background)
	if err != nil {
		return &CaptureError{Op: "tile", Err: err}
	}
	pages, err := Tile(img, layout)
	if err != nil {
		return &CaptureError{Op: "tile", Err: err}
	}
	if err := Assemble(pages, e.cfg.PageSize, w); err != nil {
		return &CaptureError{Op: "assemble", Err: err}
	}
	log.Info("raster: exported", "pages", len(pages), "duration", time.Since(start))
	return nil
}

// capture hides the excluded controls, captures, and restores. The restore
// runs even when Capture fails or panics.
func (e *Exporter) capture(ctx context.Context, s Surface) (img image.Image, err error) {
	restore, err := s.Exclude(ctx, e.cfg.Exclude)
	if err != nil {
		return nil, &CaptureError{Op: "exclude", Err: err}
	}
	defer func() {
		if restore == nil {
			return
		}
		if rerr := restore(); rerr != nil {
			e.cfg.Logger.Error("raster: restore failed", "error", rerr)
			if err == nil {
				img, err = nil, &CaptureError{Op: "restore", Err: rerr}
			}
		}
	}()

	img, err = s.Capture(ctx)
	if err != nil {
		return nil, &CaptureError{Op: "capture", Err: err}
	}
	if img == nil || img.Bounds().Empty() {
		return nil, &CaptureError{Op: "capture", Err: fmt.Errorf("empty bitmap")}
	}
	return img, nil
}

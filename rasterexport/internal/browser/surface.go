// CLAUDE:SUMMARY rod-backed capture surface: loads the note view, hides and restores excluded controls, screenshots the content.
package browser

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Surface is one note view loaded in its own tab.
type Surface struct {
	page *rod.Page
	mgr  *Manager
}

// Open loads v in a new tab.
func Open(ctx context.Context, mgr *Manager, v View) (*Surface, error) {
	b, err := mgr.Browser(ctx)
	if err != nil {
		return nil, err
	}
	page, err := b.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             mgr.cfg.ViewportWidth,
		Height:            800,
		DeviceScaleFactor: mgr.cfg.DeviceScale,
	}); err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: viewport: %w", err)
	}
	doc, err := Render(v)
	if err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: render view: %w", err)
	}
	if err := page.Context(ctx).SetDocumentContent(doc); err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: load view: %w", err)
	}
	if err := page.Context(ctx).WaitLoad(); err != nil {
		mgr.cfg.Logger.Warn("browser: wait load", "error", err)
	}
	return &Surface{page: page, mgr: mgr}, nil
}

// hideJS hides the matching elements and remembers their inline display.
const hideJS = `(sel) => {
	const els = document.querySelectorAll(sel);
	els.forEach(el => {
		el.dataset.pdfPrevDisplay = el.style.display;
		el.style.display = 'none';
	});
	return els.length;
}`

const restoreJS = `() => {
	const els = document.querySelectorAll('[data-pdf-prev-display]');
	els.forEach(el => {
		el.style.display = el.dataset.pdfPrevDisplay;
		delete el.dataset.pdfPrevDisplay;
	});
	return els.length;
}`

// Exclude hides every element matching selectors until the returned
// restore is called.
func (s *Surface) Exclude(ctx context.Context, selectors []string) (func() error, error) {
	restore := func() error {
		// Not bound to ctx: restoring must work after cancellation.
		if _, err := s.page.Eval(restoreJS); err != nil {
			return fmt.Errorf("browser: restore: %w", err)
		}
		return nil
	}
	for _, sel := range selectors {
		res, err := s.page.Context(ctx).Eval(hideJS, sel)
		if err != nil {
			_ = restore()
			return nil, fmt.Errorf("browser: exclude %q: %w", sel, err)
		}
		s.mgr.cfg.Logger.Debug("browser: excluded", "selector", sel, "count", res.Value.Int())
	}
	return restore, nil
}

// Capture screenshots the note content element.
func (s *Surface) Capture(ctx context.Context) (image.Image, error) {
	el, err := s.page.Context(ctx).Element("#" + ContentID)
	if err != nil {
		return nil, fmt.Errorf("browser: find content: %w", err)
	}
	data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("browser: screenshot: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("browser: decode screenshot: %w", err)
	}
	return img, nil
}

// Close closes the tab.
func (s *Surface) Close() error {
	return s.page.Close()
}

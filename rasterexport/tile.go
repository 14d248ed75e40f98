// CLAUDE:SUMMARY Bitmap tiling onto fixed-size pages (x/image/draw) and PDF assembly of the page images (pdfcpu import).
package rasterexport

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/draw"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Layout describes the pages a capture is tiled onto. Sizes are points.
type Layout struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
	Background color.Color
	MaxWidthPx int
}

func (e *Exporter) layout(background string) (Layout, error) {
	dim, ok := types.PaperSize[e.cfg.PageSize]
	if !ok {
		return Layout{}, fmt.Errorf("unknown page size %q", e.cfg.PageSize)
	}
	bg, err := ParseColor(background)
	if err != nil {
		return Layout{}, err
	}
	return Layout{
		PageWidth:  dim.Width,
		PageHeight: dim.Height,
		Margin:     e.cfg.Margin,
		Background: bg,
		MaxWidthPx: e.cfg.MaxWidthPx,
	}, nil
}

// Tile cuts img into page bitmaps. The capture fills the content width of
// each page; its height is split across as many pages as needed and the
// last page is padded with the background color.
func Tile(img image.Image, l Layout) ([]*image.RGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("rasterexport: empty bitmap")
	}
	contentW := l.PageWidth - 2*l.Margin
	contentH := l.PageHeight - 2*l.Margin
	if contentW <= 0 || contentH <= 0 {
		return nil, fmt.Errorf("rasterexport: margin %.1f leaves no content area", l.Margin)
	}
	if l.Background == nil {
		l.Background = color.White
	}

	src := img
	if l.MaxWidthPx > 0 && src.Bounds().Dx() > l.MaxWidthPx {
		src = scaleToWidth(src, l.MaxWidthPx)
	}
	b := src.Bounds()

	// Pixels per point, fixed by the capture width.
	k := float64(b.Dx()) / contentW
	pageW := int(math.Round(l.PageWidth * k))
	pageH := int(math.Round(l.PageHeight * k))
	margin := int(math.Round(l.Margin * k))
	tileH := pageH - 2*margin
	if tileH <= 0 {
		return nil, errors.New("rasterexport: page too small for capture")
	}

	var pages []*image.RGBA
	for y := b.Min.Y; y < b.Max.Y; y += tileH {
		page := image.NewRGBA(image.Rect(0, 0, pageW, pageH))
		draw.Draw(page, page.Bounds(), image.NewUniform(l.Background), image.Point{}, draw.Src)
		sr := image.Rect(b.Min.X, y, b.Max.X, min(y+tileH, b.Max.Y))
		draw.Copy(page, image.Pt(margin, margin), src, sr, draw.Over, nil)
		pages = append(pages, page)
	}
	return pages, nil
}

func scaleToWidth(src image.Image, width int) image.Image {
	b := src.Bounds()
	height := max(1, int(math.Round(float64(b.Dy())*float64(width)/float64(b.Dx()))))
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// Assemble writes one full-bleed PDF page per bitmap.
func Assemble(pages []*image.RGBA, pageSize string, w io.Writer) error {
	if len(pages) == 0 {
		return errors.New("rasterexport: no pages")
	}
	readers := make([]io.Reader, 0, len(pages))
	for i, p := range pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, p); err != nil {
			return fmt.Errorf("rasterexport: encode page %d: %w", i+1, err)
		}
		readers = append(readers, &buf)
	}
	imp, err := api.Import("formsize:"+pageSize+", position:full", types.POINTS)
	if err != nil {
		return fmt.Errorf("rasterexport: import options: %w", err)
	}
	if err := api.ImportImages(nil, w, readers, imp, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("rasterexport: import images: %w", err)
	}
	return nil
}

// ParseColor parses "#rgb" or "#rrggbb".
func ParseColor(s string) (color.Color, error) {
	h := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return nil, fmt.Errorf("rasterexport: invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("rasterexport: invalid color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

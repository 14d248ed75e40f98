package pdfexport

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func pageCount(t *testing.T, pdf []byte) int {
	t.Helper()
	n, err := api.PageCount(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	return n
}

func TestRender(t *testing.T) {
	body := Build(`<h1>Trip</h1><p>Plain <strong>bold</strong> <s>gone</s> café</p>` +
		`<ul><li>one</li><li>two</li></ul>` +
		`<img src="` + pngDataURI(t, 40, 20) + `" width="400">` +
		`<img src="https://example.com/x.png" alt="remote">`)

	var buf bytes.Buffer
	r := NewRenderer(Config{Background: "#fff8e1", FontFamily: "serif"})
	err := r.Render(&buf, Page{
		Header: Header{Title: "Holidays", Tags: []Chip{{Label: "travel"}, {Label: "family"}}},
		Body:   body,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
	if n := pageCount(t, buf.Bytes()); n != 1 {
		t.Errorf("pages = %d, want 1", n)
	}
}

func TestRenderPaginates(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("<p>A fairly long paragraph that keeps the renderer busy enough to overflow a page.</p>")
	}
	var buf bytes.Buffer
	if err := NewRenderer(Config{}).Render(&buf, Page{Body: Build(sb.String())}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if n := pageCount(t, buf.Bytes()); n < 2 {
		t.Errorf("pages = %d, want several", n)
	}
}

func TestRenderTallImageMovesToNextPage(t *testing.T) {
	uri := pngDataURI(t, 10, 30)
	body := Build(`<p>intro</p><img src="` + uri + `" width="250"><img src="` + uri + `" width="250">`)
	var buf bytes.Buffer
	if err := NewRenderer(Config{}).Render(&buf, Page{Body: body}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	// Each image is 750pt tall: neither fits below the header, nor next to the other.
	if n := pageCount(t, buf.Bytes()); n != 3 {
		t.Errorf("pages = %d, want 3", n)
	}
}

func TestDecodeDataURI(t *testing.T) {
	mime, data, ok := DecodeDataURI("data:image/png;base64,aGk=")
	if !ok || mime != "image/png" || string(data) != "hi" {
		t.Errorf("DecodeDataURI = %q %q %v", mime, data, ok)
	}
	for _, bad := range []string{"https://x/y.png", "data:image/png,raw", "data:image/png;base64,@@@"} {
		if _, _, ok := DecodeDataURI(bad); ok {
			t.Errorf("DecodeDataURI(%q) accepted", bad)
		}
	}
}

func TestRenderLogsUnencodableText(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := NewRenderer(Config{Logger: logger})

	var buf bytes.Buffer
	if err := r.Render(&buf, Page{Header: Header{Title: "café"}, Body: Build(`<p>日本 ok</p>`)}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(logs.String(), "outside cp1252") || !strings.Contains(logs.String(), "count=2") {
		t.Errorf("missing loss log:\n%s", logs.String())
	}

	logs.Reset()
	if err := r.Render(&buf, Page{Header: Header{Title: "café"}, Body: Build(`<p>déjà vu</p>`)}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(logs.String(), "outside cp1252") {
		t.Errorf("cp1252 text reported as lost:\n%s", logs.String())
	}
}

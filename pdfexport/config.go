// CLAUDE:SUMMARY Export configuration (page, margins, fonts, background) with defaults, font family and color mapping.
package pdfexport

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Config controls the page layout of structural exports.
type Config struct {
	PageSize     string  `yaml:"page_size"`      // gofpdf size name, default "A4"
	Margin       float64 `yaml:"margin"`         // points, default 30
	FontFamily   string  `yaml:"font_family"`    // CSS family, mapped by FontFamily
	Background   string  `yaml:"background"`     // "#rrggbb", default white
	FontSize     float64 `yaml:"font_size"`      // content font, default 12
	LineHeight   float64 `yaml:"line_height"`    // multiple of the font size, default 1.6
	TitleSize    float64 `yaml:"title_size"`     // header title, default 24
	ChipFontSize float64 `yaml:"chip_font_size"` // default 10

	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.PageSize == "" {
		c.PageSize = "A4"
	}
	if c.Margin <= 0 {
		c.Margin = 30
	}
	if c.Background == "" {
		c.Background = "#ffffff"
	}
	if c.FontSize <= 0 {
		c.FontSize = 12
	}
	if c.LineHeight <= 0 {
		c.LineHeight = 1.6
	}
	if c.TitleSize <= 0 {
		c.TitleSize = 24
	}
	if c.ChipFontSize <= 0 {
		c.ChipFontSize = 10
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// FontFamily maps a CSS font family (or stack) to a core PDF font:
// monospace stacks to Courier, serif stacks to Times, everything else to
// Helvetica.
func FontFamily(css string) string {
	css = strings.ToLower(css)
	fields := strings.Split(css, ",")
	generic := strings.Trim(strings.TrimSpace(fields[len(fields)-1]), `'"`)
	switch {
	case generic == "monospace" || strings.Contains(css, "courier"):
		return "Courier"
	case generic == "serif" || strings.Contains(css, "times"):
		return "Times"
	default:
		return "Helvetica"
	}
}

type rgb struct{ r, g, b int }

var (
	hexRe = regexp.MustCompile(`^#([0-9a-f]{3}|[0-9a-f]{6})$`)
	rgbRe = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})`)
)

var namedColors = map[string]string{
	"black": "#000000", "white": "#ffffff", "red": "#ff0000", "green": "#008000",
	"blue": "#0000ff", "gray": "#808080", "grey": "#808080", "orange": "#ffa500",
	"purple": "#800080", "yellow": "#ffff00",
}

// normalizeColor converts a CSS color to "#rrggbb".
func normalizeColor(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[s]; ok {
		return hex, true
	}
	if m := hexRe.FindStringSubmatch(s); m != nil {
		h := m[1]
		if len(h) == 3 {
			h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
		}
		return "#" + h, true
	}
	if m := rgbRe.FindStringSubmatch(s); m != nil {
		var sb strings.Builder
		sb.WriteByte('#')
		for _, v := range m[1:] {
			i, _ := strconv.Atoi(v)
			sb.WriteString(strconv.FormatInt(int64(min(i, 255))|0x100, 16)[1:])
		}
		return sb.String(), true
	}
	return "", false
}

// parseRGB returns the components of a color, or def when s is not a color.
func parseRGB(s string, def rgb) rgb {
	hex, ok := normalizeColor(s)
	if !ok {
		return def
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return def
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}

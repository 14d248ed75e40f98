// CLAUDE:SUMMARY Embeds uploaded images as base64 data URIs with a size bound and content sniffing.
package notes

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hazyhaar/notebook/guard"
)

// MaxImageBytes bounds an embedded image.
const MaxImageBytes = 10 << 20

// EncodeImage reads an image and returns it as a base64 data URI, the only
// image source both exporters can embed. An empty mime is sniffed.
func EncodeImage(r io.Reader, mime string) (string, error) {
	data, err := guard.LimitedReadAll(r, MaxImageBytes)
	if err != nil {
		return "", fmt.Errorf("notes: read image: %w", err)
	}
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("notes: not an image: %s", mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

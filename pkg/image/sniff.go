package image

import (
	"bytes"
	"context"
	"net/http"
	"regexp"
	"slices"

	"go.uber.org/zap"

	"github.com/singnet/ens-avatar-go/pkg/fetch"
)

const (
	// MaxImageSize is the largest declared content length accepted as an image.
	MaxImageSize int64 = 300 << 20
	// SniffLength is how many leading bytes are inspected for a signature.
	SniffLength int64 = 1024

	octetStream = "application/octet-stream"
)

// AllowedMimeTypes are the content types accepted by the probe. The generic
// octet-stream type is only a provisional match that triggers a body check.
var AllowedMimeTypes = []string{
	"image/apng",
	"image/avif",
	"image/gif",
	"image/jpeg",
	"image/png",
	"image/jxl",
	"image/webp",
	"image/svg+xml",
	"image/bmp",
	"image/x-icon",
	"image/tiff",
	octetStream,
}

var signatures = [][]byte{
	{0xff, 0xd8, 0xff},                               // JPEG
	{0x89, 0x50, 0x4e, 0x47},                         // PNG
	{0x47, 0x49, 0x46, 0x38},                         // GIF
	{0x49, 0x49, 0x2a, 0x00},                         // TIFF little endian
	{0x4d, 0x4d, 0x00, 0x2a},                         // TIFF big endian
	{0x42, 0x4d},                                     // BMP
	{0xff, 0x0a},                                     // JXL codestream
	{0x00, 0x00, 0x00, 0x0c, 0x4a, 0x58, 0x4c, 0x20}, // JXL container
}

var embeddedSVG = regexp.MustCompile(`<svg[\s\S]*?xmlns="http://www\.w3\.org/2000/svg"`)

// MatchSignature reports whether chunk starts with a known image signature or
// contains an SVG root element.
func MatchSignature(chunk []byte) bool {
	for _, sig := range signatures {
		if bytes.HasPrefix(chunk, sig) {
			return true
		}
	}
	if len(chunk) >= 12 && bytes.Equal(chunk[:4], []byte("RIFF")) && bytes.Equal(chunk[8:12], []byte("WEBP")) {
		return true
	}
	return embeddedSVG.Match(chunk)
}

// Prober is the subset of *fetch.Client the sniffer needs.
type Prober interface {
	Head(ctx context.Context, rawURL string) (*fetch.Response, error)
	GetRange(ctx context.Context, rawURL string, limit int64) (*fetch.Response, error)
}

// FallbackFunc attempts a passive image load when the probe failed without a
// response. It is only meaningful in browser-like hosts and is nil by default.
type FallbackFunc func(ctx context.Context, rawURL string) bool

// Sniffer probes URLs for image content.
type Sniffer struct {
	prober   Prober
	fallback FallbackFunc
}

// NewSniffer returns a Sniffer using p. fallback may be nil.
func NewSniffer(p Prober, fallback FallbackFunc) *Sniffer {
	return &Sniffer{prober: p, fallback: fallback}
}

// IsImage probes rawURL with a HEAD request and, for octet-stream responses,
// a ranged read of the first SniffLength bytes. Failures count as "not an image".
func (s *Sniffer) IsImage(ctx context.Context, rawURL string) bool {
	target := fetch.EncodeURL(rawURL)
	resp, err := s.prober.Head(ctx, target)
	if err != nil {
		zap.L().Warn("image probe failed", zap.String("url", target), zap.Error(err))
		if s.fallback != nil {
			return s.fallback(ctx, target)
		}
		return false
	}
	if resp.StatusCode != http.StatusOK {
		return false
	}
	if resp.ContentLength > MaxImageSize {
		return false
	}

	contentType := resp.ContentType()
	if !slices.Contains(AllowedMimeTypes, contentType) {
		return false
	}
	if contentType != octetStream {
		return true
	}
	return s.sniff(ctx, target)
}

func (s *Sniffer) sniff(ctx context.Context, target string) bool {
	resp, err := s.prober.GetRange(ctx, target, SniffLength)
	if err != nil {
		zap.L().Warn("image stream check failed", zap.String("url", target), zap.Error(err))
		return false
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return false
	}
	chunk := resp.Body
	if int64(len(chunk)) > SniffLength {
		chunk = chunk[:SniffLength]
	}
	return MatchSignature(chunk)
}

// IsImage probes rawURL with a default fetch client.
func IsImage(ctx context.Context, rawURL string) bool {
	return NewSniffer(fetch.New(), nil).IsImage(ctx, rawURL)
}

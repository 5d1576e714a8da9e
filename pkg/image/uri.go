package image

import (
	"net/url"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/singnet/ens-avatar-go/pkg/model"
	"github.com/singnet/ens-avatar-go/pkg/svg"
	"github.com/singnet/ens-avatar-go/pkg/uri"
)

var (
	imageDataURI     = regexp.MustCompile(`^data:image/([a-zA-Z0-9]+)(?:;base64)?,`)
	dataImageFormats = []string{"jpeg", "png", "gif", "bmp", "webp"}
)

// URIOptions controls ImageURI.
type URIOptions struct {
	Gateways  *uri.Gateways
	Sanitizer svg.Sanitizer
	// DenyList holds hostnames whose images are never returned.
	DenyList []string
}

// ImageURI derives a displayable URI from the image field of metadata.
// SVG content is sanitised and re-encoded as a base64 data URI, raster data
// URIs and http(s) URLs are returned as-is. An empty result with a nil error
// means the image exists but cannot be displayed.
func ImageURI(metadata model.Metadata, opts URIOptions) (string, error) {
	image, ok := metadata.Image()
	if !ok {
		return "", model.NewError(model.KindImageUnavailable, "Image is not available", "")
	}
	parsed := uri.Resolve(image, opts.Gateways).URI

	if svg.IsSVG(parsed) || svg.IsSVGDataURI(parsed) {
		raw, ok := svg.ToRawSVG(parsed)
		if !ok {
			return "", nil
		}
		if opts.Sanitizer == nil {
			return "", svg.ErrNoSanitizer
		}
		clean, err := opts.Sanitizer.Sanitize(raw)
		if err != nil {
			zap.L().Warn("svg sanitization failed", zap.Error(err))
			return "", nil
		}
		return svg.EncodeDataURI(clean), nil
	}

	if isImageDataURI(parsed) {
		return parsed, nil
	}
	if strings.HasPrefix(parsed, "http") {
		u, err := url.Parse(parsed)
		if err != nil {
			return "", nil
		}
		if denied(opts.DenyList, u.Hostname()) {
			zap.L().Debug("image host is deny-listed", zap.String("host", u.Hostname()))
			return "", nil
		}
		return parsed, nil
	}
	return "", nil
}

// denied reports whether host is in list. Hostnames are case-insensitive.
func denied(list []string, host string) bool {
	return slices.ContainsFunc(list, func(h string) bool { return strings.EqualFold(h, host) })
}

func isImageDataURI(s string) bool {
	m := imageDataURI.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	return slices.Contains(dataImageFormats, strings.ToLower(m[1]))
}

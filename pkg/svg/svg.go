package svg

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const (
	// DataURIPrefix is the common prefix of SVG data URIs.
	DataURIPrefix = "data:image/svg+xml"
	// Base64Prefix introduces a base64 encoded SVG data URI.
	Base64Prefix = DataURIPrefix + ";base64,"
	// EncodedPrefix introduces a percent-encoded SVG data URI.
	EncodedPrefix = DataURIPrefix + ","
)

var (
	// svgRegex mirrors the usual "is this SVG markup" heuristic: an optional
	// XML declaration, comments or doctype, then an <svg> root element that is closed.
	svgRegex      = regexp.MustCompile(`(?is)^\s*(?:<\?xml[^>]*>\s*)?(?:<!--.*?-->\s*)*(?:<!doctype svg[^>]*>\s*)?(?:<!--.*?-->\s*)*<svg[^>]*>.*</svg>\s*$`)
	selfClosedSVG = regexp.MustCompile(`(?is)^\s*(?:<\?xml[^>]*>\s*)?(?:<!--.*?-->\s*)*<svg[^>]*/>\s*$`)
)

// IsSVG reports whether s is raw SVG markup.
func IsSVG(s string) bool {
	return svgRegex.MatchString(s) || selfClosedSVG.MatchString(s)
}

// IsSVGDataURI reports whether s is an SVG data URI in any encoding.
func IsSVGDataURI(s string) bool {
	return strings.HasPrefix(s, DataURIPrefix)
}

// ToRawSVG decodes input into raw markup. Base64 and percent-encoded data URIs
// are decoded; anything else is assumed to be raw markup already and returned
// unchanged. A decoding failure yields ok == false rather than an error.
func ToRawSVG(input string) (string, bool) {
	switch {
	case strings.HasPrefix(input, Base64Prefix):
		data := strings.TrimPrefix(input, Base64Prefix)
		raw, err := decodeBase64(data)
		if err != nil {
			zap.L().Warn("svg: invalid base64 encoded SVG", zap.Error(err))
			return "", false
		}
		return string(raw), true
	case strings.HasPrefix(input, EncodedPrefix):
		data := strings.TrimPrefix(input, EncodedPrefix)
		raw, err := url.PathUnescape(data)
		if err != nil {
			zap.L().Warn("svg: invalid URL encoded SVG", zap.Error(err))
			return "", false
		}
		return raw, true
	default:
		return input, true
	}
}

// EncodeDataURI wraps markup into a base64 SVG data URI.
func EncodeDataURI(markup []byte) string {
	return Base64Prefix + base64.StdEncoding.EncodeToString(markup)
}

// decodeBase64 accepts padded and unpadded standard base64.
func decodeBase64(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if raw, err := base64.StdEncoding.DecodeString(data); err == nil {
		return raw, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(data, "="))
}

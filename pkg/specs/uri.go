package specs

import (
	"context"
	"encoding/json"
	"net/url"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/singnet/ens-avatar-go/pkg/model"
	"github.com/singnet/ens-avatar-go/pkg/uri"
)

// URI resolves a plain text record that is not a tokenized-asset reference.
type URI struct {
	fetcher Fetcher
	images  ImageChecker
	opts    Options
}

// NewURI builds the direct URI resolver.
func NewURI(f Fetcher, images ImageChecker, opts Options) *URI {
	return &URI{fetcher: f, images: images, opts: opts}
}

// GetMetadata resolves raw. On-chain payloads are returned as a document when
// they are a JSON object and as {"image": payload} otherwise. Deny-listed hosts
// yield {"image": nil}. URLs serving an image yield {"image": url}; anything
// else is fetched and decoded as the metadata document.
func (u *URI) GetMetadata(ctx context.Context, raw string) (model.Metadata, error) {
	resolved := uri.Resolve(raw, u.opts.Gateways)
	if resolved.IsOnChain {
		if resolved.IsEncoded && strings.HasPrefix(resolved.URI, jsonBase64Prefix) {
			return decodeOnChain(resolved)
		}
		return literal(resolved.URI), nil
	}

	if parsed, err := url.Parse(resolved.URI); err == nil && u.denied(parsed.Hostname()) {
		zap.L().Debug("uri host is deny-listed", zap.String("host", parsed.Hostname()))
		return model.Metadata{model.KeyImage: nil}, nil
	}

	if u.images.IsImage(ctx, resolved.URI) {
		return model.Metadata{model.KeyImage: resolved.URI}, nil
	}
	return fetchDocument(ctx, u.fetcher, resolved.URI, u.opts)
}

func (u *URI) denied(host string) bool {
	return slices.ContainsFunc(u.opts.DenyList, func(h string) bool { return strings.EqualFold(h, host) })
}

func literal(payload string) model.Metadata {
	trimmed := strings.TrimSpace(payload)
	if strings.HasPrefix(trimmed, "{") {
		var md model.Metadata
		if err := json.Unmarshal([]byte(trimmed), &md); err == nil && md != nil {
			return md
		}
	}
	return model.Metadata{model.KeyImage: payload}
}

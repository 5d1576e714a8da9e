package specs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum"

	"github.com/singnet/ens-avatar-go/pkg/model"
	"github.com/singnet/ens-avatar-go/pkg/uri"
)

const jsonBase64Prefix = "data:application/json;base64,"

// Fetcher retrieves documents over HTTP. *fetch.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, rawURL string, header http.Header) ([]byte, error)
}

// ImageChecker reports whether a URL serves an image. *image.Sniffer satisfies it.
type ImageChecker interface {
	IsImage(ctx context.Context, rawURL string) bool
}

// Options are shared by all resolvers.
type Options struct {
	Gateways *uri.Gateways
	// APIKeys maps marketplace names to API keys.
	APIKeys map[string]string
	// DenyList holds hostnames never fetched by the URI resolver.
	DenyList []string
}

// Request identifies the token whose metadata is wanted.
type Request struct {
	// Owner is the address the name resolves to; empty when unknown.
	Owner    string
	Contract string
	TokenID  string
}

// Spec resolves the metadata document of a token.
type Spec interface {
	GetMetadata(ctx context.Context, caller ethereum.ContractCaller, req Request) (model.Metadata, error)
}

// Registry maps namespace tags to resolvers.
type Registry map[string]Spec

// NewRegistry returns the registry of supported token standards.
func NewRegistry(f Fetcher, opts Options) Registry {
	return Registry{
		"erc721":  NewERC721(f, opts),
		"erc1155": NewERC1155(f, opts),
	}
}

// Lookup returns the resolver for namespace or an UnsupportedNamespace error.
func (r Registry) Lookup(namespace string) (Spec, error) {
	spec, ok := r[strings.ToLower(namespace)]
	if !ok {
		return nil, model.NewError(model.KindUnsupportedNamespace, "Unsupported namespace: "+namespace, namespace)
	}
	return spec, nil
}

// decodeOnChain turns an on-chain locator into a document.
func decodeOnChain(resolved uri.ResolvedURI) (model.Metadata, error) {
	payload := []byte(resolved.URI)
	if resolved.IsEncoded {
		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(resolved.URI, jsonBase64Prefix))
		if err != nil {
			return nil, fmt.Errorf("decode on-chain metadata: %w", err)
		}
		payload = raw
	}
	return decodeDocument(payload)
}

func decodeDocument(body []byte) (model.Metadata, error) {
	var md model.Metadata
	if err := json.Unmarshal(body, &md); err != nil {
		return nil, fmt.Errorf("decode metadata document: %w", err)
	}
	if md == nil {
		return nil, fmt.Errorf("decode metadata document: empty document")
	}
	return md, nil
}

// fetchDocument fetches locator and decodes the JSON body, attaching the API
// key of a matching marketplace.
func fetchDocument(ctx context.Context, f Fetcher, locator string, opts Options) (model.Metadata, error) {
	var header http.Header
	if m, ok := MarketplaceFor(locator); ok {
		if key := opts.APIKeys[m.Name]; key != "" && m.APIKeyHeader != "" {
			header = http.Header{}
			header.Set(m.APIKeyHeader, key)
		}
	}
	body, err := f.Get(ctx, locator, header)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata %s: %w", locator, err)
	}
	return decodeDocument(body)
}

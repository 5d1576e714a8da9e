package avatar

import (
	"context"
	"fmt"
	"strings"

	"github.com/singnet/ens-avatar-go/pkg/blockchain"
	"github.com/singnet/ens-avatar-go/pkg/config"
	"github.com/singnet/ens-avatar-go/pkg/fetch"
	"github.com/singnet/ens-avatar-go/pkg/image"
	"github.com/singnet/ens-avatar-go/pkg/specs"
	"github.com/singnet/ens-avatar-go/pkg/storage"
	"github.com/singnet/ens-avatar-go/pkg/svg"
	"github.com/singnet/ens-avatar-go/pkg/uri"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithFetchClient sets the HTTP client used for documents and image probes.
func WithFetchClient(c *fetch.Client) Option {
	return func(r *Resolver) { r.fetcher = c }
}

// WithImageChecker replaces the image probe.
func WithImageChecker(c specs.ImageChecker) Option {
	return func(r *Resolver) { r.images = c }
}

// WithImageFallback installs a passive image-load fallback for probes that
// fail without a response. Ignored when WithImageChecker is used.
func WithImageFallback(f image.FallbackFunc) Option {
	return func(r *Resolver) { r.fallback = f }
}

// WithSanitizer sets the SVG sanitizer.
func WithSanitizer(s svg.Sanitizer) Option {
	return func(r *Resolver) { r.sanitizer = s }
}

// WithGateways sets the IPFS and Arweave gateways.
func WithGateways(g uri.Gateways) Option {
	return func(r *Resolver) { r.opts.Gateways = &g }
}

// WithAPIKeys sets marketplace API keys by marketplace name.
func WithAPIKeys(keys map[string]string) Option {
	return func(r *Resolver) { r.opts.APIKeys = keys }
}

// WithDenyList sets hostnames whose content is never returned. Hosts are
// matched case-insensitively.
func WithDenyList(hosts ...string) Option {
	return func(r *Resolver) {
		r.opts.DenyList = make([]string, 0, len(hosts))
		for _, h := range hosts {
			r.opts.DenyList = append(r.opts.DenyList, strings.ToLower(strings.TrimSpace(h)))
		}
	}
}

// WithRegistry replaces the namespace registry of token resolvers.
func WithRegistry(reg specs.Registry) Option {
	return func(r *Resolver) { r.registry = reg }
}

// NewFromConfig validates cfg, dials cfg.RPCAddr and builds a Resolver whose
// EVM client serves as both naming client and chain reader. The default SVG
// policy is installed unless opts override it. Call Close when done.
func NewFromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.RPCAddr == "" {
		return nil, fmt.Errorf("RPC address is required")
	}
	cfg.Timeouts = cfg.Timeouts.WithDefaults()

	evm, err := blockchain.Dial(ctx, cfg.RPCAddr, registryAddress(cfg.Registry), cfg.Timeouts.Dial)
	if err != nil {
		return nil, err
	}

	fetchOpts := []fetch.Option{
		fetch.WithHTTPClient(cfg.HTTPClient),
		fetch.WithTransport(cfg.Transport),
		fetch.WithTimeout(cfg.Timeouts.HTTP),
		fetch.WithCache(cfg.CacheSize, cfg.CacheTTL()),
		fetch.WithMaxContentLength(cfg.MaxContentLength),
	}
	if cfg.IPFSAPI != "" {
		api, err := storage.NewIPFSClient(cfg.IPFSAPI, cfg.Timeouts.HTTP)
		if err != nil {
			evm.Close()
			return nil, err
		}
		fetchOpts = append(fetchOpts, fetch.WithIPFSReader(storage.NewIPFSReader(api, cfg.MaxContentLength)))
	}

	base := []Option{
		WithFetchClient(fetch.New(fetchOpts...)),
		WithSanitizer(svg.DefaultPolicy()),
		WithAPIKeys(cfg.APIKey),
		WithDenyList(cfg.URLDenyList...),
	}
	if cfg.IPFS != "" || cfg.Arweave != "" {
		base = append(base, WithGateways(uri.Gateways{IPFS: cfg.IPFS, Arweave: cfg.Arweave}))
	}

	caller := &timeoutCaller{caller: evm.Client, timeout: cfg.Timeouts.ChainRead}
	r := New(blockchain.NewENS(caller, evm.Registry()), caller, append(base, opts...)...)
	r.closer = evm.Close
	return r, nil
}

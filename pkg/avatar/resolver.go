package avatar

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/singnet/ens-avatar-go/pkg/blockchain"
	"github.com/singnet/ens-avatar-go/pkg/fetch"
	"github.com/singnet/ens-avatar-go/pkg/image"
	"github.com/singnet/ens-avatar-go/pkg/model"
	"github.com/singnet/ens-avatar-go/pkg/nft"
	"github.com/singnet/ens-avatar-go/pkg/specs"
	"github.com/singnet/ens-avatar-go/pkg/svg"
	"github.com/singnet/ens-avatar-go/pkg/uri"
)

// ReferenceURLBase prefixes host_meta.reference_url.
const ReferenceURLBase = "https://opensea.io/assets/"

// NameClient resolves names. *blockchain.EVMClient and *blockchain.ENS satisfy it.
type NameClient interface {
	ResolveName(ctx context.Context, name string) (string, error)
	Resolver(ctx context.Context, name string) (blockchain.TextReader, error)
}

// Resolver is safe for concurrent use once constructed.
type Resolver struct {
	names NameClient
	chain ethereum.ContractCaller

	fetcher   *fetch.Client
	images    specs.ImageChecker
	fallback  image.FallbackFunc
	sanitizer svg.Sanitizer
	opts      specs.Options

	uriSpec  *specs.URI
	registry specs.Registry
	closer   func()
}

// New builds a Resolver over the given naming client and chain reader.
func New(names NameClient, chain ethereum.ContractCaller, opts ...Option) *Resolver {
	r := &Resolver{names: names, chain: chain}
	for _, opt := range opts {
		opt(r)
	}
	if r.fetcher == nil {
		r.fetcher = fetch.New()
	}
	if r.images == nil {
		r.images = image.NewSniffer(r.fetcher, r.fallback)
	}
	r.uriSpec = specs.NewURI(r.fetcher, r.images, r.opts)
	if r.registry == nil {
		r.registry = specs.NewRegistry(r.fetcher, r.opts)
	}
	return r
}

// Close releases resources acquired by NewFromConfig.
func (r *Resolver) Close() {
	if r.closer != nil {
		r.closer()
	}
}

// GetMetadata returns the metadata document behind the key record of name.
// It returns nil metadata when the name has no resolver or the record is empty.
func (r *Resolver) GetMetadata(ctx context.Context, name string, key model.MediaKey) (model.Metadata, error) {
	if key == "" {
		key = model.MediaKeyAvatar
	}

	var (
		owner    string
		resolver blockchain.TextReader
	)
	var g errgroup.Group
	g.Go(func() error {
		addr, err := r.names.ResolveName(ctx, name)
		if err != nil {
			zap.L().Warn("address lookup failed", zap.String("name", name), zap.Error(err))
			return nil
		}
		owner = addr
		return nil
	})
	g.Go(func() error {
		res, err := r.names.Resolver(ctx, name)
		if err != nil {
			zap.L().Warn("resolver lookup failed", zap.String("name", name), zap.Error(err))
			return nil
		}
		resolver = res
		return nil
	})
	_ = g.Wait()

	if resolver == nil {
		return nil, nil
	}

	record, err := resolver.Text(ctx, key.String())
	if err != nil {
		return nil, fmt.Errorf("read %s record of %s: %w", key, name, err)
	}
	record = strings.TrimSpace(record)
	if record == "" {
		return nil, nil
	}
	zap.L().Debug("media record", zap.String("name", name), zap.String("key", key.String()), zap.String("record", record))

	if !nft.IsReference(record) {
		md, err := r.uriSpec.GetMetadata(ctx, record)
		if err != nil {
			return nil, err
		}
		return model.Metadata{model.KeyURI: name}.Merge(md), nil
	}

	ref, err := nft.Parse(record)
	if err != nil {
		return nil, err
	}
	spec, err := r.registry.Lookup(ref.Namespace)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("token reference",
		zap.Int64("chainID", ref.ChainID),
		zap.String("namespace", ref.Namespace),
		zap.String("contract", ref.ContractAddress),
		zap.String("tokenID", ref.TokenID))

	md, err := spec.GetMetadata(ctx, r.chain, specs.Request{
		Owner:    owner,
		Contract: ref.ContractAddress,
		TokenID:  ref.TokenID,
	})
	if err != nil {
		return nil, err
	}

	hostMeta := &model.HostMeta{
		ChainID:         ref.ChainID,
		Namespace:       ref.Namespace,
		ContractAddress: ref.ContractAddress,
		TokenID:         ref.TokenID,
		ReferenceURL:    ReferenceURLBase + ref.ContractAddress + "/" + ref.TokenID,
	}
	return model.Metadata{model.KeyURI: name, model.KeyHostMeta: hostMeta}.Merge(md), nil
}

// GetAvatar returns the displayable avatar URI of name, or "" when none.
func (r *Resolver) GetAvatar(ctx context.Context, name string) (string, error) {
	return r.GetMedia(ctx, name, model.MediaKeyAvatar)
}

// GetHeader returns the displayable header URI of name. key defaults to
// header and may be banner; anything else fails with UnsupportedMediaKey
// before any lookup is made.
func (r *Resolver) GetHeader(ctx context.Context, name string, key model.MediaKey) (string, error) {
	if key == "" {
		key = model.MediaKeyHeader
	}
	if !key.IsHeader() {
		return "", model.NewError(model.KindUnsupportedMediaKey, "Unsupported media key: "+key.String(), key.String())
	}
	return r.GetMedia(ctx, name, key)
}

// GetMedia returns the displayable URI behind the key record of name.
func (r *Resolver) GetMedia(ctx context.Context, name string, key model.MediaKey) (string, error) {
	switch key {
	case "":
		key = model.MediaKeyAvatar
	case model.MediaKeyAvatar, model.MediaKeyHeader, model.MediaKeyBanner:
	default:
		return "", model.NewError(model.KindUnsupportedMediaKey, "Unsupported media key: "+key.String(), key.String())
	}

	md, err := r.GetMetadata(ctx, name, key)
	if err != nil || md == nil {
		return "", err
	}
	if v, ok := md[model.KeyImage]; ok && v == nil {
		// deny-listed record
		return "", nil
	}

	imageURI, err := image.ImageURI(md, image.URIOptions{
		Gateways:  r.opts.Gateways,
		Sanitizer: r.sanitizer,
		DenyList:  r.opts.DenyList,
	})
	if err != nil || imageURI == "" {
		return "", err
	}

	if _, tokenized := md.HostMeta(); tokenized && strings.HasPrefix(imageURI, "http") {
		if !r.images.IsImage(ctx, imageURI) {
			zap.L().Debug("token image is not an image", zap.String("uri", imageURI))
			return "", nil
		}
	}
	return imageURI, nil
}

// Gateways returns the gateways the resolver rewrites content URIs with.
func (r *Resolver) Gateways() uri.Gateways {
	if r.opts.Gateways == nil {
		return uri.Gateways{IPFS: uri.DefaultIPFSGateway, Arweave: uri.DefaultArweaveGateway}
	}
	return *r.opts.Gateways
}

// registryAddress parses an optional registry override.
func registryAddress(s string) common.Address {
	if s == "" {
		return common.Address{}
	}
	return common.HexToAddress(s)
}

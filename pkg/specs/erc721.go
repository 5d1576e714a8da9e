package specs

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/singnet/ens-avatar-go/pkg/blockchain"
	"github.com/singnet/ens-avatar-go/pkg/model"
	"github.com/singnet/ens-avatar-go/pkg/uri"
)

// ERC721 resolves single-owner tokens. Ownership is an address comparison
// with ownerOf.
type ERC721 struct {
	fetcher Fetcher
	opts    Options
}

// NewERC721 builds the ERC-721 resolver.
func NewERC721(f Fetcher, opts Options) *ERC721 {
	return &ERC721{fetcher: f, opts: opts}
}

// GetMetadata implements Spec.
func (s *ERC721) GetMetadata(ctx context.Context, caller ethereum.ContractCaller, req Request) (model.Metadata, error) {
	tokenID, err := blockchain.ParseTokenID(req.TokenID)
	if err != nil {
		return nil, model.NewError(model.KindParsing, "tokenID is not a number", req.TokenID)
	}
	contract := common.HexToAddress(req.Contract)

	var (
		locator string
		owner   common.Address
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		locator, err = blockchain.TokenURI(gctx, caller, contract, tokenID)
		return err
	})
	if req.Owner != "" {
		g.Go(func() error {
			var err error
			owner, err = blockchain.OwnerOf(gctx, caller, contract, tokenID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	isOwner := req.Owner != "" && strings.EqualFold(owner.Hex(), req.Owner)
	zap.L().Debug("erc721 token read",
		zap.String("contract", contract.Hex()),
		zap.String("tokenURI", locator),
		zap.Bool("isOwner", isOwner))

	resolved := uri.Resolve(locator, s.opts.Gateways)
	if resolved.IsOnChain {
		md, err := decodeOnChain(resolved)
		if err != nil {
			return nil, err
		}
		md[model.KeyIsOwner] = isOwner
		return md, nil
	}
	md, err := fetchDocument(ctx, s.fetcher, substituteID(resolved.URI, req.TokenID), s.opts)
	if err != nil {
		return nil, err
	}
	md[model.KeyIsOwner] = isOwner
	return md, nil
}

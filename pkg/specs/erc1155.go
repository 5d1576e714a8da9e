package specs

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/singnet/ens-avatar-go/pkg/blockchain"
	"github.com/singnet/ens-avatar-go/pkg/model"
	"github.com/singnet/ens-avatar-go/pkg/uri"
)

// ERC1155 resolves multi-owner tokens. Ownership means a positive balanceOf.
type ERC1155 struct {
	fetcher Fetcher
	opts    Options
}

// NewERC1155 builds the ERC-1155 resolver.
func NewERC1155(f Fetcher, opts Options) *ERC1155 {
	return &ERC1155{fetcher: f, opts: opts}
}

// GetMetadata implements Spec.
func (s *ERC1155) GetMetadata(ctx context.Context, caller ethereum.ContractCaller, req Request) (model.Metadata, error) {
	tokenID, err := blockchain.ParseTokenID(req.TokenID)
	if err != nil {
		return nil, model.NewError(model.KindParsing, "tokenID is not a number", req.TokenID)
	}
	contract := common.HexToAddress(req.Contract)

	var (
		locator string
		balance *big.Int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		locator, err = blockchain.URI(gctx, caller, contract, tokenID)
		return err
	})
	if req.Owner != "" {
		g.Go(func() error {
			var err error
			balance, err = blockchain.BalanceOf(gctx, caller, contract, common.HexToAddress(req.Owner), tokenID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	isOwner := balance != nil && balance.Sign() > 0
	zap.L().Debug("erc1155 token read",
		zap.String("contract", contract.Hex()),
		zap.String("uri", locator),
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

	id := blockchain.PadTokenID(tokenID)
	if m, ok := MarketplaceFor(resolved.URI); ok && m.RawTokenID {
		id = req.TokenID
	}
	md, err := fetchDocument(ctx, s.fetcher, substituteID(resolved.URI, id), s.opts)
	if err != nil {
		return nil, err
	}
	md[model.KeyIsOwner] = isOwner
	return md, nil
}

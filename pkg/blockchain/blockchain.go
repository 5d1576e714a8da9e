package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// MainnetRegistry is the ENS registry address, identical on mainnet and the
// public testnets.
var MainnetRegistry = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

// EVMClient holds a connected ethclient.Client together with the ENS lookups
// bound to it. The client is both the naming client and the chain reader.
type EVMClient struct {
	*ethclient.Client
	*ENS

	chainID *big.Int
}

// Dial connects to endpoint, reads the chain id and binds ENS at registry.
// A zero registry selects MainnetRegistry.
func Dial(ctx context.Context, endpoint string, registry common.Address, timeout time.Duration) (*EVMClient, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	client, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		zap.L().Error("Failed to ethdial", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		zap.L().Error("Failed to get chain id", zap.Error(err))
		return nil, fmt.Errorf("chain id: %w", err)
	}

	if registry == (common.Address{}) {
		registry = MainnetRegistry
	}

	zap.L().Debug("connected to EVM endpoint",
		zap.String("endpoint", endpoint),
		zap.String("chainID", chainID.String()),
		zap.String("registry", registry.Hex()))

	return &EVMClient{
		Client:  client,
		ENS:     NewENS(client, registry),
		chainID: chainID,
	}, nil
}

// NetworkID returns the chain id read at dial time.
func (eth *EVMClient) NetworkID() *big.Int {
	return new(big.Int).Set(eth.chainID)
}

// Close releases the underlying RPC connection.
func (eth *EVMClient) Close() {
	if eth != nil && eth.Client != nil {
		eth.Client.Close()
	}
}

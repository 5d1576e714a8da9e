package avatar

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
)

// timeoutCaller bounds every eth_call by timeout.
type timeoutCaller struct {
	caller  ethereum.ContractCaller
	timeout time.Duration
}

func (c *timeoutCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.caller.CallContract(ctx, msg, block)
}

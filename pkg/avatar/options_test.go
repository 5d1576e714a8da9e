package avatar

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singnet/ens-avatar-go/pkg/config"
	"github.com/singnet/ens-avatar-go/pkg/uri"
)

func TestNewFromConfig_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewFromConfig(ctx, &config.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RPC address is required")

	_, err = NewFromConfig(ctx, &config.Config{RPCAddr: "http://127.0.0.1:1", IPFS: "not a url"})
	require.Error(t, err)

	_, err = NewFromConfig(ctx, &config.Config{
		RPCAddr:  "http://127.0.0.1:1",
		Timeouts: config.Timeouts{Dial: time.Second},
	})
	require.Error(t, err)
}

type deadlineCaller struct {
	deadline time.Time
	ok       bool
}

func (c *deadlineCaller) CallContract(ctx context.Context, _ ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	c.deadline, c.ok = ctx.Deadline()
	return nil, nil
}

func TestTimeoutCaller(t *testing.T) {
	inner := &deadlineCaller{}
	c := &timeoutCaller{caller: inner, timeout: time.Minute}
	_, err := c.CallContract(context.Background(), ethereum.CallMsg{}, nil)
	require.NoError(t, err)
	require.True(t, inner.ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), inner.deadline, 5*time.Second)

	inner = &deadlineCaller{}
	c = &timeoutCaller{caller: inner}
	_, err = c.CallContract(context.Background(), ethereum.CallMsg{}, nil)
	require.NoError(t, err)
	assert.False(t, inner.ok)
}

func TestGateways(t *testing.T) {
	r := New(nil, nil)
	assert.Equal(t, uri.DefaultIPFSGateway, r.Gateways().IPFS)

	r = New(nil, nil, WithGateways(uri.Gateways{IPFS: "https://gw.example.org"}))
	assert.Equal(t, "https://gw.example.org", r.Gateways().IPFS)
}

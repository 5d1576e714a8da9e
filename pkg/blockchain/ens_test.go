package blockchain_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/singnet/ens-avatar-go/internal/testutil/chainfake"
	"github.com/singnet/ens-avatar-go/pkg/blockchain"
)

var (
	registry     = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")
	resolverAddr = common.HexToAddress("0x4976fb03C32e5B8cfe2b6cCB31c09Ba78EBaBa41")
	owner        = common.HexToAddress("0xb8c2C29ee19D8307cb7255e1Cd9CbDE883A267d5")
	token        = common.HexToAddress("0xb47e3cd837dDF8e4c57F05d70Ab865de6e193BBB")
)

func TestNameHash(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "0x0000000000000000000000000000000000000000000000000000000000000000"},
		{"eth", "0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae"},
		{"foo.eth", "0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f"},
		{"FOO.eth", "0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f"},
		{"foo.eth.", "0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f"},
	}
	for _, tt := range tests {
		if got := blockchain.NameHash(tt.name).Hex(); got != tt.want {
			t.Fatalf("NameHash(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func newENS(t *testing.T) (*chainfake.Caller, *blockchain.ENS) {
	t.Helper()
	chain := chainfake.New()
	chain.RegisterName(registry, chainfake.Name{
		Name:     "nick.eth",
		Resolver: resolverAddr,
		Address:  owner,
		Texts:    map[string]string{"avatar": "ipfs://QmZHKZDavkvNfA9gSAg7HALv8jF7BJaKjUc9U2LSuvUySB"},
	})
	return chain, blockchain.NewENS(chain, registry)
}

func TestENS_ResolveName(t *testing.T) {
	_, ens := newENS(t)
	ctx := context.Background()

	got, err := ens.ResolveName(ctx, "nick.eth")
	if err != nil {
		t.Fatalf("ResolveName: %v", err)
	}
	if got != owner.Hex() {
		t.Fatalf("ResolveName = %s, want %s", got, owner.Hex())
	}

	got, err = ens.ResolveName(ctx, "unknown.eth")
	if err != nil || got != "" {
		t.Fatalf("expected empty result for unknown name, got %q, %v", got, err)
	}
}

func TestENS_ResolverText(t *testing.T) {
	_, ens := newENS(t)
	ctx := context.Background()

	res, err := ens.Resolver(ctx, "nick.eth")
	if err != nil {
		t.Fatalf("Resolver: %v", err)
	}
	if res == nil {
		t.Fatal("expected a resolver")
	}
	if addr := res.(*blockchain.Resolver).Address(); addr != resolverAddr {
		t.Fatalf("unexpected resolver address %s", addr.Hex())
	}

	avatar, err := res.Text(ctx, "avatar")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if avatar != "ipfs://QmZHKZDavkvNfA9gSAg7HALv8jF7BJaKjUc9U2LSuvUySB" {
		t.Fatalf("unexpected avatar record %q", avatar)
	}

	header, err := res.Text(ctx, "header")
	if err != nil || header != "" {
		t.Fatalf("expected empty header record, got %q, %v", header, err)
	}

	none, err := ens.Resolver(ctx, "unknown.eth")
	if err != nil || none != nil {
		t.Fatalf("expected nil resolver for unknown name, got %v, %v", none, err)
	}
}

func TestENS_RegistryFailure(t *testing.T) {
	chain := chainfake.New()
	ens := blockchain.NewENS(chain, registry)

	if _, err := ens.Resolver(context.Background(), "nick.eth"); !errors.Is(err, chainfake.ErrReverted) {
		t.Fatalf("expected reverted call, got %v", err)
	}
	if chain.Calls() != 1 {
		t.Fatalf("expected one call, got %d", chain.Calls())
	}
}

func TestTokenCalls(t *testing.T) {
	chain := chainfake.New()
	chain.Handle(token, blockchain.ERC721ABI, "tokenURI", func(args []any) ([]any, error) {
		id := args[0].(*big.Int)
		return []any{"https://meta.example/" + id.String()}, nil
	})
	chain.Handle(token, blockchain.ERC721ABI, "ownerOf", chainfake.Returning(owner))
	chain.Handle(token, blockchain.ERC1155ABI, "uri", chainfake.Returning("https://meta.example/{id}.json"))
	chain.Handle(token, blockchain.ERC1155ABI, "balanceOf", func(args []any) ([]any, error) {
		if args[0].(common.Address) != owner {
			return []any{big.NewInt(0)}, nil
		}
		return []any{big.NewInt(3)}, nil
	})
	ctx := context.Background()
	id := big.NewInt(2430)

	locator, err := blockchain.TokenURI(ctx, chain, token, id)
	if err != nil || locator != "https://meta.example/2430" {
		t.Fatalf("TokenURI = %q, %v", locator, err)
	}
	got, err := blockchain.OwnerOf(ctx, chain, token, id)
	if err != nil || got != owner {
		t.Fatalf("OwnerOf = %s, %v", got.Hex(), err)
	}
	locator, err = blockchain.URI(ctx, chain, token, id)
	if err != nil || locator != "https://meta.example/{id}.json" {
		t.Fatalf("URI = %q, %v", locator, err)
	}
	balance, err := blockchain.BalanceOf(ctx, chain, token, owner, id)
	if err != nil || balance.Int64() != 3 {
		t.Fatalf("BalanceOf(owner) = %v, %v", balance, err)
	}
	balance, err = blockchain.BalanceOf(ctx, chain, token, resolverAddr, id)
	if err != nil || balance.Sign() != 0 {
		t.Fatalf("BalanceOf(other) = %v, %v", balance, err)
	}
}

func TestCall_Errors(t *testing.T) {
	chain := chainfake.New()
	boom := errors.New("boom")
	chain.Handle(token, blockchain.ERC721ABI, "tokenURI", chainfake.Failing(boom))
	ctx := context.Background()

	if _, err := blockchain.TokenURI(ctx, chain, token, big.NewInt(1)); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped handler error, got %v", err)
	}
	if _, err := blockchain.Call(ctx, chain, token, blockchain.ERC721ABI, "missing"); err == nil {
		t.Fatal("expected pack error for unknown method")
	}
	if _, err := blockchain.OwnerOf(ctx, chain, token, big.NewInt(1)); !errors.Is(err, chainfake.ErrReverted) {
		t.Fatalf("expected revert for unhandled method, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := blockchain.TokenURI(cancelled, chain, token, big.NewInt(1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

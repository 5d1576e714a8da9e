package blockchain

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// TextReader reads text records of a single name.
type TextReader interface {
	Text(ctx context.Context, key string) (string, error)
}

// ENS performs name lookups against an ENS registry.
type ENS struct {
	caller   ethereum.ContractCaller
	registry common.Address
}

// NewENS binds the registry at address to caller.
func NewENS(caller ethereum.ContractCaller, registry common.Address) *ENS {
	return &ENS{caller: caller, registry: registry}
}

// Registry is the registry contract address.
func (e *ENS) Registry() common.Address {
	return e.registry
}

// NameHash computes the EIP-137 namehash of name. Labels are lower-cased;
// full UTS-46 normalisation is left to the caller.
func NameHash(name string) common.Hash {
	var node common.Hash
	name = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		label := crypto.Keccak256Hash([]byte(labels[i]))
		node = crypto.Keccak256Hash(node.Bytes(), label.Bytes())
	}
	return node
}

// resolverAddress returns the resolver contract of name, zero if unset.
func (e *ENS) resolverAddress(ctx context.Context, node common.Hash) (common.Address, error) {
	return callAddress(ctx, e.caller, e.registry, RegistryABI, "resolver", node)
}

// Resolver returns a TextReader for name, or nil when no resolver is set.
func (e *ENS) Resolver(ctx context.Context, name string) (TextReader, error) {
	node := NameHash(name)
	addr, err := e.resolverAddress(ctx, node)
	if err != nil {
		return nil, err
	}
	if addr == (common.Address{}) {
		zap.L().Debug("no resolver set", zap.String("name", name))
		return nil, nil
	}
	return &Resolver{caller: e.caller, address: addr, node: node}, nil
}

// ResolveName returns the address name points at, or "" when unset.
func (e *ENS) ResolveName(ctx context.Context, name string) (string, error) {
	r, err := e.Resolver(ctx, name)
	if err != nil || r == nil {
		return "", err
	}
	addr, err := r.(*Resolver).Addr(ctx)
	if err != nil {
		return "", err
	}
	if addr == (common.Address{}) {
		return "", nil
	}
	return addr.Hex(), nil
}

// Resolver is a bound public resolver for one name.
type Resolver struct {
	caller  ethereum.ContractCaller
	address common.Address
	node    common.Hash
}

// Address is the resolver contract address.
func (r *Resolver) Address() common.Address {
	return r.address
}

// Addr reads the ETH address record.
func (r *Resolver) Addr(ctx context.Context) (common.Address, error) {
	return callAddress(ctx, r.caller, r.address, ResolverABI, "addr", r.node)
}

// Text reads the text record key.
func (r *Resolver) Text(ctx context.Context, key string) (string, error) {
	return callString(ctx, r.caller, r.address, ResolverABI, "text", r.node, key)
}

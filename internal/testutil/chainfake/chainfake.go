// Package chainfake is an in-memory contract caller for tests. Contracts are
// described by their ABI and answered by handler functions.
package chainfake

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/singnet/ens-avatar-go/pkg/blockchain"
)

// ErrReverted is returned for calls nobody registered a handler for.
var ErrReverted = errors.New("execution reverted")

// Handler receives the unpacked call arguments and returns the outputs to pack.
type Handler func(args []any) ([]any, error)

type entry struct {
	method  abi.Method
	handler Handler
}

// contract maps 4-byte selectors to handlers so one address may answer
// methods from several ABIs.
type contract map[[4]byte]entry

// Caller is an in-memory ethereum.ContractCaller.
type Caller struct {
	mu        sync.RWMutex
	contracts map[common.Address]contract
	names     map[common.Hash]Name
	calls     atomic.Int64
}

// New returns an empty Caller.
func New() *Caller {
	return &Caller{contracts: map[common.Address]contract{}}
}

// Handle registers h for method on the contract at addr described by a.
// It panics when a has no such method.
func (c *Caller) Handle(addr common.Address, a abi.ABI, method string, h Handler) {
	m, ok := a.Methods[method]
	if !ok {
		panic(fmt.Sprintf("chainfake: ABI has no method %q", method))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ct, ok := c.contracts[addr]
	if !ok {
		ct = contract{}
		c.contracts[addr] = ct
	}
	ct[[4]byte(m.ID)] = entry{method: m, handler: h}
}

// Calls returns the number of eth_call requests served so far.
func (c *Caller) Calls() int {
	return int(c.calls.Load())
}

// CallContract implements ethereum.ContractCaller.
func (c *Caller) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	c.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if msg.To == nil || len(msg.Data) < 4 {
		return nil, ErrReverted
	}

	c.mu.RLock()
	e, ok := c.contracts[*msg.To][[4]byte(msg.Data[:4])]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrReverted
	}
	args, err := e.method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", e.method.Name, err)
	}
	outs, err := e.handler(args)
	if err != nil {
		return nil, err
	}
	return e.method.Outputs.Pack(outs...)
}

// Returning builds a Handler that always returns values.
func Returning(values ...any) Handler {
	return func([]any) ([]any, error) { return values, nil }
}

// Failing builds a Handler that always fails with err.
func Failing(err error) Handler {
	return func([]any) ([]any, error) { return nil, err }
}

// Name describes an ENS name served by RegisterName.
type Name struct {
	Name     string
	Resolver common.Address
	Address  common.Address
	Texts    map[string]string
}

// RegisterName wires registry and resolver handlers answering for n. Several
// names may share a registry and resolver.
func (c *Caller) RegisterName(registry common.Address, n Name) {
	node := blockchain.NameHash(n.Name)

	c.mu.Lock()
	if c.names == nil {
		c.names = map[common.Hash]Name{}
	}
	c.names[node] = n
	c.mu.Unlock()

	c.Handle(registry, blockchain.RegistryABI, "resolver", func(args []any) ([]any, error) {
		rec, ok := c.lookup(args[0])
		if !ok {
			return []any{common.Address{}}, nil
		}
		return []any{rec.Resolver}, nil
	})
	c.Handle(n.Resolver, blockchain.ResolverABI, "addr", func(args []any) ([]any, error) {
		rec, _ := c.lookup(args[0])
		return []any{rec.Address}, nil
	})
	c.Handle(n.Resolver, blockchain.ResolverABI, "text", func(args []any) ([]any, error) {
		rec, _ := c.lookup(args[0])
		key, _ := args[1].(string)
		return []any{rec.Texts[key]}, nil
	})
}

func (c *Caller) lookup(arg any) (Name, bool) {
	node, ok := arg.([32]byte)
	if !ok {
		return Name{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.names[common.Hash(node)]
	return n, ok
}

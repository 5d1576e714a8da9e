package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Call packs method with args, performs an eth_call against contract at the
// latest block and unpacks the outputs.
func Call(ctx context.Context, caller ethereum.ContractCaller, contract common.Address, contractABI abi.ABI, method string, args ...any) ([]any, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	out, err := caller.CallContract(ctx, ethereum.CallMsg{
		To:   &contract,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", method, contract.Hex(), err)
	}
	values, err := contractABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("unpack %s: empty result", method)
	}
	return values, nil
}

func callString(ctx context.Context, caller ethereum.ContractCaller, contract common.Address, contractABI abi.ABI, method string, args ...any) (string, error) {
	values, err := Call(ctx, caller, contract, contractABI, method, args...)
	if err != nil {
		return "", err
	}
	s, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("%s: unexpected result type %T", method, values[0])
	}
	return s, nil
}

func callAddress(ctx context.Context, caller ethereum.ContractCaller, contract common.Address, contractABI abi.ABI, method string, args ...any) (common.Address, error) {
	values, err := Call(ctx, caller, contract, contractABI, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s: unexpected result type %T", method, values[0])
	}
	return addr, nil
}

// TokenURI reads tokenURI(tokenID) from an ERC-721 contract.
func TokenURI(ctx context.Context, caller ethereum.ContractCaller, contract common.Address, tokenID *big.Int) (string, error) {
	return callString(ctx, caller, contract, ERC721ABI, "tokenURI", tokenID)
}

// OwnerOf reads ownerOf(tokenID) from an ERC-721 contract.
func OwnerOf(ctx context.Context, caller ethereum.ContractCaller, contract common.Address, tokenID *big.Int) (common.Address, error) {
	return callAddress(ctx, caller, contract, ERC721ABI, "ownerOf", tokenID)
}

// URI reads uri(tokenID) from an ERC-1155 contract.
func URI(ctx context.Context, caller ethereum.ContractCaller, contract common.Address, tokenID *big.Int) (string, error) {
	return callString(ctx, caller, contract, ERC1155ABI, "uri", tokenID)
}

// BalanceOf reads balanceOf(owner, tokenID) from an ERC-1155 contract.
func BalanceOf(ctx context.Context, caller ethereum.ContractCaller, contract, owner common.Address, tokenID *big.Int) (*big.Int, error) {
	values, err := Call(ctx, caller, contract, ERC1155ABI, "balanceOf", owner, tokenID)
	if err != nil {
		return nil, err
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOf: unexpected result type %T", values[0])
	}
	return balance, nil
}

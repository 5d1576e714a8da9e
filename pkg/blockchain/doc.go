// Package blockchain provides the EVM side of avatar resolution: an Ethereum
// client, the ENS naming lookups and the read-only ERC-721 / ERC-1155 calls
// used to locate token metadata.
//
// All reads go through ethereum.ContractCaller, so anything that can answer
// eth_call can stand in for a node.
//
// # Naming
//
//	evm, err := blockchain.Dial(ctx, "https://rpc.example.org", common.Address{}, 5*time.Second)
//	if err != nil {
//		return err
//	}
//	defer evm.Close()
//
//	addr, _ := evm.ResolveName(ctx, "nick.eth")
//	res, _ := evm.Resolver(ctx, "nick.eth")
//	if res != nil {
//		avatar, _ := res.Text(ctx, "avatar")
//	}
//
// Resolver returns a nil TextReader and a nil error when the name has no
// resolver set; ResolveName returns "" in that case.
//
// # Tokens
//
//	id, _ := blockchain.ParseTokenID("0x1f")
//	locator, err := blockchain.TokenURI(ctx, evm, contract, id)
//
// ERC-1155 locators carry an {id} placeholder that is replaced with
// PadTokenID(id).
package blockchain

// Package nft parses chain-agnostic tokenized-asset references in the
// CAIP-22/CAIP-29 form
//
//	eip155:<chainID>/<namespace>:<contractAddress>/<tokenID>
//
// and the equivalent DID form did:nft:eip155:<chainID>_<namespace>:<contract>_<tokenID>.
package nft

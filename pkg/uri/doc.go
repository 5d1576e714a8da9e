// Package uri classifies raw media and metadata locators and rewrites them
// into something that can either be fetched over HTTP or used directly.
//
// Recognised forms, in classification order:
//   - base64 data URIs (already resolved, on-chain)
//   - http(s) URLs, with the host of a default public gateway optionally
//     swapped for a caller supplied one
//   - IPFS/IPNS locators: ipfs://, ipns://, /ipfs/, /ipns/, ipfs/, ipns/ and
//     bare content identifiers with an optional trailing path
//   - Arweave locators: ar://
//
// Everything else is treated as a literal on-chain payload.
package uri

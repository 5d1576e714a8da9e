// Package fetch is the HTTP capability shared by metadata resolution and
// image probing. It wraps an *http.Client with an optional response cache, a
// content-length ceiling, per-host request headers and an optional IPFS reader
// that serves gateway paths straight from a Kubo node.
package fetch

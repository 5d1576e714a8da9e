// Package storage reads content-addressed documents straight from an IPFS
// node through the Kubo HTTP RPC API. It is an optional backend for
// fetch.Client: when configured, gateway URLs of the form
// https://<gateway>/ipfs/<cid>/... are served by `ipfs cat` against the node
// instead of the public gateway.
//
//	api, err := storage.NewIPFSClient("http://127.0.0.1:5001", 10*time.Second)
//	if err != nil {
//		return err
//	}
//	reader := storage.NewIPFSReader(api, 0)
//	client := fetch.New(fetch.WithIPFSReader(reader))
//
// Only /ipfs/ and /ipns/ paths are accepted. The root of an /ipfs/ path must
// be a valid CID.
package storage

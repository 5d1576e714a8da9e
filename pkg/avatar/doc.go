// Package avatar resolves the avatar and header images of ENS names.
//
// A Resolver reads the avatar, header or banner text record of a name and
// turns it into a displayable image URI. Records may hold a plain URI (https,
// ipfs, ipns, ar, data URIs, inline SVG) or a tokenized-asset reference such
// as eip155:1/erc721:0xb47e3cd837dDF8e4c57F05d70Ab865de6e193BBB/2430, in which
// case the token's metadata is read from chain and its image is used.
//
// # Quick start
//
//	cfg := &config.Config{RPCAddr: "https://eth.llamarpc.com", Cache: 300}
//	r, err := avatar.NewFromConfig(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
//	uri, err := r.GetAvatar(ctx, "nick.eth")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if uri == "" {
//		fmt.Println("no avatar")
//	}
//
// # Collaborators
//
// New takes the naming client and the chain reader explicitly, so tests and
// alternative backends can supply their own; *blockchain.EVMClient satisfies
// both. SVG images are sanitized through an injected svg.Sanitizer. A Resolver
// built with New and no WithSanitizer option fails with KindSanitizerRequired
// the first time it meets SVG content. NewFromConfig installs svg.DefaultPolicy.
//
// # Results
//
// Absent records, absent resolvers and images that cannot be displayed are not
// errors: GetMetadata returns nil metadata and the Get* media methods return
// an empty string. Malformed references, unsupported namespaces and media keys
// yield *model.Error values; transport and chain failures are wrapped and
// returned as-is.
package avatar

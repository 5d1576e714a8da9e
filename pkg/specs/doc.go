// Package specs holds the metadata resolvers. URI handles plain text records;
// ERC721 and ERC1155 handle tokenized-asset references and are selected by
// namespace through a Registry.
package specs

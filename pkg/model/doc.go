// Package model defines the data structures that flow through a media
// resolution: the text-record keys that can be queried, the metadata document
// assembled for a name, and the provenance information attached to documents
// that came from a tokenized asset. It also holds the closed set of error
// kinds produced by the resolver.
package model

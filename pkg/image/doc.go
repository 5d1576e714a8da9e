// Package image decides whether a URL points at an image and derives the
// displayable image URI of a metadata document.
package image

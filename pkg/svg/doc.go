// Package svg normalises the encodings SVG images show up in (base64 data
// URI, percent-encoded data URI, raw markup) and strips executable content
// before an image is handed to a renderer.
package svg

// Package views carries the HTML templates embedded into the binary,
// so rendering works regardless of the working directory.
package views

import "embed"

//go:embed *.html
var FS embed.FS

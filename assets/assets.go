// Package assets embeds the static web resources served by the API
// server. index.html is generated from the templates in this directory
// by cmd/minify.
package assets

import _ "embed"

//go:embed index.html
var Index []byte

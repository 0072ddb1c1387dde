// Package web embeds the HTML templates and static assets into the binary,
// so the server runs from any working directory.
package web

import "embed"

//go:embed templates static
var FS embed.FS

// Package web embeds the single-page browser client served by the API
// process at the HTTP root.
package web

import "embed"

//go:embed static
var Assets embed.FS

// Package web embeds the static browser client served at the site root.
package web

import "embed"

//go:embed static
var StaticFS embed.FS

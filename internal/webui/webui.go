// Package webui embeds the single-page game browser served at the root of the
// HTTP API.
package webui

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var staticFS embed.FS

// Index returns the browser page.
func Index() []byte {
	b, err := fs.ReadFile(staticFS, "static/index.html")
	if err != nil {
		// embedded at build time
		panic(err)
	}
	return b
}

// Package frontend embeds the web view served by the server package.
package frontend

import "embed"

// Files holds the page, script and stylesheet at the root of the FS.
//
//go:embed index.html app.js style.css
var Files embed.FS

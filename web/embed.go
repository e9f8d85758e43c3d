package webassets

import "embed"

// FS contains the badge generator page embedded at build time.
//
//go:embed templates/index.html
var FS embed.FS

package web

import "embed"

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

//go:embed guide.md
var guideMD []byte

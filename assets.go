// Package console provides embedded assets for production builds.
package console

import "embed"

// Embedded web assets. Templates and static files ship inside the binary so
// the console deploys as a single artifact.

//go:embed all:web/static
var StaticFS embed.FS

//go:embed all:web/templates
var TemplateFS embed.FS

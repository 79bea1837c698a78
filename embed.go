package marquee

import "embed"

//go:embed all:web/templates
var TemplateFS embed.FS

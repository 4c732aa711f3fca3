package main

import "embed"

// TemplateFS holds the page templates compiled into the binary.
//
//go:embed templates
var TemplateFS embed.FS

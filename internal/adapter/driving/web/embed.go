package web

import "embed"

// StaticFS holds the embedded static assets (stylesheet and acknowledgment script).
//
//go:embed static/*
var StaticFS embed.FS

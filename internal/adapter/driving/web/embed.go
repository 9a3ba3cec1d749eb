package web

import "embed"

// StaticFS holds the embedded widget stylesheet.
//
//go:embed static/*
var StaticFS embed.FS

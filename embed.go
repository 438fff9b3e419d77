package site

import "embed"

// EmbeddedAssets contains static assets shipped with the binary:
// engagement.js, placeholder.svg
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

// Package web holds the embedded dashboard assets served by the catalog
// server. The dashboard is a single page that mirrors the product API:
// list, create, edit-in-place and delete, with summary figures derived
// from the last fetched list.
package web

import "embed"

//go:embed static
var Assets embed.FS

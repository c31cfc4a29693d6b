// Package app carries build identity stamped in via -ldflags.
package app

var (
	Version     = "dev"
	BuildCommit = "unknown"
)

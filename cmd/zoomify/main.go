// Package main provides the zoomify CLI tool.
//
// Usage:
//
//	zoomify <command> [arguments]
//
// Commands:
//
//	migrations           List known migrations
//	migrate [name]       Migrate another zoom mod's config
//	get [key]            Print settings
//	set <key> <value>    Change a setting
//	preset <name>        Apply a preset
//	unbind-conflicting   Unbind the key conflicting with zoom
//	watch                Print settings on every change
package main

import "github.com/yacchi/zoomify/internal/cmd"

func main() {
	cmd.Execute()
}

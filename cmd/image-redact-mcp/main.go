// Package main provides the entry point for image-redact-mcp.
//
// With no subcommand the binary runs an MCP server over stdin/stdout that
// lets a client load screenshots, find the areas outlined in red and redact
// them. The redact subcommand does the same for a batch of files.
//
// Usage:
//
//	image-redact-mcp
//	image-redact-mcp redact [flags] FILE...
//
// See --help for all available options.
package main

// main is the entry point for image-redact-mcp.
func main() {
	Execute()
}

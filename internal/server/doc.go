// Package server implements the MCP (Model Context Protocol) server for image redaction.
//
// This package provides a JSON-RPC 2.0 server that drives a single redaction
// session: load a screenshot, find the areas the user outlined in red (or
// select them by hand), pick a redaction style and render the result.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// Vision detection calls are handled in the background so that a later
// request can supersede them. All other requests are answered in order.
//
// # Available Tools
//
// Image:
//   - redact_load_image: Load an image and reset the session
//
// Detection:
//   - redact_detect_red: Grid scan for red annotation frames
//   - redact_detect_vision: Ask the vision service for red frames
//
// Regions:
//   - redact_add_region: Add a rectangle, optionally in display coordinates
//   - redact_pointer: Feed down/move/up/leave events to the drag selector
//   - redact_undo: Remove the most recent region
//   - redact_clear: Remove all regions
//   - redact_list_regions: List queued regions
//
// Rendering:
//   - redact_set_params: Change style, block size, solid color or opacity
//   - redact_render: Render, optionally writing a PNG
//   - redact_preview: Current output with the drag outline, if any
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the server process.
// Pass reload to redact_load_image to re-read a file that changed on disk.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses with:
//   - code: -32602 for invalid arguments, -32000 for other tool failures
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv, err := server.NewFromConfig(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server

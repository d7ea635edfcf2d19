// Package server implements the MCP (Model Context Protocol) server for traffic
// signal inspection.
//
// The server exposes the signal pipeline and its individual stages as tools so
// that an MCP client can classify a frame and then look at why it got the
// answer it did.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logs go to the configured logger, never to stdout.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - frame_load: Frame metadata
//   - signal_detect: Full pipeline, optionally with an annotated frame
//   - signal_detect_circles: Raw circles with the post-filter verdict
//   - signal_color_ratios: Band ratios and state for a chosen circle
//   - signal_sample_color: Pixel color with HSV and matching bands
//   - signal_crop_roi: PNG of a circle's region
//   - signal_edge_detect: Canny edge map of the blurred frame
//
// # Error Codes
//
//   - -32601: unknown method
//   - -32602: malformed tools/call params
//   - -32000: tool failed (missing file, invalid frame, bad arguments)
//
// # Image Caching
//
// Frames are cached by path and reused across tool calls for the lifetime of
// the server process.
package server

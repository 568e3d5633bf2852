// Package server implements the MCP (Model Context Protocol) server that
// exposes keypoint detection as tools.
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
// # Available Tools
//
//   - image_load: Load an image and report its metadata
//   - image_dimensions: Get width and height
//   - image_preprocess: Show the intensity image the detector sees
//   - image_detect_keypoints: Detect scale- and rotation-invariant keypoints
//   - image_annotate_keypoints: Draw detected keypoints over the image
//
// Detection arguments mirror surf.Config and features.Options. Omitted or
// zero numeric arguments take the detector defaults.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the process, so a
// client can preview, detect and annotate the same file without decoding it
// three times.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - -32602: the tools/call parameters could not be decoded
//   - -32000: the tool failed; data holds the Go error string
//
// # Usage
//
//	srv := server.New(server.WithDebug(true))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server

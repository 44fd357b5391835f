// Package config loads the YAML configuration shared by the MCP server and
// the batch command.
//
// Values come from the built-in defaults, overlaid by the first config file
// found (see FindConfigFile), overlaid by IMAGE_REDACT_VISION_* environment
// variables. Validate reports problems as wrapped sentinel errors.
package config

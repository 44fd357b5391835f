package server

import (
	"strings"

	"github.com/ironsheep/image-redact-mcp/internal/imaging"
	"github.com/ironsheep/image-redact-mcp/internal/redact"
)

// Tool names.
const (
	toolLoadImage    = "redact_load_image"
	toolDetectRed    = "redact_detect_red"
	toolDetectVision = "redact_detect_vision"
	toolAddRegion    = "redact_add_region"
	toolPointer      = "redact_pointer"
	toolUndo         = "redact_undo"
	toolClear        = "redact_clear"
	toolListRegions  = "redact_list_regions"
	toolSetParams    = "redact_set_params"
	toolRender       = "redact_render"
	toolPreview      = "redact_preview"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func displayProps(props map[string]interface{}) map[string]interface{} {
	props["display_width"] = map[string]interface{}{
		"type":        "number",
		"description": "Width the image is displayed at. Coordinates are scaled from this size to image pixels. Give together with display_height",
	}
	props["display_height"] = map[string]interface{}{
		"type":        "number",
		"description": "Height the image is displayed at",
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image
		{
			Name:        toolLoadImage,
			Description: "Load an image file to redact. Clears all regions from any previously loaded image and returns the image dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file (PNG, JPEG, GIF, BMP, TIFF or WebP)",
					},
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Re-read the file even if it is cached",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},

		// Detection
		{
			Name:        toolDetectRed,
			Description: "Find rectangles the user outlined in red and queue them for redaction. Replaces earlier red-detection results; manual regions are kept.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"grid_size": map[string]interface{}{
						"type":        "integer",
						"description": "Detection cell size in pixels",
						"default":     5,
					},
					"threshold": map[string]interface{}{
						"type":        "object",
						"description": "Red predicate: a pixel is red when r > threshold.r, g < threshold.g and b < threshold.b",
						"properties": map[string]interface{}{
							"r": map[string]interface{}{"type": "integer", "default": int(imaging.DefaultThreshold.R)},
							"g": map[string]interface{}{"type": "integer", "default": int(imaging.DefaultThreshold.G)},
							"b": map[string]interface{}{"type": "integer", "default": int(imaging.DefaultThreshold.B)},
						},
					},
				},
			},
		},
		{
			Name:        toolDetectVision,
			Description: "Ask the configured vision model to find red annotation frames and queue them for redaction. Replaces earlier vision results. A newer call cancels one in flight.",
			InputSchema: noArgs(),
		},

		// Regions
		{
			Name:        toolAddRegion,
			Description: "Add a rectangle to redact. The rectangle is clipped to the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": displayProps(map[string]interface{}{
					"x": map[string]interface{}{"type": "number", "description": "Left edge"},
					"y": map[string]interface{}{"type": "number", "description": "Top edge"},
					"w": map[string]interface{}{"type": "number", "description": "Width"},
					"h": map[string]interface{}{"type": "number", "description": "Height"},
				}),
				"required": []string{"x", "y", "w", "h"},
			},
		},
		{
			Name:        toolPointer,
			Description: "Drive drag-to-select with pointer events. down starts a selection, move updates it, up or leave finishes it. Selections no larger than 5 pixels on either axis are discarded as clicks.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": displayProps(map[string]interface{}{
					"event": map[string]interface{}{
						"type": "string",
						"enum": []string{"down", "move", "up", "leave"},
					},
					"x": map[string]interface{}{"type": "number"},
					"y": map[string]interface{}{"type": "number"},
				}),
				"required": []string{"event", "x", "y"},
			},
		},
		{
			Name:        toolUndo,
			Description: "Remove the most recently added region.",
			InputSchema: noArgs(),
		},
		{
			Name:        toolClear,
			Description: "Remove all regions.",
			InputSchema: noArgs(),
		},
		{
			Name:        toolListRegions,
			Description: "List the queued regions in the order they were added.",
			InputSchema: noArgs(),
		},

		// Rendering
		{
			Name:        toolSetParams,
			Description: "Change the redaction style. Omitted fields keep their current value.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"style": map[string]interface{}{
						"type":    "string",
						"enum":    []string{string(redact.StylePixelate), string(redact.StyleBlur)},
						"default": string(redact.StylePixelate),
					},
					"block_size": map[string]interface{}{
						"type":        "integer",
						"description": "Mosaic block size in pixels; blur radius is half of it",
						"minimum":     redact.MinBlockSize,
						"maximum":     redact.MaxBlockSize,
						"default":     redact.DefaultBlockSize,
					},
					"solid_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color or swatch name for a solid fill instead of a mosaic; \"none\" turns it off. Swatches: " + strings.Join(imaging.SwatchNames(), ", "),
					},
					"opacity": map[string]interface{}{
						"type":        "number",
						"description": "Solid fill opacity from 0 to 1",
						"default":     1.0,
					},
				},
			},
		},
		{
			Name:        toolRender,
			Description: "Render the redacted image. Returns it as base64 PNG and/or writes it to output_path. A directory path gets a timestamped file name.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "File or directory to write the PNG to",
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the image as base64. Defaults to true when no output_path is given",
					},
				},
			},
		},
		{
			Name:        toolPreview,
			Description: "Return the current preview as base64 PNG, including the selection outline while a drag is in progress.",
			InputSchema: noArgs(),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}

package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema for the frame path shared by every tool.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the frame image (PNG, JPEG or GIF)",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Frame Information
		{
			Name:        "frame_load",
			Description: "Load a frame and return its dimensions, format and the row limit a signal lamp center must lie above (rows/3).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Full Pipeline
		{
			Name:        "signal_detect",
			Description: "Classify the traffic signal state of a frame. Returns STOP, GO, WAIT, a combination joined with ' & ' (e.g. 'STOP & WAIT'), UNKNOWN when a lamp was found but no colour exceeded 40% of its region, or NO SIGNAL when no lamp-sized circle was found in the upper third of the frame.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"annotate": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the blurred working frame as base64 PNG with the lamp, its region and the state drawn on it",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},

		// Individual Stages
		{
			Name:        "signal_detect_circles",
			Description: "Run only the circle detector on the blurred frame and list every raw circle in detection order, marking which ones pass the lamp filter (radius 20-100, center in the upper third) and why the others were rejected.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "signal_color_ratios",
			Description: "Compute red, green and yellow pixel ratios inside the square region around a circle you choose, and the state those ratios resolve to. Useful for checking a lamp the detector missed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Circle center X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Circle center Y coordinate (0-based)",
					},
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": "Circle radius in pixels",
					},
					"blur": map[string]interface{}{
						"type":        "boolean",
						"description": "Apply the pipeline's 9x9 Gaussian blur first",
						"default":     true,
					},
				},
				"required": []string{"path", "x", "y", "radius"},
			},
		},
		{
			Name:        "signal_sample_color",
			Description: "Get the color at a pixel in hex, RGB and 8-bit HSV (H 0-179), plus the signal colour bands it falls in.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
					"blur": map[string]interface{}{
						"type":        "boolean",
						"description": "Sample the blurred working frame the classifier sees",
						"default":     true,
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "signal_crop_roi",
			Description: "Crop the square region around a circle (clipped to the frame) and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Circle center X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Circle center Y coordinate (0-based)",
					},
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": "Circle radius in pixels",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor for output (e.g., 2.0 for 2x zoom)",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x", "y", "radius"},
			},
		},
		{
			Name:        "signal_edge_detect",
			Description: "Return the Canny edge map of the blurred frame as base64 PNG. With the default thresholds this is the edge set the circle detector votes from.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"threshold_low": map[string]interface{}{
						"type":        "number",
						"description": "Lower hysteresis threshold",
						"default":     50,
					},
					"threshold_high": map[string]interface{}{
						"type":        "number",
						"description": "Upper hysteresis threshold",
						"default":     100,
					},
				},
				"required": []string{"path"},
			},
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

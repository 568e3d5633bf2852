package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// preprocessProperties describes the arguments that shape the intensity
// image handed to the detector.
func preprocessProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"gray_mode": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"luma", "lightness"},
			"description": "Colour to intensity conversion: BT.601 luma or CIE L* lightness",
			"default":     "luma",
		},
		"equalize": map[string]interface{}{
			"type":        "boolean",
			"description": "Equalize the intensity histogram before detection",
			"default":     false,
		},
		"blur_sigma": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian pre-blur in pixels (0 = none)",
			"default":     0,
		},
		"region": map[string]interface{}{
			"type":        "object",
			"description": "Restrict processing to this rectangle (x2, y2 exclusive). Keypoints are still reported in full-image coordinates.",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
	}
}

// detectProperties extends preprocessProperties with the detector settings.
func detectProperties() map[string]interface{} {
	props := preprocessProperties()
	props["filter_sizes"] = map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "integer"},
		"description": "Odd box filter sizes (>= 9, ascending) defining the scale levels",
		"default":     []int{9, 15, 21, 27},
	}
	props["threshold"] = map[string]interface{}{
		"type":        "number",
		"description": "Hessian response threshold at filter size 9; larger filters scale it by (9/size)^4",
		"default":     5.0,
	}
	props["cross_scale_margin"] = map[string]interface{}{
		"type":        "number",
		"description": "A candidate is dropped when a finer level responds more than this many times stronger at the same pixel",
		"default":     3.0,
	}
	props["cluster_radius_factor"] = map[string]interface{}{
		"type":        "number",
		"description": "Nearby keypoints within factor * filter size of the weaker one are merged",
		"default":     1.0,
	}
	props["workers"] = map[string]interface{}{
		"type":        "integer",
		"description": "Concurrent workers (0 = one per CPU)",
		"default":     0,
	}
	props["include_descriptors"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Include the 64-element descriptor of every keypoint",
		"default":     false,
	}
	props["max_keypoints"] = map[string]interface{}{
		"type":        "integer",
		"description": "Keep only the N strongest keypoints (0 = all)",
		"default":     0,
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	annotateProps := detectProperties()
	delete(annotateProps, "include_descriptors")
	annotateProps["show_labels"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Number each keypoint on the overlay",
		"default":     true,
	}
	annotateProps["color"] = map[string]interface{}{
		"type":        "string",
		"description": "Marker color as hex (e.g. #FF0000 or #FF000080)",
		"default":     "#FF0000",
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and color depth. The decoded image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Keypoints
		{
			Name:        "image_preprocess",
			Description: "Return the grayscale intensity image the keypoint detector sees, after region crop, blur and equalization, as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": preprocessProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_detect_keypoints",
			Description: "Detect scale- and rotation-invariant keypoints (blob-like features) using box-filter Hessian responses. Returns position, scale, response and dominant orientation for each keypoint, optionally with a 64-element descriptor for matching.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_annotate_keypoints",
			Description: "Detect keypoints and draw them over the image: a circle sized by scale and a tick showing orientation. Returns base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": annotateProps,
				"required":   []string{"path"},
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

package server

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ironsheep/surf-tools-mcp/internal/features"
	"github.com/ironsheep/surf-tools-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_detect_keypoints").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if s.debug {
		log.Printf("tool %s finished in %s (err=%v)", params.Name, time.Since(start), err)
	}
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Keypoints
	case "image_preprocess":
		return s.handleImagePreprocess(args)
	case "image_detect_keypoints":
		return s.handleImageDetectKeypoints(args)
	case "image_annotate_keypoints":
		return s.handleImageAnnotateKeypoints(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Keypoint Handlers ===

// keypointArgs holds the arguments shared by the keypoint tools. Pointer
// fields distinguish "not given" from an explicit zero.
type keypointArgs struct {
	Path                string          `json:"path"`
	FilterSizes         []int           `json:"filter_sizes"`
	Threshold           *float64        `json:"threshold"`
	CrossScaleMargin    *float64        `json:"cross_scale_margin"`
	ClusterRadiusFactor *float64        `json:"cluster_radius_factor"`
	Workers             int             `json:"workers"`
	GrayMode            string          `json:"gray_mode"`
	Equalize            bool            `json:"equalize"`
	BlurSigma           float64         `json:"blur_sigma"`
	Region              *imaging.Region `json:"region"`
	IncludeDescriptors  bool            `json:"include_descriptors"`
	MaxKeypoints        int             `json:"max_keypoints"`
}

// options merges a over features.DefaultOptions.
func (a keypointArgs) options() (features.Options, error) {
	opts := features.DefaultOptions()
	if len(a.FilterSizes) > 0 {
		opts.Detector.FilterSizes = a.FilterSizes
	}
	if a.Threshold != nil {
		opts.Detector.ThresholdBase = *a.Threshold
	}
	if a.CrossScaleMargin != nil {
		opts.Detector.CrossScaleMargin = *a.CrossScaleMargin
	}
	if a.ClusterRadiusFactor != nil {
		opts.Detector.ClusterRadiusFactor = *a.ClusterRadiusFactor
	}
	opts.Detector.Workers = a.Workers

	mode, err := imaging.ParseGrayMode(a.GrayMode)
	if err != nil {
		return opts, err
	}
	opts.GrayMode = mode
	opts.Equalize = a.Equalize
	opts.BlurSigma = a.BlurSigma
	opts.Region = a.Region
	opts.IncludeDescriptors = a.IncludeDescriptors
	opts.MaxKeypoints = a.MaxKeypoints
	return opts, opts.Validate()
}

func (s *Server) handleImagePreprocess(args json.RawMessage) (interface{}, error) {
	var a keypointArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	rows, err := features.Preprocess(img, opts)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePreview(imaging.IntensityImage(rows))
}

func (s *Server) handleImageDetectKeypoints(args json.RawMessage) (interface{}, error) {
	var a keypointArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.detect(a)
}

func (s *Server) detect(a keypointArgs) (*features.Result, error) {
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := features.Extract(img, opts)
	if err != nil {
		return nil, err
	}
	if s.debug {
		log.Printf("detect %s: %d keypoints from %d candidates in %s",
			a.Path, result.Count, result.Stats.Candidates, time.Since(start))
	}
	return result, nil
}

type imageAnnotateKeypointsArgs struct {
	keypointArgs
	ShowLabels *bool  `json:"show_labels"`
	Color      string `json:"color"`
}

// annotateResult pairs the overlay with the keypoints it shows.
type annotateResult struct {
	*imaging.PreviewResult
	Count int `json:"count"`
}

func (s *Server) handleImageAnnotateKeypoints(args json.RawMessage) (interface{}, error) {
	var a imageAnnotateKeypointsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	showLabels := true
	if a.ShowLabels != nil {
		showLabels = *a.ShowLabels
	}
	if a.Color == "" {
		a.Color = "#FF0000"
	}

	result, err := s.detect(a.keypointArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	preview, err := imaging.Annotate(img, result.Markers(), showLabels, a.Color)
	if err != nil {
		return nil, err
	}
	return &annotateResult{PreviewResult: preview, Count: result.Count}, nil
}

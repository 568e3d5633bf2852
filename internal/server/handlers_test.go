package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/surf-tools-mcp/internal/features"
	"github.com/ironsheep/surf-tools-mcp/internal/imaging"
)

// createTestImageFile creates a solid test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writePNG(t, img)
}

// createBlobImageFile writes a 120x80 gray image with a small blob at
// (30, 40) and a larger one at (90, 40).
func createBlobImageFile(t *testing.T) string {
	t.Helper()

	blobs := []struct{ x, y, sigma float64 }{{30, 40, 2}, {90, 40, 2.5}}
	img := image.NewGray(image.Rect(0, 0, 120, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			v := 0.1
			for _, b := range blobs {
				dx, dy := float64(x)-b.x, float64(y)-b.y
				v += 0.8 * math.Exp(-(dx*dx+dy*dy)/(2*b.sigma*b.sigma))
			}
			img.SetGray(x, y, color.Gray{Y: uint8(math.Round(math.Min(1, v) * 255))})
		}
	}
	return writePNG(t, img)
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool runs a tools/call request through handleRequest.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	paramsJSON, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeToolResult unmarshals the text content of a successful tool call
// into v.
func decodeToolResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content should hold one item, got %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result: %v\n%s", err, text)
	}
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	var info imaging.ImageInfo
	decodeToolResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}), &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 200, 150, color.RGBA{0, 255, 0, 255})

	var dims imaging.DimensionsResult
	decodeToolResult(t, callTool(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}), &dims)

	if dims.Width != 200 || dims.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_DetectKeypoints(t *testing.T) {
	s := New()
	imgPath := createBlobImageFile(t)

	tests := []struct {
		name      string
		args      map[string]interface{}
		wantXY    [][2]int
		wantSizes []int
	}{
		{
			name:      "defaults",
			args:      map[string]interface{}{},
			wantXY:    [][2]int{{30, 40}, {90, 40}},
			wantSizes: []int{9, 15},
		},
		{
			name: "region",
			args: map[string]interface{}{
				"region": map[string]interface{}{"x1": 60, "y1": 0, "x2": 120, "y2": 80},
			},
			wantXY:    [][2]int{{90, 40}},
			wantSizes: []int{15},
		},
		{
			name:      "serial workers",
			args:      map[string]interface{}{"workers": 1},
			wantXY:    [][2]int{{30, 40}, {90, 40}},
			wantSizes: []int{9, 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.args["path"] = imgPath

			var res features.Result
			decodeToolResult(t, callTool(t, s, "image_detect_keypoints", tt.args), &res)

			gotXY := make([][2]int, len(res.Keypoints))
			gotSizes := make([]int, len(res.Keypoints))
			for i, kp := range res.Keypoints {
				gotXY[i] = [2]int{kp.X, kp.Y}
				gotSizes[i] = kp.FilterSize
			}
			if diff := cmp.Diff(tt.wantXY, gotXY); diff != "" {
				t.Errorf("positions mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantSizes, gotSizes); diff != "" {
				t.Errorf("filter sizes mismatch (-want +got):\n%s", diff)
			}
			if res.Count != len(tt.wantXY) {
				t.Errorf("Count: got %d, want %d", res.Count, len(tt.wantXY))
			}
		})
	}
}

func TestHandleToolsCall_DetectKeypoints_Descriptors(t *testing.T) {
	s := New()
	imgPath := createBlobImageFile(t)

	var res features.Result
	decodeToolResult(t, callTool(t, s, "image_detect_keypoints", map[string]interface{}{
		"path":                imgPath,
		"include_descriptors": true,
		"max_keypoints":       1,
	}), &res)

	if res.Count != 1 || res.Discarded != 1 {
		t.Fatalf("Count=%d Discarded=%d, want 1 and 1", res.Count, res.Discarded)
	}
	if n := len(res.Keypoints[0].Descriptor); n != 64 {
		t.Errorf("descriptor length: got %d, want 64", n)
	}
}

func TestHandleToolsCall_DetectKeypoints_Errors(t *testing.T) {
	s := New()
	imgPath := createBlobImageFile(t)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing file", map[string]interface{}{"path": "/nonexistent/image.png"}},
		{"even filter size", map[string]interface{}{"path": imgPath, "filter_sizes": []int{9, 14}}},
		{"zero threshold", map[string]interface{}{"path": imgPath, "threshold": 0}},
		{"margin below one", map[string]interface{}{"path": imgPath, "cross_scale_margin": 0.5}},
		{"unknown gray mode", map[string]interface{}{"path": imgPath, "gray_mode": "sepia"}},
		{"negative blur", map[string]interface{}{"path": imgPath, "blur_sigma": -1}},
		{"region outside image", map[string]interface{}{
			"path":   imgPath,
			"region": map[string]interface{}{"x1": 100, "y1": 0, "x2": 200, "y2": 80},
		}},
		{"negative max keypoints", map[string]interface{}{"path": imgPath, "max_keypoints": -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "image_detect_keypoints", tt.args)
			if resp.Error == nil {
				t.Fatal("Expected error")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestKeypointArgs_Options(t *testing.T) {
	threshold := 2.5
	a := keypointArgs{
		FilterSizes: []int{9, 15},
		Threshold:   &threshold,
		GrayMode:    "lightness",
		BlurSigma:   1.2,
	}

	opts, err := a.options()
	if err != nil {
		t.Fatalf("options failed: %v", err)
	}

	want := features.DefaultOptions()
	want.Detector.FilterSizes = []int{9, 15}
	want.Detector.ThresholdBase = 2.5
	want.GrayMode = imaging.GrayLightness
	want.BlurSigma = 1.2
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestKeypointArgs_OptionsDefaults(t *testing.T) {
	opts, err := keypointArgs{}.options()
	if err != nil {
		t.Fatalf("options failed: %v", err)
	}
	if diff := cmp.Diff(features.DefaultOptions(), opts); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleToolsCall_Preprocess(t *testing.T) {
	s := New()
	imgPath := createBlobImageFile(t)

	var preview imaging.PreviewResult
	decodeToolResult(t, callTool(t, s, "image_preprocess", map[string]interface{}{
		"path":   imgPath,
		"region": map[string]interface{}{"x1": 10, "y1": 20, "x2": 50, "y2": 60},
	}), &preview)

	if preview.Width != 40 || preview.Height != 40 {
		t.Errorf("dimensions: got %dx%d, want 40x40", preview.Width, preview.Height)
	}
	if preview.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", preview.MimeType)
	}
	if preview.ImageBase64 == "" {
		t.Error("ImageBase64 should not be empty")
	}
}

func TestHandleToolsCall_AnnotateKeypoints(t *testing.T) {
	s := New()
	imgPath := createBlobImageFile(t)

	var res struct {
		imaging.PreviewResult
		Count int `json:"count"`
	}
	decodeToolResult(t, callTool(t, s, "image_annotate_keypoints", map[string]interface{}{
		"path":        imgPath,
		"show_labels": false,
		"color":       "#00FF00",
	}), &res)

	if res.Count != 2 {
		t.Errorf("Count: got %d, want 2", res.Count)
	}
	if res.Width != 120 || res.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 120x80", res.Width, res.Height)
	}
	if res.ImageBase64 == "" {
		t.Error("ImageBase64 should not be empty")
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name": 42}`),
	})

	if resp == nil || resp.Error == nil {
		t.Fatal("Expected error response")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := New()
	resp := callTool(t, s, "image_crop", map[string]interface{}{"path": "/x.png"})

	if resp.Error == nil {
		t.Fatal("Expected error for unknown tool")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
	data, _ := resp.Error.Data.(string)
	if !strings.Contains(data, "unknown tool") {
		t.Errorf("Error data: got %q", data)
	}
}

func TestHandleToolsCall_Debug(t *testing.T) {
	s := New(WithDebug(true))
	if !s.debug {
		t.Fatal("WithDebug(true) did not enable debug")
	}
	imgPath := createBlobImageFile(t)

	var res features.Result
	decodeToolResult(t, callTool(t, s, "image_detect_keypoints", map[string]interface{}{"path": imgPath}), &res)
	if res.Count != 2 {
		t.Errorf("Count: got %d, want 2", res.Count)
	}
}

func TestMustMarshalJSON(t *testing.T) {
	got := mustMarshalJSON(map[string]int{"a": 1})
	if got != "{\n  \"a\": 1\n}" {
		t.Errorf("got %q", got)
	}
	if got := mustMarshalJSON(make(chan int)); got != "" {
		t.Errorf("unmarshalable value: got %q, want empty", got)
	}
}

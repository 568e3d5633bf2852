package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func decodePreview(t *testing.T, res *PreviewResult) image.Image {
	t.Helper()
	if res.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", res.MimeType)
	}
	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}

func TestEncodePreview(t *testing.T) {
	res, err := EncodePreview(IntensityImage([][]float64{{0, 1}, {1, 0}}))
	if err != nil {
		t.Fatalf("EncodePreview failed: %v", err)
	}
	if res.Width != 2 || res.Height != 2 {
		t.Errorf("dimensions: got %dx%d, want 2x2", res.Width, res.Height)
	}
	img := decodePreview(t, res)
	if r, _, _, _ := img.At(1, 0).RGBA(); r>>8 != 255 {
		t.Errorf("pixel (1,0) not white after round trip")
	}
}

func TestAnnotate(t *testing.T) {
	src := solidImage(60, 40, color.RGBA{0, 0, 0, 255})
	markers := []Marker{
		{X: 20, Y: 20, Radius: 6, Angle: 0},
		{X: 45, Y: 10, Radius: 0.5},
	}

	res, err := Annotate(src, markers, false, "#00FF00")
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if res.Width != 60 || res.Height != 40 {
		t.Errorf("dimensions: got %dx%d, want 60x40", res.Width, res.Height)
	}

	img := decodePreview(t, res)
	isGreen := func(x, y int) bool {
		r, g, b, _ := img.At(x, y).RGBA()
		return r == 0 && g>>8 == 255 && b == 0
	}
	for _, p := range []image.Point{{26, 20}, {20, 26}, {14, 20}, {20, 14}, {23, 20}, {45, 10}} {
		if !isGreen(p.X, p.Y) {
			t.Errorf("expected marker pixel at %v", p)
		}
	}
	if isGreen(20, 23) {
		t.Error("tick should point along +X only")
	}

	// Source is left untouched
	if r, g, b, _ := src.At(26, 20).RGBA(); r|g|b != 0 {
		t.Error("Annotate modified its input")
	}
}

func TestAnnotate_Labels(t *testing.T) {
	src := solidImage(60, 40, color.RGBA{0, 0, 0, 255})
	res, err := Annotate(src, []Marker{{X: 10, Y: 20, Radius: 3}}, true, "bad")
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	img := decodePreview(t, res)
	// Label "0" starts at (X+Radius+2, Y-3); its top row is solid
	if r, g, b, _ := img.At(15, 17).RGBA(); r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("label glyph pixel not white")
	}
	// Invalid colour falls back to red
	if r, g, _, _ := img.At(13, 20).RGBA(); r>>8 != 255 || g != 0 {
		t.Errorf("marker should fall back to red")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"00ff00", color.RGBA{0, 255, 0, 255}, false},
		{"#0000FF80", color.RGBA{0, 0, 255, 128}, false},
		{"", color.RGBA{}, true},
		{"#FFF", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseHexColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseHexColor(%q): error %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseHexColor(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDrawLabel_BoundsCheck(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	// Must not panic when the label runs past the edges
	drawLabel(img, 3, 3, "123", color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 255})
	drawLabel(img, -10, -10, "9", color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 255})
}

func TestDrawMarkers_LeavesSourceUntouched(t *testing.T) {
	src := solidImage(30, 30, color.RGBA{0, 0, 0, 255})
	out := DrawMarkers(src, []Marker{{X: 15, Y: 15, Radius: 5}}, true, "not-a-color")

	if got := out.NRGBAAt(20, 15); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("circle pixel: got %v, want fallback red", got)
	}
	if r, _, _, _ := src.At(20, 15).RGBA(); r != 0 {
		t.Error("source image was modified")
	}
}

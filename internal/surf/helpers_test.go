package surf

import (
	"math"
	"math/rand"
	"testing"
)

// gaussianBlob describes one bright Gaussian spot in a synthetic image.
type gaussianBlob struct {
	X, Y      float64
	Sigma     float64
	Amplitude float64
}

// blobRows renders blobs on a constant background.
func blobRows(width, height int, background float64, blobs ...gaussianBlob) [][]float64 {
	rows := make([][]float64, height)
	for y := range rows {
		rows[y] = make([]float64, width)
		for x := range rows[y] {
			v := background
			for _, b := range blobs {
				dx, dy := float64(x)-b.X, float64(y)-b.Y
				v += b.Amplitude * math.Exp(-(dx*dx+dy*dy)/(2*b.Sigma*b.Sigma))
			}
			rows[y][x] = v
		}
	}
	return rows
}

// constantRows returns a width x height array filled with v.
func constantRows(width, height int, v float64) [][]float64 {
	rows := make([][]float64, height)
	for y := range rows {
		rows[y] = make([]float64, width)
		for x := range rows[y] {
			rows[y][x] = v
		}
	}
	return rows
}

// rampRows returns base + gx*x + gy*y.
func rampRows(width, height int, base, gx, gy float64) [][]float64 {
	rows := make([][]float64, height)
	for y := range rows {
		rows[y] = make([]float64, width)
		for x := range rows[y] {
			rows[y][x] = base + gx*float64(x) + gy*float64(y)
		}
	}
	return rows
}

// rotatedSceneRows renders a blob with a gentle intensity ramp, rotated by
// theta about (cx, cy). The ramp gives the scene a well-defined dominant
// direction of 0.5 rad before rotation.
func rotatedSceneRows(width, height int, cx, cy, theta float64) [][]float64 {
	const rampDirection = 0.5
	sin, cos := math.Sincos(theta)
	rows := make([][]float64, height)
	for y := range rows {
		rows[y] = make([]float64, width)
		for x := range rows[y] {
			dx, dy := float64(x)-cx, float64(y)-cy
			u := cos*dx + sin*dy
			v := -sin*dx + cos*dy
			rows[y][x] = 0.2 +
				0.6*math.Exp(-(u*u+v*v)/(2*3.0*3.0)) +
				0.004*(u*math.Cos(rampDirection)+v*math.Sin(rampDirection))
		}
	}
	return rows
}

// texturedRows scatters random blobs over a noisy background.
func texturedRows(width, height int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	blobs := make([]gaussianBlob, 0, 16)
	for i := 0; i < 16; i++ {
		blobs = append(blobs, gaussianBlob{
			X:         8 + rng.Float64()*float64(width-16),
			Y:         8 + rng.Float64()*float64(height-16),
			Sigma:     1.5 + rng.Float64()*3,
			Amplitude: 0.2 + rng.Float64()*0.5,
		})
	}
	rows := blobRows(width, height, 0.1, blobs...)
	for y := range rows {
		for x := range rows[y] {
			rows[y][x] += rng.Float64() * 0.02
		}
	}
	return rows
}

func mustImage(t *testing.T, rows [][]float64) *Image {
	t.Helper()
	img, err := NewImage(rows)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	return img
}

func mustIntegrate(t *testing.T, rows [][]float64) *IntegralImage {
	t.Helper()
	ii, err := Integrate(mustImage(t, rows))
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}
	return ii
}

// serialConfig is DefaultConfig pinned to a single worker.
func serialConfig() Config {
	cfg := DefaultConfig()
	cfg.Workers = 1
	return cfg
}

// angleDiff returns a-b wrapped into [-π, π].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	if d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

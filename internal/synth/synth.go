// Package synth produces raster images algorithmically, without any network
// call. It stands in for the remote generation backend whenever that path is
// unavailable, and its output is reproducible: the same palette, style,
// quality and seed always yield byte-identical PNG data.
package synth

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"

	"imageforge/internal/style"
)

const (
	painterlyStamps = 100
	gradientPasses  = 20
	// gradient blending keeps 70% of the existing pixel so successive passes
	// accumulate instead of replacing each other.
	gradientKeep = 0.7
	gradientMix  = 0.3
)

// Synthesize renders a deterministic raster for the given inputs and returns
// it PNG-encoded. The raw prompt text biases the palette through color
// keywords; all stochastic steps draw from a generator seeded with seed.
func Synthesize(prompt string, d style.Descriptor, quality style.Quality, seed uint32) ([]byte, error) {
	dims := quality.Dimensions()
	palette := style.PaletteFor(prompt, d)
	rng := rand.New(rand.NewSource(int64(seed)))

	img := image.NewRGBA(image.Rect(0, 0, dims.Width, dims.Height))

	switch d.Family {
	case style.FamilyBlocks:
		paintBlocks(img, rng, palette)
	case style.FamilyPainterly:
		paintDiscs(img, rng, palette)
	default:
		paintGradients(img, rng, palette)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("synth: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// paintBlocks tiles the canvas into fixed-size squares, each painted with one
// palette color.
func paintBlocks(img *image.RGBA, rng *rand.Rand, palette []style.RGB) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	blockSize := width / 64
	if blockSize < 4 {
		blockSize = 4
	}
	for y := 0; y < height; y += blockSize {
		for x := 0; x < width; x += blockSize {
			c := pick(rng, palette)
			for by := y; by < y+blockSize && by < height; by++ {
				for bx := x; bx < x+blockSize && bx < width; bx++ {
					img.SetRGBA(bx, by, c)
				}
			}
		}
	}
}

// paintDiscs stamps soft circular regions of random center, radius and color.
// Later stamps overwrite earlier ones in their footprint.
func paintDiscs(img *image.RGBA, rng *rand.Rand, palette []style.RGB) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	minR, maxR := width/20, width/4
	if minR < 1 {
		minR = 1
	}
	if maxR <= minR {
		maxR = minR + 1
	}
	for i := 0; i < painterlyStamps; i++ {
		cx := rng.Intn(width)
		cy := rng.Intn(height)
		r := minR + rng.Intn(maxR-minR)
		c := pick(rng, palette)
		for y := max(0, cy-r); y < min(height, cy+r+1); y++ {
			for x := max(0, cx-r); x < min(width, cx+r+1); x++ {
				dx, dy := x-cx, y-cy
				if dx*dx+dy*dy <= r*r {
					img.SetRGBA(x, y, c)
				}
			}
		}
	}
}

// paintGradients blends a bounded number of two-point gradients into the
// canvas with a fixed mixing weight.
func paintGradients(img *image.RGBA, rng *rand.Rand, palette []style.RGB) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	for i := 0; i < gradientPasses; i++ {
		sx, sy := rng.Intn(width), rng.Intn(height)
		ex, ey := rng.Intn(width), rng.Intn(height)
		c1 := pick(rng, palette)
		c2 := pick(rng, palette)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				d1 := math.Hypot(float64(x-sx), float64(y-sy))
				d2 := math.Hypot(float64(x-ex), float64(y-ey))
				if d1+d2 == 0 {
					continue
				}
				ratio := d1 / (d1 + d2)
				blended := color.RGBA{
					R: lerp(c1.R, c2.R, ratio),
					G: lerp(c1.G, c2.G, ratio),
					B: lerp(c1.B, c2.B, ratio),
					A: 255,
				}
				old := img.RGBAAt(x, y)
				img.SetRGBA(x, y, color.RGBA{
					R: mix(old.R, blended.R),
					G: mix(old.G, blended.G),
					B: mix(old.B, blended.B),
					A: 255,
				})
			}
		}
	}
}

func pick(rng *rand.Rand, palette []style.RGB) color.RGBA {
	c := palette[rng.Intn(len(palette))]
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
}

func lerp(a, b uint8, ratio float64) uint8 {
	return uint8(float64(a)*(1-ratio) + float64(b)*ratio)
}

func mix(old, next uint8) uint8 {
	return uint8(float64(old)*gradientKeep + float64(next)*gradientMix)
}

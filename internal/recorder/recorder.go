// Package recorder turns the frames captured during a run into an animated
// GIF, a diagnostic artifact that shows what the browser actually did.
package recorder

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"os"
	"sort"

	"github.com/nfnt/resize"
)

const (
	defaultMaxWidth = 800
	// Per-frame delay in 100ths of a second. Runs capture one frame per
	// step, so playback is deliberately slow.
	defaultDelay = 75
)

// Recorder accumulates page frames and encodes them on Save.
type Recorder struct {
	path     string
	maxWidth uint
	delay    int
	frames   []image.Image
}

// New returns a recorder that writes its GIF to path.
func New(path string) *Recorder {
	return &Recorder{path: path, maxWidth: defaultMaxWidth, delay: defaultDelay}
}

// Add appends a frame. Nil frames are ignored so callers can pass capture
// results through without checking.
func (r *Recorder) Add(frame image.Image) {
	if frame == nil {
		return
	}
	r.frames = append(r.frames, frame)
}

// Len reports the number of captured frames.
func (r *Recorder) Len() int { return len(r.frames) }

// Save encodes all frames and writes the GIF. A recorder without frames is a
// no-op.
func (r *Recorder) Save() error {
	if len(r.frames) == 0 {
		return nil
	}

	bounds := r.frames[0].Bounds()
	outW := r.maxWidth
	aspect := float64(bounds.Dy()) / float64(bounds.Dx())
	outH := uint(float64(outW) * aspect)

	g := &gif.GIF{
		Image:     make([]*image.Paletted, len(r.frames)),
		Delay:     make([]int, len(r.frames)),
		LoopCount: 0,
	}
	palette := buildPalette(r.frames[0])

	for i, frame := range r.frames {
		scaled := resize.Resize(outW, outH, frame, resize.Lanczos3)
		paletted := image.NewPaletted(scaled.Bounds(), palette)
		draw.FloydSteinberg.Draw(paletted, scaled.Bounds(), scaled, image.Point{})
		g.Image[i] = paletted
		g.Delay[i] = r.delay
	}

	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	defer f.Close()

	if err := gif.EncodeAll(f, g); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

// buildPalette samples the reference frame and keeps its most frequent
// colors, padded with grayscale up to the 256 color GIF limit.
func buildPalette(img image.Image) color.Palette {
	bounds := img.Bounds()
	counts := make(map[color.RGBA]int)

	const step = 4
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			cr, cg, cb, ca := img.At(x, y).RGBA()
			counts[color.RGBA{
				R: uint8(cr >> 8),
				G: uint8(cg >> 8),
				B: uint8(cb >> 8),
				A: uint8(ca >> 8),
			}]++
		}
	}

	type freq struct {
		c color.RGBA
		n int
	}
	ranked := make([]freq, 0, len(counts))
	for c, n := range counts {
		ranked = append(ranked, freq{c, n})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].n > ranked[j].n })

	palette := make(color.Palette, 0, 256)
	palette = append(palette, color.RGBA{})
	for i := 0; i < len(ranked) && len(palette) < 256; i++ {
		palette = append(palette, ranked[i].c)
	}
	for len(palette) < 256 {
		gray := uint8(len(palette))
		palette = append(palette, color.RGBA{gray, gray, gray, 255})
	}
	return palette
}

package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/charmbracelet/lipgloss"
)

const (
	gifCharW = 8
	gifCharH = 16
)

// palette indices
const (
	idxBackground uint8 = iota
	idxFrame
	idxPartition
	idxGasA
	idxGasB
	idxMixed
)

// Recorder turns canvas frames into an animated GIF.
type Recorder struct {
	frames  []*image.Paletted
	palette color.Palette
	delay   int
}

// NewRecorder records with the theme's colors; delay is in 1/100 s.
func NewRecorder(t Theme, delay int) *Recorder {
	if delay <= 0 {
		delay = 2
	}
	return &Recorder{
		palette: color.Palette{
			toRGBA(t.Background),
			toRGBA(t.Muted),
			toRGBA(t.Accent),
			toRGBA(t.GasA),
			toRGBA(t.GasB),
			toRGBA(t.Text),
		},
		delay: delay,
	}
}

func toRGBA(c lipgloss.Color) color.RGBA {
	r, g, b := parseHex(string(c))
	return color.RGBA{uint8(r), uint8(g), uint8(b), 0xff}
}

func layerIndex(l Layer) uint8 {
	switch effective(l) {
	case LayerGasA | LayerGasB:
		return idxMixed
	case LayerGasA:
		return idxGasA
	case LayerGasB:
		return idxGasB
	case LayerPartition:
		return idxPartition
	}
	return idxFrame
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture rasterizes the canvas, one block per braille dot.
func (r *Recorder) Capture(c *Canvas) {
	imgW, imgH := c.Width*gifCharW, c.Height*gifCharH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), r.palette)
	dotW, dotH := gifCharW/2, gifCharH/4

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := int(c.Grid[row][col] - brailleBase)
			if pattern <= 0 {
				continue
			}
			idx := layerIndex(c.Layers[row][col])
			baseX, baseY := col*gifCharW, row*gifCharH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, idx)
						}
					}
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save writes the captured frames to path and clears the recorder.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gif.EncodeAll(f, &anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	r.frames = nil
	return nil
}

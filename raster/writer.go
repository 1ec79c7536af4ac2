package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"
)

// Build an exact palette in order of first appearance, failing if there are
// too many colors
func exactPalette(m image.Image) (color.Palette, bool) {
	b := m.Bounds()
	seen := make(map[color.NRGBA]struct{})
	p := make(color.Palette, 0, maxPaletteColors)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(p) == maxPaletteColors {
				return nil, false
			}
			seen[c] = struct{}{}
			p = append(p, c)
		}
	}
	return p, true
}

func toPaletted(m image.Image, p color.Palette) *image.Paletted {
	b := m.Bounds()
	pm := image.NewPaletted(b, p)
	index := make(map[color.NRGBA]uint8, len(p))
	for i, c := range p {
		index[c.(color.NRGBA)] = uint8(i)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pm.SetColorIndex(x, y, index[color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)])
		}
	}
	return pm
}

func quantized(m image.Image, colors int) *image.Paletted {
	if colors > maxPaletteColors {
		colors = maxPaletteColors
	}
	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

// Encode writes the pane m to w as a PNG according to o.
func Encode(w io.Writer, m image.Image, o Options) error {
	b := m.Bounds()
	if b.Empty() {
		return errors.New("raster: empty image")
	}
	if o.Colors < 0 {
		return errors.New("raster: negative color limit")
	}

	e := png.Encoder{CompressionLevel: png.DefaultCompression}
	if o.Optimize {
		e.CompressionLevel = png.BestCompression
	}

	switch {
	case o.Colors > 0:
		m = quantized(m, o.Colors)
	case o.Optimize:
		if p, ok := exactPalette(m); ok {
			m = toPaletted(m, p)
		}
	}

	return e.Encode(w, m)
}

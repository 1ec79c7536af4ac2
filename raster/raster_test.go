package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: uint8(0x80 + x)})
		}
	}
	return m
}

func checker(w, h int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 0xff, A: 0xff}
			if (x+y)%2 == 0 {
				c = color.NRGBA{G: 0x40, B: 0x80, A: 0x7f}
			}
			m.SetNRGBA(x, y, c)
		}
	}
	return m
}

func assertSamePixels(t *testing.T, want, got image.Image) {
	t.Helper()
	require.Equal(t, want.Bounds().Size(), got.Bounds().Size())
	wb, gb := want.Bounds(), got.Bounds()
	for y := 0; y < wb.Dy(); y++ {
		for x := 0; x < wb.Dx(); x++ {
			w := color.NRGBAModel.Convert(want.At(wb.Min.X+x, wb.Min.Y+y))
			g := color.NRGBAModel.Convert(got.At(gb.Min.X+x, gb.Min.Y+y))
			if w != g {
				t.Fatalf("pixel (%d, %d): want %v, got %v", x, y, w, g)
			}
		}
	}
}

func TestEncode(t *testing.T) {
	tables := []struct {
		name     string
		image    *image.NRGBA
		options  Options
		paletted bool
	}{
		{"plain gradient", gradient(64, 64), Options{}, false},
		{"optimized gradient", gradient(64, 64), Options{Optimize: true}, false},
		{"plain checker", checker(16, 8), Options{}, false},
		{"optimized checker", checker(16, 8), Options{Optimize: true}, true},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			b := new(bytes.Buffer)
			require.NoError(t, Encode(b, table.image, table.options))

			m, err := png.Decode(b)
			require.NoError(t, err)

			_, ok := m.(*image.Paletted)
			assert.Equal(t, table.paletted, ok)
			assertSamePixels(t, table.image, m)
		})
	}
}

func TestEncodeQuantized(t *testing.T) {
	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, gradient(32, 32), Options{Colors: 16}))

	m, err := png.Decode(b)
	require.NoError(t, err)

	pm, ok := m.(*image.Paletted)
	require.True(t, ok)
	assert.LessOrEqual(t, len(pm.Palette), 16)
	assert.Equal(t, image.Pt(32, 32), pm.Bounds().Size())
}

func TestEncodeErrors(t *testing.T) {
	assert.Error(t, Encode(new(bytes.Buffer), image.NewNRGBA(image.Rect(0, 0, 0, 0)), Options{}))
	assert.Error(t, Encode(new(bytes.Buffer), checker(2, 2), Options{Colors: -1}))
}

func TestParseBackground(t *testing.T) {
	tables := []struct {
		in   string
		want color.NRGBA
		err  bool
	}{
		{"", Transparent, false},
		{"transparent", Transparent, false},
		{"red", color.NRGBA{R: 0xff, A: 0xff}, false},
		{"Red", color.NRGBA{R: 0xff, A: 0xff}, false},
		{"#102030", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, false},
		{"#10203040", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}, false},
		{"#1020", color.NRGBA{}, true},
		{"#zzzzzz", color.NRGBA{}, true},
		{"notacolor", color.NRGBA{}, true},
	}

	for _, table := range tables {
		c, err := ParseBackground(table.in)
		if table.err {
			assert.Error(t, err, table.in)
			continue
		}
		require.NoError(t, err, table.in)
		assert.Equal(t, table.want, c, table.in)
	}

	for _, in := range []string{"#zz", "notacolor"} {
		_, err := ParseBackground(in)
		_, ok := err.(interface{ StackTrace() errors.StackTrace })
		assert.True(t, ok, in)
	}
	_, ok := Encode(new(bytes.Buffer), checker(2, 2), Options{Colors: -1}).(interface{ StackTrace() errors.StackTrace })
	assert.True(t, ok)

	assert.Equal(t, "#ff000080", FormatBackground(color.NRGBA{R: 0xff, A: 0x80}))
}

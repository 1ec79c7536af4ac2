/*
Package raster encodes sprite panes to disk and registers the image formats
accepted as sprite sources.

Panes are always written as PNG with an alpha channel. With optimization
enabled the encoder uses the best zlib compression and, when the pane uses
no more than 256 distinct colors, writes an indexed PNG with an exact
palette so the pixel content is unchanged. Lossy palette reduction is only
performed when a color limit is requested explicitly.
*/
package raster

import (
	// Source formats understood by image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const maxPaletteColors = 256

// Options controls how a pane is encoded.
type Options struct {
	// Optimize trades encoding time for a smaller file without losing
	// any pixel information.
	Optimize bool
	// Colors, if greater than zero, quantizes the pane to at most that
	// many colors using median cut. This is lossy.
	Colors int
}

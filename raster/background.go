package raster

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
)

// Transparent is the default pane background.
var Transparent = color.NRGBA{}

// ParseBackground parses a pane background color. It accepts "transparent",
// any SVG 1.1 color name such as "red", or a hex value in "#rrggbb" or
// "#rrggbbaa" form. Named and six digit colors are opaque.
func ParseBackground(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "transparent":
		return Transparent, nil
	case strings.HasPrefix(s, "#"):
		b, err := hex.DecodeString(s[1:])
		if err != nil || (len(b) != 3 && len(b) != 4) {
			return color.NRGBA{}, errors.Errorf("raster: invalid color %q", s)
		}
		c := color.NRGBA{R: b[0], G: b[1], B: b[2], A: 0xff}
		if len(b) == 4 {
			c.A = b[3]
		}
		return c, nil
	}

	c, ok := colornames.Map[s]
	if !ok {
		return color.NRGBA{}, errors.Errorf("raster: unknown color %q", s)
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}, nil
}

// FormatBackground is the inverse of ParseBackground, always returning the
// "#rrggbbaa" form.
func FormatBackground(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

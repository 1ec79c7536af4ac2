package spritepane

import (
	"github.com/nfnt/resize"
)

func half(n int) uint {
	if n < 2 {
		return 1
	}
	return uint(n / 2)
}

// Derive returns lo extended with a half size copy of every image in hi
// that has no counterpart of the same name in lo, along with the number of
// images added. Derived images follow the existing ones in the order they
// appear in hi.
func Derive(lo, hi []*SourceImage) ([]*SourceImage, int) {
	names := make(map[string]struct{}, len(lo))
	for _, m := range lo {
		names[m.Name] = struct{}{}
	}

	out := append(lo[:0:0], lo...)
	for _, m := range hi {
		if _, ok := names[m.Name]; ok {
			continue
		}
		size := m.Image.Bounds().Size()
		out = append(out, &SourceImage{
			Name:    m.Name,
			Path:    m.Path,
			Factor:  1,
			Image:   resize.Resize(half(size.X), half(size.Y), m.Image, resize.Lanczos3),
			Sum:     m.Sum,
			Derived: true,
		})
	}

	return out, len(out) - len(lo)
}

package spritepane

import (
	"image"
	"os"

	"github.com/bodgit/spritepane/manifest"
	"github.com/pkg/errors"
)

// Verify checks that the manifest at jsonPath describes non-overlapping
// rectangles that all lie within the image at pngPath.
func Verify(pngPath, jsonPath string) error {
	f, err := os.Open(pngPath)
	if err != nil {
		return err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return errors.Wrapf(err, "decode %s", pngPath)
	}

	j, err := os.Open(jsonPath)
	if err != nil {
		return err
	}
	defer j.Close()

	m, err := manifest.Decode(j)
	if err != nil {
		return errors.Wrapf(err, "decode %s", jsonPath)
	}

	for _, name := range m.Names() {
		if r, _ := m.Get(name); r.PixelRatio < 1 {
			return errors.Errorf("%s: %q has invalid pixel ratio %d", jsonPath, name, r.PixelRatio)
		}
	}

	return errors.Wrap(m.Validate(image.Rect(0, 0, cfg.Width, cfg.Height)), jsonPath)
}

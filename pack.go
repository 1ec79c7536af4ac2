package spritepane

import (
	"context"
	"image"
	"image/draw"
	"io"
	"path/filepath"

	"github.com/bodgit/spritepane/manifest"
	"github.com/bodgit/spritepane/raster"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Pane is a composed sprite pane ready to be written.
type Pane struct {
	Factor   int
	Image    *image.NRGBA
	Manifest *manifest.Manifest
	Layout   *Layout

	images []*SourceImage
}

// paste copies src into dst with its top-left corner at pt, replacing the
// destination pixels including alpha.
func paste(dst *image.NRGBA, pt image.Point, src image.Image) {
	sb := src.Bounds()
	r := image.Rectangle{Min: pt, Max: pt.Add(sb.Size())}
	if s, ok := src.(*image.NRGBA); ok {
		for y := 0; y < sb.Dy(); y++ {
			si := s.PixOffset(sb.Min.X, sb.Min.Y+y)
			di := dst.PixOffset(pt.X, pt.Y+y)
			copy(dst.Pix[di:di+4*sb.Dx()], s.Pix[si:si+4*sb.Dx()])
		}
		return
	}
	draw.Draw(dst, r, src, sb.Min, draw.Src)
}

// Compose lays out images, which must all be of the given factor, and
// draws them into a new pane.
func (p *Packer) Compose(images []*SourceImage, factor int) (*Pane, error) {
	sizes := make([]image.Point, len(images))
	for i, m := range images {
		if m.Factor != factor {
			return nil, errors.Errorf("%s has factor %d, want %d", m.Path, m.Factor, factor)
		}
		sizes[i] = m.Image.Bounds().Size()
	}

	l, err := NewLayout(sizes)
	if err != nil {
		return nil, err
	}
	p.logger.Printf("Factor %d: %d images, %d columns, %d rows\n", factor, len(images), l.Columns, l.Rows)
	p.logger.Printf("Factor %d: pane is %dx%d\n", factor, l.Size.X, l.Size.Y)

	pane := &Pane{
		Factor:   factor,
		Image:    image.NewNRGBA(image.Rectangle{Max: l.Size}),
		Manifest: manifest.New(),
		Layout:   l,
		images:   images,
	}
	draw.Draw(pane.Image, pane.Image.Bounds(), image.NewUniform(p.background), image.Point{}, draw.Src)

	for i, m := range images {
		paste(pane.Image, l.Cells[i], m.Image)
		if err := pane.Manifest.Set(m.Name, manifest.Record{
			X:          l.Cells[i].X,
			Y:          l.Cells[i].Y,
			Width:      sizes[i].X,
			Height:     sizes[i].Y,
			PixelRatio: factor,
		}); err != nil {
			return nil, errors.Wrap(err, m.Path)
		}
	}

	return pane, nil
}

// EncodeManifest writes the pane manifest to w
func (pane *Pane) EncodeManifest(w io.Writer) error {
	return pane.Manifest.Encode(w)
}

// EncodeImage writes the pane image to w as a PNG
func (pane *Pane) EncodeImage(w io.Writer, o raster.Options) error {
	return raster.Encode(w, pane.Image, o)
}

func (p *Packer) write(pane *Pane, dir string) error {
	pngName, jsonName := OutputNames(pane.Factor)
	pngPath, jsonPath := filepath.Join(dir, pngName), filepath.Join(dir, jsonName)

	var digest string
	if p.cache != nil {
		digest = p.digest(pane)
		fresh, err := p.cache.Fresh(pngPath, jsonPath, digest)
		if err != nil {
			return err
		}
		if fresh {
			p.logger.Printf("Factor %d: %s is up to date\n", pane.Factor, pngPath)
			return nil
		}
	}

	sums, err := writeAtomic(dir,
		output{pngName, func(w io.Writer) error { return pane.EncodeImage(w, p.encoding) }},
		output{jsonName, pane.EncodeManifest},
	)
	if err != nil {
		return err
	}
	p.logger.Printf("Factor %d: wrote %s and %s\n", pane.Factor, pngPath, jsonPath)

	if p.cache != nil {
		return p.cache.Store(pngPath, jsonPath, digest, sums[0], sums[1])
	}
	return nil
}

func loadedFactors(loaded map[int][]*SourceImage) []int {
	sets := make(map[int][]string, len(loaded))
	for f := range loaded {
		sets[f] = nil
	}
	return Factors(sets)
}

// Pack builds and writes the pane for a single resolution set into dir.
func (p *Packer) Pack(ctx context.Context, paths []string, factor int, dir string) error {
	images, err := p.Load(ctx, paths, factor)
	if err != nil {
		return err
	}
	pane, err := p.Compose(images, factor)
	if err != nil {
		return err
	}
	return p.write(pane, dir)
}

// PackAll classifies paths into resolution sets and writes a pane for each
// non-empty set into dir. Nothing is written unless every set loads and
// composes successfully.
func (p *Packer) PackAll(ctx context.Context, paths []string, dir string) error {
	sets, ignored := Classify(paths)
	for _, path := range ignored {
		p.logger.Printf("Ignoring %s, unsupported density\n", path)
	}

	factors := Factors(sets)
	if len(factors) == 0 {
		return ErrNoImages
	}

	loaded := make(map[int][]*SourceImage, len(factors))
	results := make([][]*SourceImage, len(factors))
	g, gctx := errgroup.WithContext(ctx)
	for i, factor := range factors {
		i, factor := i, factor
		g.Go(func() error {
			images, err := p.Load(gctx, sets[factor], factor)
			if err != nil {
				return errors.Wrapf(err, "factor %d", factor)
			}
			results[i] = images
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, factor := range factors {
		loaded[factor] = results[i]
	}

	if p.derive {
		if hi, ok := loaded[2]; ok {
			lo, n := Derive(loaded[1], hi)
			if n > 0 {
				p.logger.Printf("Derived %d standard density images\n", n)
				loaded[1] = lo
				factors = loadedFactors(loaded)
			}
		}
	}

	panes := make([]*Pane, len(factors))
	g = new(errgroup.Group)
	for i, factor := range factors {
		i, factor := i, factor
		g.Go(func() error {
			pane, err := p.Compose(loaded[factor], factor)
			if err != nil {
				return errors.Wrapf(err, "factor %d", factor)
			}
			panes[i] = pane
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, pane := range panes {
		if err := p.write(pane, dir); err != nil {
			return err
		}
	}

	return nil
}

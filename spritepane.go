/*
Package spritepane is a library for packing a set of images into a single
sprite pane with an accompanying placement manifest.

Images are split into resolution sets by file name; "icon.png" belongs to
the standard set and "icon@2x.png" to the high density set. Each set is laid
out on a fixed grid of floor(sqrt(n)) columns, in input order, and written
as spritePane.png and spritePane.json (or spritePane@2x.png and
spritePane@2x.json).
*/
package spritepane

import (
	"image/color"
	"io"
	"log"
	"runtime"

	"github.com/bodgit/spritepane/raster"
	"github.com/pkg/errors"
)

var (
	// ErrNoImages is returned when a resolution set contains no images
	ErrNoImages = errors.New("no images")
	// ErrDuplicateName is returned when two images in a resolution set
	// share the same base name
	ErrDuplicateName = errors.New("duplicate image name")
)

// Packer builds sprite panes.
type Packer struct {
	logger     *log.Logger
	background color.NRGBA
	encoding   raster.Options
	jobs       int
	derive     bool
	cache      *Cache
}

// Option configures a Packer
type Option func(*Packer) error

// WithLogger sets the logger used to report progress
func WithLogger(logger *log.Logger) Option {
	return func(p *Packer) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		p.logger = logger
		return nil
	}
}

// WithBackground sets the color used to fill any part of the pane not
// covered by an image. The default is fully transparent.
func WithBackground(c color.NRGBA) Option {
	return func(p *Packer) error {
		p.background = c
		return nil
	}
}

// WithEncoding sets the PNG encoding options
func WithEncoding(o raster.Options) Option {
	return func(p *Packer) error {
		if o.Colors < 0 {
			return errors.New("color limit must not be negative")
		}
		p.encoding = o
		return nil
	}
}

// WithJobs sets the number of images decoded concurrently
func WithJobs(n int) Option {
	return func(p *Packer) error {
		if n < 1 {
			return errors.New("jobs must be at least 1")
		}
		p.jobs = n
		return nil
	}
}

// WithDerive enables synthesizing missing standard density images by
// halving their high density counterparts.
func WithDerive(derive bool) Option {
	return func(p *Packer) error {
		p.derive = derive
		return nil
	}
}

// WithCache enables skipping writes of panes whose inputs are unchanged
func WithCache(cache *Cache) Option {
	return func(p *Packer) error {
		p.cache = cache
		return nil
	}
}

// New returns a Packer configured with the given options
func New(options ...Option) (*Packer, error) {
	p := &Packer{
		logger:     log.New(io.Discard, "", 0),
		background: raster.Transparent,
		encoding:   raster.Options{Optimize: true},
		jobs:       runtime.NumCPU(),
	}
	for _, o := range options {
		if err := o(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

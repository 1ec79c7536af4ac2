package spritepane

import (
	"context"
	"crypto/sha1"
	"image"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// SourceImage is a decoded input image.
type SourceImage struct {
	Name   string
	Path   string
	Factor int
	Image  image.Image

	// Sum is the SHA1 of the file the image was decoded from
	Sum [sha1.Size]byte

	// Derived is set when the image was synthesized from another
	// resolution set rather than read from Path
	Derived bool
}

type decodeJob struct {
	index int
	path  string
}

func decodeFile(path string) (image.Image, [sha1.Size]byte, error) {
	var sum [sha1.Size]byte

	f, err := os.Open(path)
	if err != nil {
		return nil, sum, err
	}
	defer f.Close()

	h := sha1.New()
	r := io.TeeReader(f, h)
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, sum, err
	}
	// Hash any trailing bytes the decoder didn't need
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, sum, err
	}
	copy(sum[:], h.Sum(nil))

	return m, sum, nil
}

func (p *Packer) feedPaths(ctx context.Context, paths []string) (<-chan decodeJob, <-chan error) {
	out := make(chan decodeJob)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i, path := range paths {
			select {
			case out <- decodeJob{i, path}:
			case <-ctx.Done():
				errc <- errors.New("decode cancelled")
				return
			}
		}
	}()
	return out, errc
}

func (p *Packer) decodeWorker(ctx context.Context, in <-chan decodeJob, factor int, images []*SourceImage) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for job := range in {
			m, sum, err := decodeFile(job.path)
			if err != nil {
				errc <- errors.Wrapf(err, "decode %s", job.path)
				return
			}
			images[job.index] = &SourceImage{
				Name:   BaseName(job.path),
				Path:   job.path,
				Factor: factor,
				Image:  m,
				Sum:    sum,
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
	return errc
}

func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			cancel()
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Load decodes the images at paths for the given factor, preserving their
// order. Any image that fails to decode aborts the load.
func (p *Packer) Load(ctx context.Context, paths []string, factor int) ([]*SourceImage, error) {
	if len(paths) == 0 {
		return nil, ErrNoImages
	}
	if factor < 1 {
		return nil, errors.Errorf("invalid factor %d", factor)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	images := make([]*SourceImage, len(paths))

	jobs, errc := p.feedPaths(ctx, paths)
	errcList := []<-chan error{errc}

	workers := p.jobs
	if workers > len(paths) {
		workers = len(paths)
	}
	for i := 0; i < workers; i++ {
		errcList = append(errcList, p.decodeWorker(ctx, jobs, factor, images))
	}

	if err := waitForPipeline(cancel, errcList...); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]string, len(images))
	for _, m := range images {
		if other, ok := seen[m.Name]; ok {
			return nil, errors.Wrapf(ErrDuplicateName, "%q from %s and %s", m.Name, other, m.Path)
		}
		seen[m.Name] = m.Path
	}

	return images, nil
}

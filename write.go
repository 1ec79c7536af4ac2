package spritepane

import (
	"crypto/sha1"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
)

type output struct {
	name   string
	encode func(io.Writer) error
}

// commitPending makes a pending file visible under its target name
var commitPending = func(f *renameio.PendingFile) error {
	return f.CloseAtomicallyReplace()
}

// backup moves an existing target aside, returning "" if there was nothing
// to move. Only regular files are moved.
func backup(dir, target string) (string, error) {
	info, err := os.Lstat(target)
	switch {
	case os.IsNotExist(err):
		return "", nil
	case err != nil:
		return "", err
	case !info.Mode().IsRegular():
		return "", errors.Errorf("%s is not a regular file", target)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(target)+".old.*")
	if err != nil {
		return "", err
	}
	name := f.Name()
	f.Close()

	if err := os.Rename(target, name); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

// restore puts backed up targets back in place and removes any of the first
// n targets that had nothing to back up, as those were newly committed
func restore(targets, backups []string, n int) {
	for i, b := range backups {
		switch {
		case b != "":
			os.Rename(b, targets[i])
		case i < n:
			os.Remove(targets[i])
		}
	}
}

// writeAtomic encodes every output to a pending file in dir and only once
// all of them have been written and synced replaces the targets. If any
// replacement fails the previous targets are put back, so either every
// output is updated or none is. It returns the SHA1 of each output in the
// same order.
func writeAtomic(dir string, outputs ...output) ([]string, error) {
	pending := make([]*renameio.PendingFile, 0, len(outputs))
	defer func() {
		for _, f := range pending {
			f.Cleanup()
		}
	}()

	targets := make([]string, 0, len(outputs))
	sums := make([]string, 0, len(outputs))

	for _, o := range outputs {
		target := filepath.Join(dir, o.name)
		f, err := renameio.NewPendingFile(target, renameio.WithTempDir(dir), renameio.WithStaticPermissions(0644))
		if err != nil {
			return nil, errors.Wrapf(err, "create %s", o.name)
		}
		pending = append(pending, f)
		targets = append(targets, target)

		h := sha1.New()
		if err := o.encode(io.MultiWriter(f, h)); err != nil {
			return nil, errors.Wrapf(err, "write %s", o.name)
		}
		sums = append(sums, fmt.Sprintf("%X", h.Sum(nil)))
	}

	backups := make([]string, 0, len(targets))
	for _, target := range targets {
		b, err := backup(dir, target)
		if err != nil {
			restore(targets, backups, 0)
			return nil, errors.Wrapf(err, "replace %s", filepath.Base(target))
		}
		backups = append(backups, b)
	}

	for i, f := range pending {
		if err := commitPending(f); err != nil {
			restore(targets, backups, i)
			return nil, errors.Wrapf(err, "replace %s", outputs[i].name)
		}
	}

	for _, b := range backups {
		if b != "" {
			os.Remove(b)
		}
	}

	return sums, nil
}
